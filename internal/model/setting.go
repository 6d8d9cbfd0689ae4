package model

// 站点设置取值类型
const (
	ValueTypeString = "string"
	ValueTypeInt    = "int"
	ValueTypeBool   = "bool"
)

// 保留的设置键
const (
	SettingSiteTitle          = "site_title"
	SettingPostsPerPage       = "posts_per_page"
	SettingAllowRegistrations = "allow_registrations"
	SettingAutoApproveUsers   = "auto_approve_users"
)

// Setting 站点设置模型，带类型的键值对
type Setting struct {
	Base
	Key       string `gorm:"type:varchar(50);not null;uniqueIndex" json:"key"`
	Value     string `gorm:"type:text" json:"value"`
	ValueType string `gorm:"type:varchar(10);not null;default:'string'" json:"value_type"` // string/int/bool
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}
