package model

// Photo 用户相册图片模型
type Photo struct {
	Base
	OwnerID  uint   `gorm:"not null;index" json:"owner_id"`
	Filename string `gorm:"type:varchar(255);not null" json:"filename"` // 仓库相对路径
	Caption  string `gorm:"type:varchar(255)" json:"caption"`

	// 关联
	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

// TableName 指定表名
func (Photo) TableName() string {
	return "photos"
}
