package model

// Category 分类模型，由管理员维护的固定列表
type Category struct {
	Base
	Name string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	Slug string `gorm:"type:varchar(50);not null;uniqueIndex" json:"slug"`

	// 关联
	Posts []*Post `gorm:"many2many:post_categories;" json:"posts,omitempty"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
