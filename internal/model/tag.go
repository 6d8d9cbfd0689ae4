package model

// Tag 标签模型，随帖子输入按需创建
type Tag struct {
	Base
	Name string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	Slug string `gorm:"type:varchar(50);not null;uniqueIndex" json:"slug"`

	// 关联
	Posts []*Post `gorm:"many2many:post_tags;" json:"posts,omitempty"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}
