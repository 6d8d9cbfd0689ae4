package model

import (
	"time"
)

// Post 帖子模型
// 不变式: IsPublished == true 当且仅当 PublishedAt != nil
type Post struct {
	Base
	AuthorID    uint       `gorm:"not null;index" json:"author_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"` // 已净化HTML
	IsPublished bool       `gorm:"not null;default:false;index" json:"is_published"`
	PublishedAt *time.Time `gorm:"index" json:"published_at"`

	// 关联
	Author     User        `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Categories []*Category `gorm:"many2many:post_categories;" json:"categories,omitempty"`
	Tags       []*Tag      `gorm:"many2many:post_tags;" json:"tags,omitempty"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// PostCategory 帖子-分类关联模型
type PostCategory struct {
	PostID     uint `gorm:"primaryKey;not null" json:"post_id"`
	CategoryID uint `gorm:"primaryKey;not null" json:"category_id"`
}

// TableName 指定表名
func (PostCategory) TableName() string {
	return "post_categories"
}

// PostTag 帖子-标签关联模型
type PostTag struct {
	PostID uint `gorm:"primaryKey;not null" json:"post_id"`
	TagID  uint `gorm:"primaryKey;not null" json:"tag_id"`
}

// TableName 指定表名
func (PostTag) TableName() string {
	return "post_tags"
}
