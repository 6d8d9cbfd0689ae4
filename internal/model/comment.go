package model

// Comment 评论模型
// TargetType/TargetID 是线程根目标对，同一棵评论树上的所有行保持一致，
// 回复的同线程校验和子树删除都依赖这份冗余
type Comment struct {
	Base
	AuthorID   uint   `gorm:"not null;index" json:"author_id"`
	TargetType string `gorm:"type:varchar(20);not null;index:idx_comment_target" json:"target_type"` // post/photo/comment
	TargetID   uint   `gorm:"not null;index:idx_comment_target" json:"target_id"`
	ParentID   *uint  `gorm:"index" json:"parent_id"`
	TextRaw    string `gorm:"type:text;not null" json:"text_raw"`
	TextHTML   string `gorm:"type:text;not null" json:"text_html"` // 已净化HTML

	// 关联
	Author   User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Parent   *Comment   `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []*Comment `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}
