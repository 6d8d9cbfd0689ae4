package model

import (
	"time"
)

// CommentFlag 评论举报模型
// 同一举报人对同一评论在未处理期间只允许一条记录，由服务层保证
type CommentFlag struct {
	Base
	CommentID  uint       `gorm:"not null;index:idx_flag_comment_flagger" json:"comment_id"`
	FlaggerID  uint       `gorm:"not null;index:idx_flag_comment_flagger" json:"flagger_id"`
	Reason     string     `gorm:"type:varchar(255)" json:"reason"`
	IsResolved bool       `gorm:"not null;default:false;index" json:"is_resolved"`
	ResolvedAt *time.Time `json:"resolved_at"`
	ResolverID *uint      `json:"resolver_id"`

	// 关联
	Comment  Comment `gorm:"foreignKey:CommentID" json:"comment,omitempty"`
	Flagger  User    `gorm:"foreignKey:FlaggerID" json:"flagger,omitempty"`
	Resolver *User   `gorm:"foreignKey:ResolverID" json:"resolver,omitempty"`
}

// TableName 指定表名
func (CommentFlag) TableName() string {
	return "comment_flags"
}
