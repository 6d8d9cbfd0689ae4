package model

// Like 点赞模型
// (user_id,target_type,target_id) 唯一索引是并发点赞的串行化点
type Like struct {
	Base
	UserID     uint   `gorm:"not null;uniqueIndex:idx_like_user_target" json:"user_id"`
	TargetType string `gorm:"type:varchar(20);not null;uniqueIndex:idx_like_user_target;index:idx_like_target" json:"target_type"` // post/comment/photo
	TargetID   uint   `gorm:"not null;uniqueIndex:idx_like_user_target;index:idx_like_target" json:"target_id"`

	// 关联
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Like) TableName() string {
	return "likes"
}
