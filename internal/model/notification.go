package model

// 通知类型
const (
	NotificationNewFollower = "new_follower"
	NotificationNewLike     = "new_like"
	NotificationNewComment  = "new_comment"
	NotificationNewReply    = "new_reply"
	NotificationNewMention  = "new_mention"
)

// Notification 通知模型
// 不变式: RecipientID 永远不等于 ActorID
type Notification struct {
	Base
	RecipientID uint    `gorm:"not null;index" json:"recipient_id"`
	ActorID     *uint   `gorm:"index" json:"actor_id"`
	Type        string  `gorm:"type:varchar(20);not null;index" json:"type"`
	TargetType  *string `gorm:"type:varchar(20);index:idx_notification_target" json:"target_type"`
	TargetID    *uint   `gorm:"index:idx_notification_target" json:"target_id"`
	IsRead      bool    `gorm:"not null;default:false;index" json:"is_read"`

	// 关联
	Recipient User  `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Actor     *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
