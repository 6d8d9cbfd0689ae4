package model

// 动态类型
const (
	ActivityPosted        = "posted"
	ActivityLikedPost     = "liked_post"
	ActivityLikedComment  = "liked_comment"
	ActivityLikedPhoto    = "liked_photo"
	ActivityCommented     = "commented"
	ActivityReplied       = "replied"
	ActivityFollowed      = "followed"
	ActivityUploadedPhoto = "uploaded_photo"
)

// Activity 动态模型，只追加不修改
type Activity struct {
	Base
	ActorID    uint    `gorm:"not null;index:idx_activity_actor,priority:1" json:"actor_id"`
	Type       string  `gorm:"type:varchar(20);not null" json:"type"`
	TargetType *string `gorm:"type:varchar(20);index:idx_activity_target" json:"target_type"`
	TargetID   *uint   `gorm:"index:idx_activity_target" json:"target_id"`

	// 关联
	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// TableName 指定表名
func (Activity) TableName() string {
	return "activities"
}
