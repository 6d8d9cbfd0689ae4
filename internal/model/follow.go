package model

// Follow 关注关系模型
type Follow struct {
	Base
	FollowerID uint `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowedID uint `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"followed_id"`

	// 关联
	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followed User `gorm:"foreignKey:FollowedID" json:"followed,omitempty"`
}

// TableName 指定表名
func (Follow) TableName() string {
	return "follows"
}
