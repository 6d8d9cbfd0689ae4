package dto

// LikeRequest 点赞/取消点赞请求
type LikeRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=post comment photo"`
	TargetID   uint   `json:"target_id" binding:"required"`
}

// LikeResult 点赞操作结果
// Already 表示本次为幂等空操作（重复点赞/取消未点赞）
type LikeResult struct {
	Liked   bool  `json:"liked"`
	Already bool  `json:"already"`
	Count   int64 `json:"count"`
}

// NotificationListRequest 通知列表请求
type NotificationListRequest struct {
	PageRequest
	UnreadOnly bool `form:"unread_only"`
}

// NotificationResponse 通知响应
// Deleted 为真时目标已不存在，渲染层显示墓碑占位
type NotificationResponse struct {
	ID         uint           `json:"id"`
	Type       string         `json:"type"`
	Actor      *UserBriefInfo `json:"actor,omitempty"`
	TargetType string         `json:"target_type,omitempty"`
	TargetID   uint           `json:"target_id,omitempty"`
	Preview    string         `json:"preview,omitempty"`
	Deleted    bool           `json:"deleted"`
	IsRead     bool           `json:"is_read"`
	CreatedAt  string         `json:"created_at"`
}

// NotificationListResponse 通知列表响应
type NotificationListResponse struct {
	Total       int64                  `json:"total"`
	UnreadCount int64                  `json:"unread_count"`
	List        []NotificationResponse `json:"list"`
}

// ActivityResponse 动态响应
type ActivityResponse struct {
	ID         uint          `json:"id"`
	Type       string        `json:"type"`
	Actor      UserBriefInfo `json:"actor"`
	TargetType string        `json:"target_type,omitempty"`
	TargetID   uint          `json:"target_id,omitempty"`
	Preview    string        `json:"preview,omitempty"`
	Deleted    bool          `json:"deleted"`
	CreatedAt  string        `json:"created_at"`
}

// ActivityListResponse 动态列表响应
type ActivityListResponse struct {
	Total int64              `json:"total"`
	List  []ActivityResponse `json:"list"`
}
