package dto

// CommentCreateRequest 创建评论请求
type CommentCreateRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=post comment photo"`
	TargetID   uint   `json:"target_id" binding:"required"`
	Text       string `json:"text" binding:"required,max=2000"`
	ParentID   *uint  `json:"parent_id"`
}

// CommentFlagRequest 举报评论请求
type CommentFlagRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=255"`
}

// CommentResponse 评论响应
type CommentResponse struct {
	ID         uint              `json:"id"`
	TargetType string            `json:"target_type"`
	TargetID   uint              `json:"target_id"`
	ParentID   *uint             `json:"parent_id"`
	TextHTML   string            `json:"text_html"`
	Author     UserBriefInfo     `json:"author"`
	LikeCount  int64             `json:"like_count"`
	LikedByMe  bool              `json:"liked_by_me"`
	CreatedAt  string             `json:"created_at"`
	Children   []*CommentResponse `json:"children,omitempty"`
}

// CommentListRequest 评论列表请求
type CommentListRequest struct {
	PageRequest
	TargetType string `form:"target_type" binding:"required,oneof=post comment photo"`
	TargetID   uint   `form:"target_id" binding:"required"`
}

// CommentListResponse 评论列表响应
type CommentListResponse struct {
	Total int64              `json:"total"`
	List  []*CommentResponse `json:"list"`
}

// FlagResponse 举报响应
type FlagResponse struct {
	ID         uint          `json:"id"`
	CommentID  uint          `json:"comment_id"`
	Flagger    UserBriefInfo `json:"flagger"`
	Reason     string        `json:"reason"`
	IsResolved bool          `json:"is_resolved"`
	CreatedAt  string        `json:"created_at"`
	// 被举报评论摘要，评论已删除时为墓碑文本
	CommentExcerpt string `json:"comment_excerpt"`
	CommentDeleted bool   `json:"comment_deleted"`
}

// FlagListResponse 举报队列响应
type FlagListResponse struct {
	Total int64           `json:"total"`
	List  []*FlagResponse `json:"list"`
}
