package dto

import (
	"time"
)

// PostCreateRequest 创建帖子请求
type PostCreateRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Content     string `json:"content" binding:"required,min=1"`
	Publish     bool   `json:"publish"`
	CategoryIDs []uint `json:"category_ids"`
	Tags        string `json:"tags"` // 逗号分隔
}

// PostUpdateRequest 更新帖子请求
type PostUpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Content     *string `json:"content" binding:"omitempty,min=1"`
	Publish     *bool   `json:"publish"`
	CategoryIDs []uint  `json:"category_ids"`
	Tags        *string `json:"tags"`
}

// PostListRequest 帖子列表请求
type PostListRequest struct {
	PageRequest
	CategorySlug string `form:"category"`
	TagSlug      string `form:"tag"`
}

// PostResponse 帖子响应
type PostResponse struct {
	ID          uint          `json:"id"`
	AuthorID    uint          `json:"author_id"`
	Author      UserBriefInfo `json:"author"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	IsPublished bool          `json:"is_published"`
	PublishedAt *time.Time    `json:"published_at"`
	Categories  []NamedRef    `json:"categories"`
	Tags        []NamedRef    `json:"tags"`
	LikeCount   int64         `json:"like_count"`
	LikedByMe   bool          `json:"liked_by_me"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NamedRef 分类/标签引用
type NamedRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PostListResponse 帖子列表响应
type PostListResponse struct {
	Total int64          `json:"total"`
	List  []PostResponse `json:"list"`
}

// SearchRequest 搜索请求
type SearchRequest struct {
	PageRequest
	Query string `form:"q" binding:"required,min=1,max=100"`
}

// SearchResponse 搜索响应，帖子与用户两个结果集
type SearchResponse struct {
	Posts PostListResponse `json:"posts"`
	Users []UserBriefInfo  `json:"users"`
}

// PhotoUploadRequest 相册图片上传附加参数
type PhotoUploadRequest struct {
	Caption string `form:"caption" binding:"omitempty,max=255"`
}

// PhotoResponse 相册图片响应
type PhotoResponse struct {
	ID        uint          `json:"id"`
	OwnerID   uint          `json:"owner_id"`
	Owner     UserBriefInfo `json:"owner"`
	Filename  string        `json:"filename"`
	Caption   string        `json:"caption"`
	LikeCount int64         `json:"like_count"`
	CreatedAt time.Time     `json:"created_at"`
}

// PhotoListResponse 相册图片列表响应
type PhotoListResponse struct {
	Total int64           `json:"total"`
	List  []PhotoResponse `json:"list"`
}
