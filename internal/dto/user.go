package dto

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"omitempty,max=100"`
}

// LoginRequest 用户登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // 用户名或邮箱
	Password string `json:"password" binding:"required"`
}

// UserUpdateRequest 更新用户资料请求
type UserUpdateRequest struct {
	FullName        *string `json:"full_name" binding:"omitempty,max=100"`
	ProfileInfo     *string `json:"profile_info"`
	WebsiteURL      *string `json:"website_url" binding:"omitempty,url"`
	Street          *string `json:"street" binding:"omitempty,max=255"`
	City            *string `json:"city" binding:"omitempty,max=100"`
	Country         *string `json:"country" binding:"omitempty,max=100"`
	Birthdate       *string `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	IsProfilePublic *bool   `json:"is_profile_public"`
	Theme           *string `json:"theme" binding:"omitempty,oneof=light dark"`
	AccentColor     *string `json:"accent_color" binding:"omitempty,max=20"`
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         UserBriefInfo `json:"user"`
	IsAdmin      bool          `json:"is_admin"`
}

// RefreshTokenRequest 刷新令牌请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserBriefInfo 用户简要信息
type UserBriefInfo struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	ProfilePhoto string `json:"profile_photo"`
}

// UserProfileResponse 用户资料响应
// 私密资料对匿名访客只返回受限字段
type UserProfileResponse struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	FullName        string `json:"full_name,omitempty"`
	ProfileInfo     string `json:"profile_info,omitempty"`
	ProfilePhoto    string `json:"profile_photo,omitempty"`
	WebsiteURL      string `json:"website_url,omitempty"`
	City            string `json:"city,omitempty"`
	Country         string `json:"country,omitempty"`
	IsProfilePublic bool   `json:"is_profile_public"`
	IsAdmin         bool   `json:"is_admin"`
	FollowerCount   int64  `json:"follower_count"`
	FollowingCount  int64  `json:"following_count"`
	IsFollowedByMe  bool   `json:"is_followed_by_me"`
	CreatedAt       string `json:"created_at"`
}

// FollowListResponse 关注/粉丝列表响应
type FollowListResponse struct {
	Total int64           `json:"total"`
	List  []UserBriefInfo `json:"list"`
}
