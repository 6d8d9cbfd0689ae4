package dto

// SettingUpdateRequest 更新站点设置请求
type SettingUpdateRequest struct {
	Value     string `json:"value" binding:"required"`
	ValueType string `json:"value_type" binding:"required,oneof=string int bool"`
}

// SettingResponse 站点设置响应
type SettingResponse struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	ValueType string `json:"value_type"`
}

// ApprovalQueueResponse 用户审批队列响应
type ApprovalQueueResponse struct {
	Total int64           `json:"total"`
	List  []UserBriefInfo `json:"list"`
}

// CategoryCreateRequest 创建分类请求
type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// CategoryResponse 分类响应
type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
