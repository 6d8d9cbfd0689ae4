package dto

// CropRequest 裁剪参数，头像上传可选
type CropRequest struct {
	X      int `form:"x" binding:"omitempty,min=0"`
	Y      int `form:"y" binding:"omitempty,min=0"`
	Width  int `form:"width" binding:"omitempty,min=1"`
	Height int `form:"height" binding:"omitempty,min=1"`
}

// HasCrop 是否请求了裁剪
func (r *CropRequest) HasCrop() bool {
	return r.Width > 0 && r.Height > 0
}

// MediaUploadResponse 上传响应
type MediaUploadResponse struct {
	Filename string `json:"filename"` // 仓库相对路径
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}
