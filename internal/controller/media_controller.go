package controller

import (
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/middleware"
	"github.com/antisocialnet/antisocialnet/internal/service"
	"github.com/antisocialnet/antisocialnet/pkg/response"
	"github.com/gin-gonic/gin"
)

// MediaController 头像与相册接口
type MediaController struct {
	media *service.MediaService
	users *service.UserService
}

// NewMediaController 创建媒体控制器
func NewMediaController(media *service.MediaService, users *service.UserService) *MediaController {
	return &MediaController{media: media, users: users}
}

// UploadProfilePhoto 上传头像，multipart 字段 photo，可带裁剪参数
func (ctrl *MediaController) UploadProfilePhoto(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	file, err := c.FormFile("photo")
	if err != nil {
		response.BadRequest(c, "缺少图片文件", err)
		return
	}

	var crop dto.CropRequest
	if err := c.ShouldBind(&crop); err != nil {
		response.BadRequest(c, "裁剪参数错误", err)
		return
	}

	resp, err := ctrl.media.SaveProfilePhoto(viewer, viewer.ID, file, &crop)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "头像已更新", resp)
}

// UploadGalleryPhoto 上传相册图片，multipart 字段 photo
func (ctrl *MediaController) UploadGalleryPhoto(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	file, err := c.FormFile("photo")
	if err != nil {
		response.BadRequest(c, "缺少图片文件", err)
		return
	}

	var req dto.PhotoUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.media.SaveGalleryPhoto(viewer, file, req.Caption)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "上传成功", resp)
}

// DeletePhoto 删除相册图片
func (ctrl *MediaController) DeletePhoto(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctrl.media.DeletePhoto(viewer, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "删除成功", nil)
}

// GetPhoto 单张图片
func (ctrl *MediaController) GetPhoto(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	resp, err := ctrl.media.GetPhoto(id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// ListUserPhotos 某用户的相册
func (ctrl *MediaController) ListUserPhotos(c *gin.Context) {
	user, err := ctrl.users.GetByUsername(c.Param("username"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.media.ListPhotos(user.ID, &page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}
