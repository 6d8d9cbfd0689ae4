package controller

import (
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/middleware"
	"github.com/antisocialnet/antisocialnet/internal/service"
	"github.com/antisocialnet/antisocialnet/pkg/response"
	"github.com/gin-gonic/gin"
)

// AdminController 管理后台接口
type AdminController struct {
	settings   *service.SettingService
	moderation *service.ModerationService
	comments   *service.CommentService
	categories *service.CategoryService
}

// NewAdminController 创建管理控制器
func NewAdminController(settings *service.SettingService, moderation *service.ModerationService, comments *service.CommentService, categories *service.CategoryService) *AdminController {
	return &AdminController{
		settings:   settings,
		moderation: moderation,
		comments:   comments,
		categories: categories,
	}
}

// ListSettings 全部站点设置
func (ctrl *AdminController) ListSettings(c *gin.Context) {
	settings, err := ctrl.settings.List()
	if err != nil {
		response.FromError(c, err)
		return
	}

	list := make([]dto.SettingResponse, 0, len(settings))
	for _, s := range settings {
		list = append(list, dto.SettingResponse{Key: s.Key, Value: s.Value, ValueType: s.ValueType})
	}
	response.Success(c, "获取成功", list)
}

// UpdateSetting 更新站点设置
func (ctrl *AdminController) UpdateSetting(c *gin.Context) {
	var req dto.SettingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	setting, err := ctrl.settings.Set(c.Param("key"), req.Value, req.ValueType)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "设置已更新", dto.SettingResponse{
		Key:       setting.Key,
		Value:     setting.Value,
		ValueType: setting.ValueType,
	})
}

// ApprovalQueue 待审批用户
func (ctrl *AdminController) ApprovalQueue(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.moderation.ApprovalQueue(viewer, &page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// ApproveUser 批准用户
func (ctrl *AdminController) ApproveUser(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctrl.moderation.Approve(viewer, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "已批准", nil)
}

// RejectUser 拒绝用户
func (ctrl *AdminController) RejectUser(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctrl.moderation.Reject(viewer, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "已拒绝", nil)
}

// DeactivateUser 停用账号
func (ctrl *AdminController) DeactivateUser(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctrl.moderation.Deactivate(viewer, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "已停用", nil)
}

// ReactivateUser 恢复账号
func (ctrl *AdminController) ReactivateUser(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctrl.moderation.Reactivate(viewer, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "已恢复", nil)
}

// DeleteUser 删除账号
func (ctrl *AdminController) DeleteUser(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctrl.moderation.DeleteUser(viewer, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "已删除", nil)
}

// ListFlags 未处理举报队列
func (ctrl *AdminController) ListFlags(c *gin.Context) {
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.comments.ListFlags(&page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// ResolveFlag 处理举报，delete=true 时连带删除评论
func (ctrl *AdminController) ResolveFlag(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	deleteComment := c.Query("delete") == "true"
	if err := ctrl.comments.ResolveFlag(viewer, id, deleteComment); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "举报已处理", nil)
}

// CreateCategory 创建分类
func (ctrl *AdminController) CreateCategory(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var req dto.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	category, err := ctrl.categories.Create(viewer, req.Name)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "创建成功", dto.CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
		Slug: category.Slug,
	})
}

// DeleteCategory 删除分类
func (ctrl *AdminController) DeleteCategory(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctrl.categories.Delete(viewer, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "删除成功", nil)
}
