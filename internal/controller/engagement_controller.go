package controller

import (
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/middleware"
	"github.com/antisocialnet/antisocialnet/internal/service"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"github.com/antisocialnet/antisocialnet/pkg/response"
	"github.com/gin-gonic/gin"
)

// EngagementController 点赞、通知与动态接口
type EngagementController struct {
	likes         *service.LikeService
	notifications *service.NotificationService
	activities    *service.ActivityService
	users         *service.UserService
}

// NewEngagementController 创建互动控制器
func NewEngagementController(likes *service.LikeService, notifications *service.NotificationService, activities *service.ActivityService, users *service.UserService) *EngagementController {
	return &EngagementController{
		likes:         likes,
		notifications: notifications,
		activities:    activities,
		users:         users,
	}
}

// Like 点赞
func (ctrl *EngagementController) Like(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	result, err := ctrl.likes.Like(viewer, target.Ref{Type: target.Type(req.TargetType), ID: req.TargetID})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "点赞成功", result)
}

// Unlike 取消点赞
func (ctrl *EngagementController) Unlike(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	result, err := ctrl.likes.Unlike(viewer, target.Ref{Type: target.Type(req.TargetType), ID: req.TargetID})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "已取消点赞", result)
}

// Notifications 通知列表
func (ctrl *EngagementController) Notifications(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.notifications.List(viewer, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// UnreadCount 未读通知数
func (ctrl *EngagementController) UnreadCount(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	count, err := ctrl.notifications.UnreadCount(viewer)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", gin.H{"unread_count": count})
}

// MarkRead 标记通知已读
func (ctrl *EngagementController) MarkRead(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctrl.notifications.MarkRead(viewer, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "已标记已读", nil)
}

// MarkAllRead 全部标记已读
func (ctrl *EngagementController) MarkAllRead(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	if err := ctrl.notifications.MarkAllRead(viewer); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "已全部标记已读", nil)
}

// UserActivities 某用户的动态
func (ctrl *EngagementController) UserActivities(c *gin.Context) {
	viewer := middleware.GetViewer(c)

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

	resp, err := ctrl.activities.ListForUser(viewer, user.ID, &page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// ActivityFeed 关注动态流
func (ctrl *EngagementController) ActivityFeed(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.activities.Feed(viewer, &page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}
