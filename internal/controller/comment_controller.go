package controller

import (
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/middleware"
	"github.com/antisocialnet/antisocialnet/internal/service"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"github.com/antisocialnet/antisocialnet/pkg/response"
	"github.com/gin-gonic/gin"
)

// CommentController 评论接口
type CommentController struct {
	comments *service.CommentService
}

// NewCommentController 创建评论控制器
func NewCommentController(comments *service.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

// Create 发表评论或回复
func (ctrl *CommentController) Create(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.comments.Create(viewer, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "评论成功", resp)
}

// List 目标下的评论树
func (ctrl *CommentController) List(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var req dto.CommentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindErr(c, err)
		return
	}

	ref := target.Ref{Type: target.Type(req.TargetType), ID: req.TargetID}
	resp, err := ctrl.comments.ListForTarget(viewer, ref)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// Delete 删除评论
func (ctrl *CommentController) Delete(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctrl.comments.Delete(viewer, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "删除成功", nil)
}

// Flag 举报评论
func (ctrl *CommentController) Flag(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req dto.CommentFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	if err := ctrl.comments.Flag(viewer, id, req.Reason); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "举报成功", nil)
}
