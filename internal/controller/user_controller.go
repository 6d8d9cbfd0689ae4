package controller

import (
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/middleware"
	"github.com/antisocialnet/antisocialnet/internal/service"
	"github.com/antisocialnet/antisocialnet/pkg/response"
	"github.com/gin-gonic/gin"
)

// UserController 用户接口
type UserController struct {
	users *service.UserService
}

// NewUserController 创建用户控制器
func NewUserController(users *service.UserService) *UserController {
	return &UserController{users: users}
}

// Register 注册
func (ctrl *UserController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	user, err := ctrl.users.Register(&req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	message := "注册成功"
	if !user.IsApproved {
		message = "注册成功，等待管理员审批"
	}
	response.Success(c, message, gin.H{"id": user.ID, "username": user.Username})
}

// Login 登录
func (ctrl *UserController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.users.Login(&req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "登录成功", resp)
}

// RefreshToken 刷新令牌
func (ctrl *UserController) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	pair, err := ctrl.users.RefreshToken(req.RefreshToken)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "刷新成功", pair)
}

// ForgotPassword 找回密码
func (ctrl *UserController) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	if err := ctrl.users.ForgotPassword(req.Email); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "如果该邮箱已注册，重置邮件已发送", nil)
}

// ResetPassword 重置密码
func (ctrl *UserController) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	if err := ctrl.users.ResetPassword(req.Token, req.Password); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "密码已重置", nil)
}

// Profile 用户资料
func (ctrl *UserController) Profile(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	resp, err := ctrl.users.Profile(viewer, c.Param("username"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// UpdateProfile 更新自己的资料
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var req dto.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	user, err := ctrl.users.Update(viewer, viewer.ID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "更新成功", user)
}

// Follow 关注用户
func (ctrl *UserController) Follow(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	if err := ctrl.users.Follow(viewer, c.Param("username")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "已关注", nil)
}

// Unfollow 取消关注
func (ctrl *UserController) Unfollow(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	if err := ctrl.users.Unfollow(viewer, c.Param("username")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "已取消关注", nil)
}

// Followers 粉丝列表
func (ctrl *UserController) Followers(c *gin.Context) {
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.users.Followers(c.Param("username"), &page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// Following 关注列表
func (ctrl *UserController) Following(c *gin.Context) {
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.users.Following(c.Param("username"), &page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}
