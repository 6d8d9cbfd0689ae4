package middleware

import (
	"strings"

	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/service"
	"github.com/antisocialnet/antisocialnet/pkg/auth"
	"github.com/antisocialnet/antisocialnet/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const viewerKey = "viewer"

// JWTAuth 强制登录中间件
// 每次请求回库校验账号状态，停用或撤销审批立即生效
func JWTAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, ok := resolveViewer(c, db)
		if !ok {
			response.Unauthorized(c, "请先登录", nil)
			c.Abort()
			return
		}
		c.Set(viewerKey, viewer)
		c.Next()
	}
}

// OptionalAuth 可选登录中间件，匿名请求照常放行
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if viewer, ok := resolveViewer(c, db); ok {
			c.Set(viewerKey, viewer)
		}
		c.Next()
	}
}

// AdminAuth 管理员中间件，需在 JWTAuth 之后使用
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := GetViewer(c)
		if viewer == nil || !viewer.IsAdmin {
			response.Forbidden(c, "需要管理员权限", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// BodySizeLimit 请求体大小限制
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.ContentLength > maxBytes {
			response.Error(c, 413, "请求体过大", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetViewer 取出当前请求者身份，匿名时返回 nil
func GetViewer(c *gin.Context) *service.Viewer {
	value, exists := c.Get(viewerKey)
	if !exists {
		return nil
	}
	viewer, ok := value.(*service.Viewer)
	if !ok {
		return nil
	}
	return viewer
}

func resolveViewer(c *gin.Context, db *gorm.DB) (*service.Viewer, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}

	claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil || claims.Type != auth.AccessToken {
		return nil, false
	}

	var user model.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		return nil, false
	}
	if !user.CanAuthenticate() {
		return nil, false
	}
	return service.ViewerFrom(&user), true
}
