package router

import (
	"github.com/antisocialnet/antisocialnet/internal/config"
	"github.com/antisocialnet/antisocialnet/internal/controller"
	"github.com/antisocialnet/antisocialnet/internal/logger"
	"github.com/antisocialnet/antisocialnet/internal/middleware"
	"github.com/antisocialnet/antisocialnet/internal/service"
	"github.com/antisocialnet/antisocialnet/pkg/cache"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup 组装全部路由
func Setup(db *gorm.DB, c cache.Cache) *gin.Engine {
	cfg := config.GetConfig()
	gin.SetMode(cfg.App.Mode)

	// 服务
	settingService := service.NewSettingService(db, c)
	mailService := service.NewMailService()
	userService := service.NewUserService(db, settingService, mailService)
	tagService := service.NewTagService(db)
	categoryService := service.NewCategoryService(db)
	postService := service.NewPostService(db, tagService, settingService)
	commentService := service.NewCommentService(db)
	likeService := service.NewLikeService(db, c)
	notificationService := service.NewNotificationService(db)
	activityService := service.NewActivityService(db)
	moderationService := service.NewModerationService(db, userService)
	mediaService := service.NewMediaService(db)

	// 控制器
	userCtrl := controller.NewUserController(userService)
	postCtrl := controller.NewPostController(postService, userService, tagService, categoryService)
	commentCtrl := controller.NewCommentController(commentService)
	engagementCtrl := controller.NewEngagementController(likeService, notificationService, activityService, userService)
	adminCtrl := controller.NewAdminController(settingService, moderationService, commentService, categoryService)
	mediaCtrl := controller.NewMediaController(mediaService, userService)

	r := gin.New()
	r.Use(logger.GinLogger(), gin.Recovery())
	r.Use(middleware.BodySizeLimit(cfg.App.MaxBodySize))

	if cfg.Upload.Root != "" {
		r.Static(cfg.Upload.URLPrefix, cfg.Upload.Root)
	}

	api := r.Group("/api/v1")

	// 无需登录
	public := api.Group("")
	public.Use(middleware.OptionalAuth(db))
	{
		public.POST("/auth/register", userCtrl.Register)
		public.POST("/auth/login", userCtrl.Login)
		public.POST("/auth/refresh", userCtrl.RefreshToken)
		public.POST("/auth/forgot-password", userCtrl.ForgotPassword)
		public.POST("/auth/reset-password", userCtrl.ResetPassword)

		public.GET("/posts", postCtrl.List)
		public.GET("/posts/:id", postCtrl.Get)
		public.GET("/search", postCtrl.Search)
		public.GET("/categories", postCtrl.Categories)
		public.GET("/tags", postCtrl.Tags)
		public.GET("/comments", commentCtrl.List)
		public.GET("/photos/:id", mediaCtrl.GetPhoto)

		public.GET("/users/:username", userCtrl.Profile)
		public.GET("/users/:username/posts", postCtrl.ListByUser)
		public.GET("/users/:username/followers", userCtrl.Followers)
		public.GET("/users/:username/following", userCtrl.Following)
		public.GET("/users/:username/activities", engagementCtrl.UserActivities)
		public.GET("/users/:username/photos", mediaCtrl.ListUserPhotos)
	}

	// 需要登录
	authed := api.Group("")
	authed.Use(middleware.JWTAuth(db))
	{
		authed.PUT("/me", userCtrl.UpdateProfile)
		authed.POST("/me/photo", mediaCtrl.UploadProfilePhoto)

		authed.POST("/users/:username/follow", userCtrl.Follow)
		authed.DELETE("/users/:username/follow", userCtrl.Unfollow)

		authed.POST("/posts", postCtrl.Create)
		authed.PUT("/posts/:id", postCtrl.Update)
		authed.DELETE("/posts/:id", postCtrl.Delete)
		authed.GET("/posts/:id/source", postCtrl.EditSource)
		authed.GET("/feed", postCtrl.Feed)
		authed.GET("/feed/activities", engagementCtrl.ActivityFeed)

		authed.POST("/comments", commentCtrl.Create)
		authed.DELETE("/comments/:id", commentCtrl.Delete)
		authed.POST("/comments/:id/flag", commentCtrl.Flag)

		authed.POST("/likes", engagementCtrl.Like)
		authed.DELETE("/likes", engagementCtrl.Unlike)

		authed.GET("/notifications", engagementCtrl.Notifications)
		authed.GET("/notifications/unread-count", engagementCtrl.UnreadCount)
		authed.PUT("/notifications/:id/read", engagementCtrl.MarkRead)
		authed.PUT("/notifications/read-all", engagementCtrl.MarkAllRead)

		authed.POST("/photos", mediaCtrl.UploadGalleryPhoto)
		authed.DELETE("/photos/:id", mediaCtrl.DeletePhoto)
	}

	// 管理后台
	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(db), middleware.AdminAuth())
	{
		admin.GET("/settings", adminCtrl.ListSettings)
		admin.PUT("/settings/:key", adminCtrl.UpdateSetting)

		admin.GET("/users/pending", adminCtrl.ApprovalQueue)
		admin.PUT("/users/:id/approve", adminCtrl.ApproveUser)
		admin.DELETE("/users/:id/reject", adminCtrl.RejectUser)
		admin.PUT("/users/:id/deactivate", adminCtrl.DeactivateUser)
		admin.PUT("/users/:id/reactivate", adminCtrl.ReactivateUser)
		admin.DELETE("/users/:id", adminCtrl.DeleteUser)

		admin.GET("/flags", adminCtrl.ListFlags)
		admin.PUT("/flags/:id/resolve", adminCtrl.ResolveFlag)

		admin.POST("/categories", adminCtrl.CreateCategory)
		admin.DELETE("/categories/:id", adminCtrl.DeleteCategory)
	}

	return r
}
