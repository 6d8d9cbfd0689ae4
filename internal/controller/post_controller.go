package controller

import (
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/middleware"
	"github.com/antisocialnet/antisocialnet/internal/service"
	"github.com/antisocialnet/antisocialnet/pkg/response"
	"github.com/gin-gonic/gin"
)

// PostController 帖子接口
type PostController struct {
	posts      *service.PostService
	users      *service.UserService
	tags       *service.TagService
	categories *service.CategoryService
}

// NewPostController 创建帖子控制器
func NewPostController(posts *service.PostService, users *service.UserService, tags *service.TagService, categories *service.CategoryService) *PostController {
	return &PostController{posts: posts, users: users, tags: tags, categories: categories}
}

// Create 发帖
func (ctrl *PostController) Create(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var req dto.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.posts.Create(viewer, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "发布成功", resp)
}

// Update 编辑帖子
func (ctrl *PostController) Update(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req dto.PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.posts.Update(viewer, id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "更新成功", resp)
}

// Delete 删除帖子
func (ctrl *PostController) Delete(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctrl.posts.Delete(viewer, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "删除成功", nil)
}

// Get 帖子详情
func (ctrl *PostController) Get(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	resp, err := ctrl.posts.Get(viewer, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// EditSource 编辑表单的 Markdown 源文
func (ctrl *PostController) EditSource(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	source, err := ctrl.posts.EditSource(viewer, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", gin.H{"source": source})
}

// List 公共时间线
func (ctrl *PostController) List(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var req dto.PostListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.posts.List(viewer, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// Feed 关注时间线
func (ctrl *PostController) Feed(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.posts.Feed(viewer, &page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// ListByUser 某用户的帖子
func (ctrl *PostController) ListByUser(c *gin.Context) {
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

	resp, err := ctrl.posts.ListByAuthor(viewer, user.ID, &page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// Search 搜索帖子与用户
func (ctrl *PostController) Search(c *gin.Context) {
	viewer := middleware.GetViewer(c)

	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindErr(c, err)
		return
	}

	resp, err := ctrl.posts.Search(viewer, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// Categories 分类列表
func (ctrl *PostController) Categories(c *gin.Context) {
	list, err := ctrl.categories.List()
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", list)
}

// Tags 标签列表
func (ctrl *PostController) Tags(c *gin.Context) {
	list, err := ctrl.tags.List()
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", list)
}
