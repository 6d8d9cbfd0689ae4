package service

import (
	"errors"
	"strings"
	"time"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/logger"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"github.com/antisocialnet/antisocialnet/pkg/markdown"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// feedOrder 时间线排序：已发布帖按发布时间，草稿按创建时间
const feedOrder = "COALESCE(posts.published_at, posts.created_at) DESC, posts.id DESC"

// PostService 帖子服务
type PostService struct {
	db       *gorm.DB
	tags     *TagService
	settings *SettingService
	log      *zap.SugaredLogger
}

// NewPostService 创建帖子服务
func NewPostService(db *gorm.DB, tags *TagService, settings *SettingService) *PostService {
	return &PostService{
		db:       db,
		tags:     tags,
		settings: settings,
		log:      logger.GetSugaredLogger(),
	}
}

// Create 创建帖子，正文经 Markdown 渲染并净化后入库
// 直接发布的帖子产生一条 posted 动态
func (s *PostService) Create(viewer *Viewer, req *dto.PostCreateRequest) (*dto.PostResponse, error) {
	if viewer == nil {
		return nil, apperr.AuthFailed("请先登录")
	}

	html, err := markdown.Render(req.Content)
	if err != nil {
		return nil, apperr.InvalidInput("帖子内容不能为空")
	}

	var post model.Post
	err = s.db.Transaction(func(tx *gorm.DB) error {
		post = model.Post{
			AuthorID:    viewer.ID,
			Title:       strings.TrimSpace(req.Title),
			Content:     html,
			IsPublished: req.Publish,
		}
		if req.Publish {
			now := time.Now()
			post.PublishedAt = &now
		}
		if err := tx.Create(&post).Error; err != nil {
			return apperr.Storage(err)
		}

		if err := s.attachCategories(tx, &post, req.CategoryIDs); err != nil {
			return err
		}
		if err := s.attachTags(tx, &post, req.Tags); err != nil {
			return err
		}

		if req.Publish {
			ref := target.Ref{Type: target.TypePost, ID: post.ID}
			eff := newEffects(viewer.ID)
			eff.act(model.ActivityPosted, &ref)
			return eff.commit(tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(viewer, post.ID)
}

// Update 更新帖子，作者与管理员可改
// 首次由草稿转为发布时记录发布时间并产生动态，取消发布清空发布时间
func (s *PostService) Update(viewer *Viewer, postID uint, req *dto.PostUpdateRequest) (*dto.PostResponse, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("帖子不存在")
			}
			return apperr.Storage(err)
		}
		if !CanEditPost(viewer, &post) {
			return apperr.Forbidden("无权修改该帖子")
		}

		updates := make(map[string]interface{})
		if req.Title != nil {
			updates["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Content != nil {
			html, err := markdown.Render(*req.Content)
			if err != nil {
				return apperr.InvalidInput("帖子内容不能为空")
			}
			updates["content"] = html
		}

		justPublished := false
		if req.Publish != nil && *req.Publish != post.IsPublished {
			updates["is_published"] = *req.Publish
			if *req.Publish {
				now := time.Now()
				updates["published_at"] = &now
				justPublished = true
			} else {
				updates["published_at"] = nil
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&post).Updates(updates).Error; err != nil {
				return apperr.Storage(err)
			}
		}

		if req.CategoryIDs != nil {
			if err := tx.Where("post_id = ?", post.ID).Delete(&model.PostCategory{}).Error; err != nil {
				return apperr.Storage(err)
			}
			if err := s.attachCategories(tx, &post, req.CategoryIDs); err != nil {
				return err
			}
		}
		if req.Tags != nil {
			if err := tx.Where("post_id = ?", post.ID).Delete(&model.PostTag{}).Error; err != nil {
				return apperr.Storage(err)
			}
			if err := s.attachTags(tx, &post, *req.Tags); err != nil {
				return err
			}
		}

		if justPublished {
			ref := target.Ref{Type: target.TypePost, ID: post.ID}
			eff := newEffects(viewer.ID)
			eff.act(model.ActivityPosted, &ref)
			return eff.commit(tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(viewer, postID)
}

// Delete 删除帖子，连带评论树、点赞与分类/标签关联
// 指向帖子的历史通知与动态保留，渲染为墓碑
func (s *PostService) Delete(viewer *Viewer, postID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("帖子不存在")
			}
			return apperr.Storage(err)
		}
		if !CanEditPost(viewer, &post) {
			return apperr.Forbidden("无权删除该帖子")
		}

		ref := target.Ref{Type: target.TypePost, ID: postID}
		if err := DeleteForTarget(tx, ref); err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", string(target.TypePost), postID).
			Delete(&model.Like{}).Error; err != nil {
			return apperr.Storage(err)
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostCategory{}).Error; err != nil {
			return apperr.Storage(err)
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostTag{}).Error; err != nil {
			return apperr.Storage(err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
}

// Get 按ID读取帖子，未发布的仅作者与管理员可见
func (s *PostService) Get(viewer *Viewer, postID uint) (*dto.PostResponse, error) {
	var post model.Post
	err := s.db.Preload("Author").Preload("Categories").Preload("Tags").
		First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("帖子不存在")
		}
		return nil, apperr.Storage(err)
	}
	if !CanViewPost(viewer, &post) {
		return nil, apperr.NotFound("帖子不存在")
	}

	resp := s.toResponse(&post)
	ref := target.Ref{Type: target.TypePost, ID: post.ID}
	var count int64
	if err := s.db.Model(&model.Like{}).
		Where("target_type = ? AND target_id = ?", string(ref.Type), ref.ID).
		Count(&count).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	resp.LikeCount = count
	if viewer != nil {
		var mine int64
		if err := s.db.Model(&model.Like{}).
			Where("user_id = ? AND target_type = ? AND target_id = ?", viewer.ID, string(ref.Type), ref.ID).
			Count(&mine).Error; err != nil {
			return nil, apperr.Storage(err)
		}
		resp.LikedByMe = mine > 0
	}
	return resp, nil
}

// EditSource 编辑表单回填用的 Markdown 源文
// 存储层只保留净化后的 HTML，编辑时反向转换
func (s *PostService) EditSource(viewer *Viewer, postID uint) (string, error) {
	var post model.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.NotFound("帖子不存在")
		}
		return "", apperr.Storage(err)
	}
	if !CanEditPost(viewer, &post) {
		return "", apperr.Forbidden("无权编辑该帖子")
	}
	source, err := markdown.ToMarkdown(post.Content)
	if err != nil {
		return "", apperr.Storage(err)
	}
	return source, nil
}

// List 公共时间线，可按分类或标签过滤
// 匿名访客与普通用户只看到已发布帖，管理员额外看到未发布帖
func (s *PostService) List(viewer *Viewer, req *dto.PostListRequest) (*dto.PostListResponse, error) {
	query := s.db.Model(&model.Post{})
	query = s.scopeVisible(query, viewer)

	if req.CategorySlug != "" {
		query = query.Joins("JOIN post_categories pc ON pc.post_id = posts.id").
			Joins("JOIN categories c ON c.id = pc.category_id").
			Where("c.slug = ?", req.CategorySlug)
	}
	if req.TagSlug != "" {
		query = query.Joins("JOIN post_tags pt ON pt.post_id = posts.id").
			Joins("JOIN tags t ON t.id = pt.tag_id").
			Where("t.slug = ?", req.TagSlug)
	}
	return s.page(query, &req.PageRequest)
}

// Feed 关注时间线：自己与关注用户的已发布帖
func (s *PostService) Feed(viewer *Viewer, page *dto.PageRequest) (*dto.PostListResponse, error) {
	if viewer == nil {
		return nil, apperr.AuthFailed("请先登录")
	}

	followed := s.db.Model(&model.Follow{}).Select("followed_id").Where("follower_id = ?", viewer.ID)
	query := s.db.Model(&model.Post{}).
		Where("is_published = ?", true).
		Where("author_id = ? OR author_id IN (?)", viewer.ID, followed)
	return s.page(query, page)
}

// ListByAuthor 某用户的帖子，作者本人与管理员额外看到草稿
func (s *PostService) ListByAuthor(viewer *Viewer, authorID uint, page *dto.PageRequest) (*dto.PostListResponse, error) {
	query := s.db.Model(&model.Post{}).Where("author_id = ?", authorID)
	if viewer == nil || (!viewer.IsAdmin && viewer.ID != authorID) {
		query = query.Where("is_published = ?", true)
	}
	return s.page(query, page)
}

// Search 标题与正文的子串搜索，同时返回匹配的用户
func (s *PostService) Search(viewer *Viewer, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	pattern := "%" + strings.TrimSpace(req.Query) + "%"

	query := s.scopeVisible(s.db.Model(&model.Post{}), viewer).
		Where("title LIKE ? OR content LIKE ?", pattern, pattern)
	posts, err := s.page(query, &req.PageRequest)
	if err != nil {
		return nil, err
	}

	var users []model.User
	if err := s.db.Where("username LIKE ? OR full_name LIKE ?", pattern, pattern).
		Limit(10).Find(&users).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	briefs := make([]dto.UserBriefInfo, 0, len(users))
	for i := range users {
		briefs = append(briefs, userBrief(&users[i]))
	}

	return &dto.SearchResponse{Posts: *posts, Users: briefs}, nil
}

func (s *PostService) scopeVisible(query *gorm.DB, viewer *Viewer) *gorm.DB {
	if viewer != nil && viewer.IsAdmin {
		return query
	}
	if viewer != nil {
		return query.Where("is_published = ? OR author_id = ?", true, viewer.ID)
	}
	return query.Where("is_published = ?", true)
}

func (s *PostService) page(query *gorm.DB, page *dto.PageRequest) (*dto.PostListResponse, error) {
	// 默认每页条数由站点设置控制
	page.Normalize(s.settings.GetInt(model.SettingPostsPerPage, 10))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	var posts []model.Post
	if err := query.Preload("Author").Preload("Categories").Preload("Tags").
		Order(feedOrder).
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&posts).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	list := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		list = append(list, *s.toResponse(&posts[i]))
	}
	s.fillLikeCounts(list)
	return &dto.PostListResponse{Total: total, List: list}, nil
}

// fillLikeCounts 批量填充列表页的点赞计数
func (s *PostService) fillLikeCounts(list []dto.PostResponse) {
	if len(list) == 0 {
		return
	}
	ids := make([]uint, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}

	type row struct {
		TargetID uint
		N        int64
	}
	var rows []row
	if err := s.db.Model(&model.Like{}).
		Select("target_id, COUNT(*) AS n").
		Where("target_type = ? AND target_id IN ?", string(target.TypePost), ids).
		Group("target_id").
		Scan(&rows).Error; err != nil {
		s.log.Warnf("点赞计数查询失败: %v", err)
		return
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.TargetID] = r.N
	}
	for i := range list {
		list[i].LikeCount = counts[list[i].ID]
	}
}

func (s *PostService) attachCategories(tx *gorm.DB, post *model.Post, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&model.Category{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return apperr.Storage(err)
	}
	if count != int64(len(ids)) {
		return apperr.InvalidInput("存在无效的分类")
	}
	for _, id := range ids {
		if err := tx.Create(&model.PostCategory{PostID: post.ID, CategoryID: id}).Error; err != nil {
			return apperr.Storage(err)
		}
	}
	return nil
}

func (s *PostService) attachTags(tx *gorm.DB, post *model.Post, raw string) error {
	tags, err := s.tags.EnsureAll(tx, raw)
	if err != nil {
		return err
	}
	for _, tag := range tags {
		if err := tx.Create(&model.PostTag{PostID: post.ID, TagID: tag.ID}).Error; err != nil {
			return apperr.Storage(err)
		}
	}
	return nil
}

func (s *PostService) toResponse(post *model.Post) *dto.PostResponse {
	resp := &dto.PostResponse{
		ID:          post.ID,
		AuthorID:    post.AuthorID,
		Author:      userBrief(&post.Author),
		Title:       post.Title,
		Content:     post.Content,
		IsPublished: post.IsPublished,
		PublishedAt: post.PublishedAt,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
	for _, c := range post.Categories {
		resp.Categories = append(resp.Categories, dto.NamedRef{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	for _, t := range post.Tags {
		resp.Tags = append(resp.Tags, dto.NamedRef{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return resp
}
