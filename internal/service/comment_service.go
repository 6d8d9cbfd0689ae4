package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/logger"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"github.com/antisocialnet/antisocialnet/pkg/markdown"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mentionPattern @用户名 提及，用户名与注册规则一致
var mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9_]+)`)

// 评论正文去除首尾空白后的长度上限
const commentMaxRunes = 2000

// CommentService 评论服务
// 评论行冗余存根目标 (target_type, target_id)，对评论的回复归一化为 父评论+父评论的根目标
type CommentService struct {
	db       *gorm.DB
	registry *target.Registry
	log      *zap.SugaredLogger
}

// NewCommentService 创建评论服务
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		db:       db,
		registry: target.NewRegistry(db),
		log:      logger.GetSugaredLogger(),
	}
}

// Create 发表评论或回复
// 回复通知父评论作者，根目标所有者收到评论通知，@提及的用户收到提及通知
// 通知类型互不吞并，同一用户可以同时收到评论与提及两条
func (s *CommentService) Create(viewer *Viewer, req *dto.CommentCreateRequest) (*dto.CommentResponse, error) {
	if viewer == nil {
		return nil, apperr.AuthFailed("请先登录")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperr.InvalidInput("评论内容不能为空")
	}
	if utf8.RuneCountInString(text) > commentMaxRunes {
		return nil, apperr.InvalidInput("评论内容过长")
	}

	ref := target.Ref{Type: target.Type(req.TargetType), ID: req.TargetID}
	if !ref.Type.Commentable() {
		return nil, apperr.InvalidTarget(fmt.Sprintf("目标类型 %s 不支持评论", ref.Type))
	}

	html, err := markdown.Render(text)
	if err != nil {
		return nil, apperr.InvalidInput("评论内容不能为空")
	}

	var comment model.Comment
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res, err := s.registry.WithDB(tx).Resolve(ref)
		if err != nil {
			return err
		}

		// 归一化：目标是评论时，根目标取自该评论冗余的根目标对
		root := res.Root
		var parentID *uint
		var parentAuthorID uint
		if ref.Type == target.TypeComment {
			id := ref.ID
			parentID = &id
			parentAuthorID = res.OwnerID
		}
		if req.ParentID != nil {
			var parent model.Comment
			if err := tx.First(&parent, *req.ParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.InvalidTarget("父评论不存在")
				}
				return apperr.Storage(err)
			}
			if parent.TargetType != string(root.Type) || parent.TargetID != root.ID {
				return apperr.InvalidInput("父评论不属于该目标")
			}
			parentID = req.ParentID
			parentAuthorID = parent.AuthorID
		}

		if err := s.checkRootVisible(tx, viewer, root); err != nil {
			return err
		}

		comment = model.Comment{
			AuthorID:   viewer.ID,
			TargetType: string(root.Type),
			TargetID:   root.ID,
			ParentID:   parentID,
			TextRaw:    text,
			TextHTML:   html,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return apperr.Storage(err)
		}

		rootRes, err := s.registry.WithDB(tx).Resolve(root)
		if err != nil {
			return err
		}

		commentRef := target.Ref{Type: target.TypeComment, ID: comment.ID}
		eff := newEffects(viewer.ID)
		if parentID != nil {
			eff.notify(parentAuthorID, model.NotificationNewReply, &commentRef)
			eff.act(model.ActivityReplied, &commentRef)
		} else {
			eff.act(model.ActivityCommented, &commentRef)
		}
		if parentID == nil || rootRes.OwnerID != parentAuthorID {
			eff.notify(rootRes.OwnerID, model.NotificationNewComment, &commentRef)
		}

		for _, mentioned := range s.resolveMentions(tx, text) {
			eff.notify(mentioned.ID, model.NotificationNewMention, &commentRef)
		}
		return eff.commit(tx)
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(&comment)
}

// ListForTarget 目标下的评论树，顶层与子层均按时间正序
func (s *CommentService) ListForTarget(viewer *Viewer, ref target.Ref) (*dto.CommentListResponse, error) {
	if !ref.Type.Commentable() {
		return nil, apperr.InvalidTarget(fmt.Sprintf("目标类型 %s 不支持评论", ref.Type))
	}

	var comments []model.Comment
	if err := s.db.Preload("Author").
		Where("target_type = ? AND target_id = ?", string(ref.Type), ref.ID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	likeCounts, likedByMe, err := s.likeStats(viewer, comments)
	if err != nil {
		return nil, err
	}

	nodes := make(map[uint]*dto.CommentResponse, len(comments))
	var roots []*dto.CommentResponse
	for i := range comments {
		c := &comments[i]
		node := commentToDTO(c)
		node.LikeCount = likeCounts[c.ID]
		node.LikedByMe = likedByMe[c.ID]
		nodes[c.ID] = node
	}
	for i := range comments {
		c := &comments[i]
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return &dto.CommentListResponse{Total: int64(len(comments)), List: roots}, nil
}

// likeStats 批量查询评论的点赞计数与当前用户的点赞标记
func (s *CommentService) likeStats(viewer *Viewer, comments []model.Comment) (map[uint]int64, map[uint]bool, error) {
	counts := make(map[uint]int64, len(comments))
	mine := make(map[uint]bool)
	if len(comments) == 0 {
		return counts, mine, nil
	}

	ids := make([]uint, 0, len(comments))
	for i := range comments {
		ids = append(ids, comments[i].ID)
	}

	type row struct {
		TargetID uint
		N        int64
	}
	var rows []row
	if err := s.db.Model(&model.Like{}).
		Select("target_id, COUNT(*) AS n").
		Where("target_type = ? AND target_id IN ?", string(target.TypeComment), ids).
		Group("target_id").
		Scan(&rows).Error; err != nil {
		return nil, nil, apperr.Storage(err)
	}
	for _, r := range rows {
		counts[r.TargetID] = r.N
	}

	if viewer != nil {
		var likedIDs []uint
		if err := s.db.Model(&model.Like{}).
			Where("user_id = ? AND target_type = ? AND target_id IN ?", viewer.ID, string(target.TypeComment), ids).
			Pluck("target_id", &likedIDs).Error; err != nil {
			return nil, nil, apperr.Storage(err)
		}
		for _, id := range likedIDs {
			mine[id] = true
		}
	}
	return counts, mine, nil
}

// Delete 删除评论及其整棵回复子树，连带子树上的点赞与举报
// 评论作者、根目标所有者、管理员可删
func (s *CommentService) Delete(viewer *Viewer, commentID uint) error {
	if viewer == nil {
		return apperr.AuthFailed("请先登录")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("评论不存在")
			}
			return apperr.Storage(err)
		}

		root := target.Ref{Type: target.Type(comment.TargetType), ID: comment.TargetID}
		rootOwnerID := uint(0)
		if res, err := s.registry.WithDB(tx).Resolve(root); err == nil {
			rootOwnerID = res.OwnerID
		}
		if !CanDeleteComment(viewer, &comment, rootOwnerID) {
			return apperr.Forbidden("无权删除该评论")
		}

		ids, err := collectSubtree(tx, commentID)
		if err != nil {
			return err
		}
		return deleteCommentRows(tx, ids)
	})
}

// Flag 举报评论，同一用户对同一评论只能有一条未处理的举报
func (s *CommentService) Flag(viewer *Viewer, commentID uint, reason string) error {
	if viewer == nil {
		return apperr.AuthFailed("请先登录")
	}

	var comment model.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("评论不存在")
		}
		return apperr.Storage(err)
	}

	var count int64
	if err := s.db.Model(&model.CommentFlag{}).
		Where("comment_id = ? AND flagger_id = ? AND is_resolved = ?", commentID, viewer.ID, false).
		Count(&count).Error; err != nil {
		return apperr.Storage(err)
	}
	if count > 0 {
		// 重复举报按幂等成功处理，不产生第二条记录
		return nil
	}

	flag := model.CommentFlag{
		CommentID: commentID,
		FlaggerID: viewer.ID,
		Reason:    strings.TrimSpace(reason),
	}
	if err := s.db.Create(&flag).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// ListFlags 未处理的举报队列
// 举报随评论删除级联清理，读到已消失的评论时退化为墓碑摘要
func (s *CommentService) ListFlags(page *dto.PageRequest) (*dto.FlagListResponse, error) {
	page.Normalize(20)

	var total int64
	if err := s.db.Model(&model.CommentFlag{}).Where("is_resolved = ?", false).Count(&total).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	var flags []model.CommentFlag
	if err := s.db.Preload("Flagger").
		Where("is_resolved = ?", false).
		Order("created_at ASC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&flags).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	list := make([]*dto.FlagResponse, 0, len(flags))
	for i := range flags {
		f := &flags[i]
		item := &dto.FlagResponse{
			ID:         f.ID,
			CommentID:  f.CommentID,
			Flagger:    userBrief(&f.Flagger),
			Reason:     f.Reason,
			IsResolved: f.IsResolved,
			CreatedAt:  formatTime(f.CreatedAt),
		}
		var comment model.Comment
		if err := s.db.First(&comment, f.CommentID).Error; err == nil {
			item.CommentExcerpt = markdown.Excerpt(comment.TextHTML, 120)
		} else {
			item.CommentExcerpt = "[评论已删除]"
			item.CommentDeleted = true
		}
		list = append(list, item)
	}
	return &dto.FlagListResponse{Total: total, List: list}, nil
}

// ResolveFlag 处理举报，deleteComment 为真时连带删除被举报的评论子树
func (s *CommentService) ResolveFlag(viewer *Viewer, flagID uint, deleteComment bool) error {
	if viewer == nil || !viewer.IsAdmin {
		return apperr.Forbidden("需要管理员权限")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var flag model.CommentFlag
		if err := tx.First(&flag, flagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("举报不存在")
			}
			return apperr.Storage(err)
		}
		if flag.IsResolved {
			return apperr.Conflict("举报已处理")
		}

		now := time.Now()
		resolver := viewer.ID
		flag.IsResolved = true
		flag.ResolvedAt = &now
		flag.ResolverID = &resolver
		if err := tx.Save(&flag).Error; err != nil {
			return apperr.Storage(err)
		}

		if deleteComment {
			ids, err := collectSubtree(tx, flag.CommentID)
			if err != nil {
				return err
			}
			if len(ids) > 0 {
				return deleteCommentRows(tx, ids)
			}
		}
		return nil
	})
}

// DeleteForTarget 目标被删除时清理其全部评论，由宿主服务在事务内调用
func DeleteForTarget(tx *gorm.DB, ref target.Ref) error {
	var ids []uint
	if err := tx.Model(&model.Comment{}).
		Where("target_type = ? AND target_id = ?", string(ref.Type), ref.ID).
		Pluck("id", &ids).Error; err != nil {
		return apperr.Storage(err)
	}
	if len(ids) == 0 {
		return nil
	}
	return deleteCommentRows(tx, ids)
}

// collectSubtree 按层收集评论及其全部后代的 ID
func collectSubtree(tx *gorm.DB, rootID uint) ([]uint, error) {
	ids := []uint{rootID}
	frontier := []uint{rootID}
	for len(frontier) > 0 {
		var children []uint
		if err := tx.Model(&model.Comment{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, apperr.Storage(err)
		}
		ids = append(ids, children...)
		frontier = children
	}
	return ids, nil
}

// deleteCommentRows 删除评论行及其点赞与举报
func deleteCommentRows(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("target_type = ? AND target_id IN ?", string(target.TypeComment), ids).
		Delete(&model.Like{}).Error; err != nil {
		return apperr.Storage(err)
	}
	if err := tx.Where("comment_id IN ?", ids).Delete(&model.CommentFlag{}).Error; err != nil {
		return apperr.Storage(err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&model.Comment{}).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// resolveMentions 解析正文中 @用户名 对应的真实用户，未知用户名忽略
func (s *CommentService) resolveMentions(tx *gorm.DB, text string) []model.User {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	var users []model.User
	if err := tx.Where("username IN ?", names).Find(&users).Error; err != nil {
		s.log.Warnf("提及用户查询失败: %v", err)
		return nil
	}
	// MySQL 默认排序规则不区分大小写，这里按原文精确复核
	matched := users[:0]
	for _, u := range users {
		if seen[u.Username] {
			matched = append(matched, u)
		}
	}
	return matched
}

func (s *CommentService) checkRootVisible(tx *gorm.DB, viewer *Viewer, root target.Ref) error {
	if root.Type != target.TypePost {
		return nil
	}
	var post model.Post
	if err := tx.First(&post, root.ID).Error; err != nil {
		return apperr.Storage(err)
	}
	if !CanViewPost(viewer, &post) {
		return apperr.InvalidTarget("文章不存在")
	}
	return nil
}

func (s *CommentService) toResponse(c *model.Comment) (*dto.CommentResponse, error) {
	var author model.User
	if err := s.db.First(&author, c.AuthorID).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	c.Author = author
	return commentToDTO(c), nil
}

func commentToDTO(c *model.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:         c.ID,
		TargetType: c.TargetType,
		TargetID:   c.TargetID,
		ParentID:   c.ParentID,
		TextHTML:   c.TextHTML,
		CreatedAt:  formatTime(c.CreatedAt),
		Author:     userBrief(&c.Author),
	}
}
