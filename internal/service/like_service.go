package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/logger"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"github.com/antisocialnet/antisocialnet/pkg/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const likeCountTTL = time.Minute

// activityTypeForLike 点赞动态按根目标类型区分
var activityTypeForLike = map[target.Type]string{
	target.TypePost:    model.ActivityLikedPost,
	target.TypeComment: model.ActivityLikedComment,
	target.TypePhoto:   model.ActivityLikedPhoto,
}

// LikeService 点赞服务
// 幂等性依赖 (user_id, target_type, target_id) 唯一索引，重复插入被数据库拒绝
type LikeService struct {
	db       *gorm.DB
	registry *target.Registry
	cache    cache.Cache
	log      *zap.SugaredLogger
}

// NewLikeService 创建点赞服务
func NewLikeService(db *gorm.DB, c cache.Cache) *LikeService {
	return &LikeService{
		db:       db,
		registry: target.NewRegistry(db),
		cache:    c,
		log:      logger.GetSugaredLogger(),
	}
}

// Like 点赞目标，重复点赞不报错也不产生新副作用
func (s *LikeService) Like(viewer *Viewer, ref target.Ref) (*dto.LikeResult, error) {
	if viewer == nil {
		return nil, apperr.AuthFailed("请先登录")
	}
	if !ref.Type.Likeable() {
		return nil, apperr.InvalidTarget(fmt.Sprintf("目标类型 %s 不支持点赞", ref.Type))
	}

	already := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res, err := s.registry.WithDB(tx).Resolve(ref)
		if err != nil {
			return err
		}
		if err := s.checkVisible(tx, viewer, res); err != nil {
			return err
		}

		like := model.Like{
			UserID:     viewer.ID,
			TargetType: string(ref.Type),
			TargetID:   ref.ID,
		}
		if err := tx.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				already = true
				return nil
			}
			return apperr.Storage(err)
		}

		eff := newEffects(viewer.ID)
		eff.notify(res.OwnerID, model.NotificationNewLike, &ref)
		eff.act(activityTypeForLike[ref.Type], &ref)
		return eff.commit(tx)
	})
	if err != nil {
		return nil, err
	}

	if !already {
		s.invalidateCount(ref)
	}
	count, err := s.Count(ref)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResult{Liked: true, Already: already, Count: count}, nil
}

// Unlike 取消点赞，未点赞时为空操作
// 取消不回收历史通知与动态
func (s *LikeService) Unlike(viewer *Viewer, ref target.Ref) (*dto.LikeResult, error) {
	if viewer == nil {
		return nil, apperr.AuthFailed("请先登录")
	}
	if !ref.Type.Likeable() {
		return nil, apperr.InvalidTarget(fmt.Sprintf("目标类型 %s 不支持点赞", ref.Type))
	}

	result := s.db.Where("user_id = ? AND target_type = ? AND target_id = ?",
		viewer.ID, string(ref.Type), ref.ID).Delete(&model.Like{})
	if result.Error != nil {
		return nil, apperr.Storage(result.Error)
	}
	if result.RowsAffected > 0 {
		s.invalidateCount(ref)
	}

	count, err := s.Count(ref)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResult{Liked: false, Already: result.RowsAffected == 0, Count: count}, nil
}

// Count 目标的点赞总数，短暂缓存
func (s *LikeService) Count(ref target.Ref) (int64, error) {
	key := likeCountKey(ref)
	if s.cache != nil {
		var cached int64
		if err := s.cache.GetJSON(context.Background(), key, &cached); err == nil {
			return cached, nil
		}
	}

	var count int64
	if err := s.db.Model(&model.Like{}).
		Where("target_type = ? AND target_id = ?", string(ref.Type), ref.ID).
		Count(&count).Error; err != nil {
		return 0, apperr.Storage(err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(context.Background(), key, count, likeCountTTL); err != nil {
			s.log.Warnf("点赞计数缓存写入失败: %v", err)
		}
	}
	return count, nil
}

// HasLiked 当前用户是否已点赞目标
func (s *LikeService) HasLiked(userID uint, ref target.Ref) (bool, error) {
	var count int64
	if err := s.db.Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, string(ref.Type), ref.ID).
		Count(&count).Error; err != nil {
		return false, apperr.Storage(err)
	}
	return count > 0, nil
}

// checkVisible 点赞前的目标可见性检查（未发布文章不可点赞）
func (s *LikeService) checkVisible(tx *gorm.DB, viewer *Viewer, res *target.Resolved) error {
	if res.Ref.Type != target.TypePost {
		return nil
	}
	var post model.Post
	if err := tx.First(&post, res.Ref.ID).Error; err != nil {
		return apperr.Storage(err)
	}
	if !CanViewPost(viewer, &post) {
		return apperr.InvalidTarget("文章不存在")
	}
	return nil
}

func (s *LikeService) invalidateCount(ref target.Ref) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(context.Background(), likeCountKey(ref)); err != nil {
		s.log.Warnf("点赞计数缓存失效失败: %v", err)
	}
}

func likeCountKey(ref target.Ref) string {
	return fmt.Sprintf("like_count:%s:%d", ref.Type, ref.ID)
}
