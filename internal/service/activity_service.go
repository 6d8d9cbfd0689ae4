package service

import (
	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"gorm.io/gorm"
)

// ActivityService 动态服务
// 动态是追加式日志：目标删除后记录保留，展示为墓碑
type ActivityService struct {
	db       *gorm.DB
	registry *target.Registry
}

// NewActivityService 创建动态服务
func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{
		db:       db,
		registry: target.NewRegistry(db),
	}
}

// ListForUser 某用户的公开动态
// 指向未发布帖子的动态对无权查看者隐藏
func (s *ActivityService) ListForUser(viewer *Viewer, userID uint, page *dto.PageRequest) (*dto.ActivityListResponse, error) {
	query := s.db.Model(&model.Activity{}).Where("actor_id = ?", userID)
	return s.list(viewer, query, page)
}

// Feed 关注动态流：自己与关注用户的动态
func (s *ActivityService) Feed(viewer *Viewer, page *dto.PageRequest) (*dto.ActivityListResponse, error) {
	if viewer == nil {
		return nil, apperr.AuthFailed("请先登录")
	}
	followed := s.db.Model(&model.Follow{}).Select("followed_id").Where("follower_id = ?", viewer.ID)
	query := s.db.Model(&model.Activity{}).
		Where("actor_id = ? OR actor_id IN (?)", viewer.ID, followed)
	return s.list(viewer, query, page)
}

func (s *ActivityService) list(viewer *Viewer, query *gorm.DB, page *dto.PageRequest) (*dto.ActivityListResponse, error) {
	page.Normalize(20)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	var activities []model.Activity
	if err := query.Preload("Actor").
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&activities).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	list := make([]dto.ActivityResponse, 0, len(activities))
	for i := range activities {
		a := &activities[i]
		item := dto.ActivityResponse{
			ID:        a.ID,
			Type:      a.Type,
			Actor:     userBrief(&a.Actor),
			CreatedAt: formatTime(a.CreatedAt),
		}
		if a.TargetType != nil && a.TargetID != nil {
			item.TargetType = *a.TargetType
			item.TargetID = *a.TargetID
			ref := target.Ref{Type: target.Type(*a.TargetType), ID: *a.TargetID}
			res, err := s.registry.Resolve(ref)
			switch {
			case err == nil && s.visible(viewer, res):
				item.Preview = res.Preview
			case err == nil:
				// 目标存在但对当前查看者不可见，按已删除处理
				item.Deleted = true
			default:
				item.Deleted = true
			}
		}
		list = append(list, item)
	}
	return &dto.ActivityListResponse{Total: total, List: list}, nil
}

// visible 动态目标的可见性：根目标是未发布帖子时仅作者与管理员可见
func (s *ActivityService) visible(viewer *Viewer, res *target.Resolved) bool {
	root := res.Root
	if root.Type != target.TypePost {
		return true
	}
	var post model.Post
	if err := s.db.First(&post, root.ID).Error; err != nil {
		return false
	}
	return CanViewPost(viewer, &post)
}
