package service

import (
	"errors"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"gorm.io/gorm"
)

// NotificationService 通知服务
// 通知只读不可造：产生逻辑都在各变更事务内（见 effects）
type NotificationService struct {
	db       *gorm.DB
	registry *target.Registry
}

// NewNotificationService 创建通知服务
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		db:       db,
		registry: target.NewRegistry(db),
	}
}

// List 当前用户的通知，目标已删除的渲染为墓碑而不是剔除
func (s *NotificationService) List(viewer *Viewer, req *dto.NotificationListRequest) (*dto.NotificationListResponse, error) {
	if viewer == nil {
		return nil, apperr.AuthFailed("请先登录")
	}
	req.Normalize(20)

	query := s.db.Model(&model.Notification{}).Where("recipient_id = ?", viewer.ID)
	if req.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	var unread int64
	if err := s.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", viewer.ID, false).
		Count(&unread).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	var notifications []model.Notification
	if err := query.Preload("Actor").
		Order("created_at DESC, id DESC").
		Offset(req.Offset()).Limit(req.PageSize).
		Find(&notifications).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	list := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		item := dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			IsRead:    n.IsRead,
			CreatedAt: formatTime(n.CreatedAt),
		}
		if n.Actor != nil {
			brief := userBrief(n.Actor)
			item.Actor = &brief
		}
		if n.TargetType != nil && n.TargetID != nil {
			item.TargetType = *n.TargetType
			item.TargetID = *n.TargetID
			ref := target.Ref{Type: target.Type(*n.TargetType), ID: *n.TargetID}
			if res, err := s.registry.Resolve(ref); err == nil {
				item.Preview = res.Preview
			} else {
				item.Deleted = true
			}
		}
		list = append(list, item)
	}

	return &dto.NotificationListResponse{Total: total, UnreadCount: unread, List: list}, nil
}

// UnreadCount 未读通知数
func (s *NotificationService) UnreadCount(viewer *Viewer) (int64, error) {
	if viewer == nil {
		return 0, apperr.AuthFailed("请先登录")
	}
	var count int64
	if err := s.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", viewer.ID, false).
		Count(&count).Error; err != nil {
		return 0, apperr.Storage(err)
	}
	return count, nil
}

// MarkRead 标记单条通知为已读，只能操作自己的通知
func (s *NotificationService) MarkRead(viewer *Viewer, notificationID uint) error {
	if viewer == nil {
		return apperr.AuthFailed("请先登录")
	}

	var notification model.Notification
	if err := s.db.First(&notification, notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("通知不存在")
		}
		return apperr.Storage(err)
	}
	if notification.RecipientID != viewer.ID {
		return apperr.Forbidden("无权操作该通知")
	}
	if notification.IsRead {
		return nil
	}
	if err := s.db.Model(&notification).Update("is_read", true).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// MarkAllRead 全部标记已读
func (s *NotificationService) MarkAllRead(viewer *Viewer) error {
	if viewer == nil {
		return apperr.AuthFailed("请先登录")
	}
	if err := s.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", viewer.ID, false).
		Update("is_read", true).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}
