package service

import (
	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/logger"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModerationService 站点管理服务：用户审批、停用与删除
type ModerationService struct {
	db    *gorm.DB
	users *UserService
	log   *zap.SugaredLogger
}

// NewModerationService 创建管理服务
func NewModerationService(db *gorm.DB, users *UserService) *ModerationService {
	return &ModerationService{
		db:    db,
		users: users,
		log:   logger.GetSugaredLogger(),
	}
}

// ApprovalQueue 待审批用户队列，按注册时间正序
func (s *ModerationService) ApprovalQueue(viewer *Viewer, page *dto.PageRequest) (*dto.ApprovalQueueResponse, error) {
	if viewer == nil || !viewer.IsAdmin {
		return nil, apperr.Forbidden("需要管理员权限")
	}
	page.Normalize(20)

	query := s.db.Model(&model.User{}).Where("is_approved = ?", false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	var users []model.User
	if err := query.Order("created_at ASC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&users).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	list := make([]dto.UserBriefInfo, 0, len(users))
	for i := range users {
		list = append(list, userBrief(&users[i]))
	}
	return &dto.ApprovalQueueResponse{Total: total, List: list}, nil
}

// Approve 批准用户注册
func (s *ModerationService) Approve(viewer *Viewer, userID uint) error {
	if viewer == nil || !viewer.IsAdmin {
		return apperr.Forbidden("需要管理员权限")
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user.IsApproved {
		return apperr.Conflict("用户已批准")
	}
	if err := s.db.Model(user).Updates(map[string]interface{}{
		"is_approved": true,
		"is_active":   true,
	}).Error; err != nil {
		return apperr.Storage(err)
	}
	s.log.Infof("用户已批准: %s (操作人 %d)", user.Username, viewer.ID)
	return nil
}

// Reject 拒绝注册申请，只删除从未登录且没有任何内容的账号
func (s *ModerationService) Reject(viewer *Viewer, userID uint) error {
	if viewer == nil || !viewer.IsAdmin {
		return apperr.Forbidden("需要管理员权限")
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user.IsApproved {
		return apperr.Conflict("用户已批准，不能拒绝")
	}
	if user.LastLoginAt != nil {
		return apperr.HasContent("用户已登录过，不能直接拒绝")
	}
	hasContent, err := s.users.HasContent(userID)
	if err != nil {
		return err
	}
	if hasContent {
		return apperr.HasContent("用户仍有内容，不能直接拒绝")
	}
	if err := s.db.Delete(user).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// Deactivate 停用账号，内容保留但不能再登录
func (s *ModerationService) Deactivate(viewer *Viewer, userID uint) error {
	if viewer == nil || !viewer.IsAdmin {
		return apperr.Forbidden("需要管理员权限")
	}
	if viewer.ID == userID {
		return apperr.InvalidInput("不能停用自己的账号")
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	return s.db.Model(user).Update("is_active", false).Error
}

// Reactivate 恢复已停用的账号
func (s *ModerationService) Reactivate(viewer *Viewer, userID uint) error {
	if viewer == nil || !viewer.IsAdmin {
		return apperr.Forbidden("需要管理员权限")
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	return s.db.Model(user).Update("is_active", true).Error
}

// DeleteUser 删除账号，留有内容的用户必须先清理或改为停用
func (s *ModerationService) DeleteUser(viewer *Viewer, userID uint) error {
	if viewer == nil || !viewer.IsAdmin {
		return apperr.Forbidden("需要管理员权限")
	}
	if viewer.ID == userID {
		return apperr.InvalidInput("不能删除自己的账号")
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}

	hasContent, err := s.users.HasContent(userID)
	if err != nil {
		return err
	}
	if hasContent {
		return apperr.HasContent("用户仍有内容，请先停用账号")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR followed_id = ?", userID, userID).
			Delete(&model.Follow{}).Error; err != nil {
			return apperr.Storage(err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Like{}).Error; err != nil {
			return apperr.Storage(err)
		}
		if err := tx.Where("recipient_id = ? OR actor_id = ?", userID, userID).
			Delete(&model.Notification{}).Error; err != nil {
			return apperr.Storage(err)
		}
		if err := tx.Where("actor_id = ?", userID).Delete(&model.Activity{}).Error; err != nil {
			return apperr.Storage(err)
		}
		if err := tx.Delete(user).Error; err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
}
