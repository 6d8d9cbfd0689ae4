package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/config"
	"github.com/antisocialnet/antisocialnet/internal/logger"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// 已读通知的保留期限
const notificationRetention = 90 * 24 * time.Hour

// CleanupService 后台清理：孤儿上传文件与过期已读通知
type CleanupService struct {
	db   *gorm.DB
	cron *cron.Cron
	log  *zap.SugaredLogger
}

// NewCleanupService 创建清理服务
func NewCleanupService(db *gorm.DB) *CleanupService {
	return &CleanupService{
		db:   db,
		cron: cron.New(),
		log:  logger.GetSugaredLogger(),
	}
}

// Start 按配置的间隔调度清理任务
func (s *CleanupService) Start() error {
	hours := config.GetConfig().Upload.SweepIntervalHours
	if hours <= 0 {
		hours = 24
	}
	spec := fmt.Sprintf("@every %dh", hours)
	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.RunOnce(); err != nil {
			s.log.Errorf("清理任务失败: %v", err)
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infof("清理任务已调度: %s", spec)
	return nil
}

// Stop 停止调度并等待进行中的任务完成
func (s *CleanupService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce 执行一轮清理，两类任务并行
func (s *CleanupService) RunOnce() error {
	var g errgroup.Group
	g.Go(s.sweepOrphanFiles)
	g.Go(s.purgeOldNotifications)
	return g.Wait()
}

// sweepOrphanFiles 删除上传根目录里没有任何记录引用的文件
func (s *CleanupService) sweepOrphanFiles() error {
	root := config.GetConfig().Upload.Root
	if root == "" {
		return nil
	}

	referenced := make(map[string]bool)
	var profilePhotos []string
	if err := s.db.Model(&model.User{}).
		Where("profile_photo <> ''").
		Pluck("profile_photo", &profilePhotos).Error; err != nil {
		return apperr.Storage(err)
	}
	var galleryFiles []string
	if err := s.db.Model(&model.Photo{}).Pluck("filename", &galleryFiles).Error; err != nil {
		return apperr.Storage(err)
	}
	for _, p := range profilePhotos {
		referenced[filepath.FromSlash(p)] = true
	}
	for _, p := range galleryFiles {
		referenced[filepath.FromSlash(p)] = true
	}

	removed := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if referenced[rel] {
			return nil
		}
		// 刚写入还没落记录的文件先放过，留到下一轮
		if time.Since(info.ModTime()) < time.Hour {
			return nil
		}
		if err := os.Remove(path); err != nil {
			s.log.Warnf("孤儿文件删除失败 %s: %v", rel, err)
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if removed > 0 {
		s.log.Infof("孤儿文件清理完成: 删除 %d 个", removed)
	}
	return nil
}

// purgeOldNotifications 删除超过保留期的已读通知
func (s *CleanupService) purgeOldNotifications() error {
	cutoff := time.Now().Add(-notificationRetention)
	result := s.db.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&model.Notification{})
	if result.Error != nil {
		return apperr.Storage(result.Error)
	}
	if result.RowsAffected > 0 {
		s.log.Infof("过期通知清理完成: 删除 %d 条", result.RowsAffected)
	}
	return nil
}
