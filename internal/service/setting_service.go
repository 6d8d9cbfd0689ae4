package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/logger"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/pkg/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const settingCacheTTL = 5 * time.Minute

// defaultSettings 首次启动时写入的站点默认配置
var defaultSettings = []model.Setting{
	{Key: model.SettingSiteTitle, Value: "antisocialnet", ValueType: model.ValueTypeString},
	{Key: model.SettingPostsPerPage, Value: "10", ValueType: model.ValueTypeInt},
	{Key: model.SettingAllowRegistrations, Value: "true", ValueType: model.ValueTypeBool},
	{Key: model.SettingAutoApproveUsers, Value: "false", ValueType: model.ValueTypeBool},
}

// SettingService 站点设置服务，按声明类型编解码存储值
type SettingService struct {
	db    *gorm.DB
	cache cache.Cache
	log   *zap.SugaredLogger
}

// NewSettingService 创建设置服务，cache 传 nil 时直接读库
func NewSettingService(db *gorm.DB, c cache.Cache) *SettingService {
	return &SettingService{
		db:    db,
		cache: c,
		log:   logger.GetSugaredLogger(),
	}
}

// Seed 补齐缺失的默认设置，已存在的键保持不变
func (s *SettingService) Seed() error {
	for _, def := range defaultSettings {
		var count int64
		if err := s.db.Model(&model.Setting{}).Where("`key` = ?", def.Key).Count(&count).Error; err != nil {
			return apperr.Storage(err)
		}
		if count == 0 {
			if err := s.db.Create(&def).Error; err != nil {
				return apperr.Storage(err)
			}
		}
	}
	return nil
}

// Get 按键读取原始设置行
func (s *SettingService) Get(key string) (*model.Setting, error) {
	if s.cache != nil {
		var cached model.Setting
		if err := s.cache.GetJSON(context.Background(), settingCacheKey(key), &cached); err == nil {
			return &cached, nil
		}
	}

	var setting model.Setting
	if err := s.db.Where("`key` = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("设置不存在")
		}
		return nil, apperr.Storage(err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(context.Background(), settingCacheKey(key), &setting, settingCacheTTL); err != nil {
			s.log.Warnf("设置缓存写入失败: %v", err)
		}
	}
	return &setting, nil
}

// GetString 读取字符串设置，缺失时返回默认值
func (s *SettingService) GetString(key, fallback string) string {
	setting, err := s.Get(key)
	if err != nil {
		return fallback
	}
	return setting.Value
}

// GetInt 读取整型设置，缺失或类型不符时返回默认值
func (s *SettingService) GetInt(key string, fallback int) int {
	setting, err := s.Get(key)
	if err != nil || setting.ValueType != model.ValueTypeInt {
		return fallback
	}
	n, err := strconv.Atoi(setting.Value)
	if err != nil {
		return fallback
	}
	return n
}

// GetBool 读取布尔设置，缺失或类型不符时返回默认值
func (s *SettingService) GetBool(key string, fallback bool) bool {
	setting, err := s.Get(key)
	if err != nil || setting.ValueType != model.ValueTypeBool {
		return fallback
	}
	b, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return fallback
	}
	return b
}

// Set 写入设置，值必须能按声明类型解析
func (s *SettingService) Set(key, value, valueType string) (*model.Setting, error) {
	if key == "" {
		return nil, apperr.InvalidInput("设置键不能为空")
	}
	switch valueType {
	case model.ValueTypeString:
	case model.ValueTypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return nil, apperr.InvalidInput("设置值必须是整数")
		}
	case model.ValueTypeBool:
		if _, err := strconv.ParseBool(value); err != nil {
			return nil, apperr.InvalidInput("设置值必须是布尔值")
		}
	default:
		return nil, apperr.InvalidInput("不支持的设置类型")
	}

	var setting model.Setting
	err := s.db.Where("`key` = ?", key).First(&setting).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		setting = model.Setting{Key: key, Value: value, ValueType: valueType}
		if err := s.db.Create(&setting).Error; err != nil {
			return nil, apperr.Storage(err)
		}
	case err != nil:
		return nil, apperr.Storage(err)
	default:
		setting.Value = value
		setting.ValueType = valueType
		if err := s.db.Save(&setting).Error; err != nil {
			return nil, apperr.Storage(err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Delete(context.Background(), settingCacheKey(key)); err != nil {
			s.log.Warnf("设置缓存失效失败: %v", err)
		}
	}
	return &setting, nil
}

// List 返回全部设置
func (s *SettingService) List() ([]model.Setting, error) {
	var settings []model.Setting
	if err := s.db.Order("`key` ASC").Find(&settings).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return settings, nil
}

func settingCacheKey(key string) string {
	return "setting:" + key
}
