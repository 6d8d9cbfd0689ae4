package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/pkg/slug"
	"github.com/avast/retry-go"
	"gorm.io/gorm"
)

// TagService 标签服务，标签随帖子输入按需创建
type TagService struct {
	db *gorm.DB
}

// NewTagService 创建标签服务
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// ParseNames 解析逗号分隔的标签串，去空白、转小写、去重、保持出现顺序
func ParseNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		name := strings.ToLower(strings.TrimSpace(p))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// EnsureAll 查找或创建一组标签
// 并发创建撞唯一索引时重试改为查找，slug 与已有标签相同时直接复用该标签
func (s *TagService) EnsureAll(tx *gorm.DB, raw string) ([]*model.Tag, error) {
	names := ParseNames(raw)
	tags := make([]*model.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.ensure(tx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *TagService) ensure(tx *gorm.DB, name string) (*model.Tag, error) {
	slugValue := slug.Make(name)
	if slugValue == "" {
		slugValue = "tag"
	}

	var tag model.Tag
	err := retry.Do(
		func() error {
			if err := tx.Where("name = ?", name).First(&tag).Error; err == nil {
				return nil
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return retry.Unrecoverable(err)
			}

			// 名称不同但 slug 相同的视为同一标签
			if err := tx.Where("slug = ?", slugValue).First(&tag).Error; err == nil {
				return nil
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return retry.Unrecoverable(err)
			}

			tag = model.Tag{Name: name, Slug: slugValue}
			if err := tx.Create(&tag).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// 并发创建，下一轮按名称或 slug 命中
					return err
				}
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Attempts(3),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &tag, nil
}

// uniqueSlug 生成未被占用的 slug，冲突时追加 -2、-3 …
func uniqueSlug(tx *gorm.DB, m interface{}, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "tag"
	}
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Model(m).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// GetBySlug 按 slug 查询标签
func (s *TagService) GetBySlug(slugValue string) (*model.Tag, error) {
	var tag model.Tag
	if err := s.db.Where("slug = ?", slugValue).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("标签不存在")
		}
		return nil, apperr.Storage(err)
	}
	return &tag, nil
}

// List 全部标签
func (s *TagService) List() ([]model.Tag, error) {
	var tags []model.Tag
	if err := s.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return tags, nil
}
