package service

import (
	"errors"
	"strings"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"gorm.io/gorm"
)

// CategoryService 分类服务，分类由管理员维护
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService 创建分类服务
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// Create 创建分类，名称与 slug 均要求唯一
func (s *CategoryService) Create(viewer *Viewer, name string) (*model.Category, error) {
	if viewer == nil || !viewer.IsAdmin {
		return nil, apperr.Forbidden("需要管理员权限")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidInput("分类名称不能为空")
	}

	slugValue, err := uniqueSlug(s.db, &model.Category{}, name)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	category := model.Category{Name: name, Slug: slugValue}
	if err := s.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("分类已存在")
		}
		return nil, apperr.Storage(err)
	}
	return &category, nil
}

// Delete 删除分类，仅允许删除没有帖子的分类
func (s *CategoryService) Delete(viewer *Viewer, id uint) error {
	if viewer == nil || !viewer.IsAdmin {
		return apperr.Forbidden("需要管理员权限")
	}

	var category model.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("分类不存在")
		}
		return apperr.Storage(err)
	}

	var count int64
	if err := s.db.Model(&model.PostCategory{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return apperr.Storage(err)
	}
	if count > 0 {
		return apperr.HasContent("分类下仍有帖子")
	}
	return s.db.Delete(&category).Error
}

// GetBySlug 按 slug 查询分类
func (s *CategoryService) GetBySlug(slugValue string) (*model.Category, error) {
	var category model.Category
	if err := s.db.Where("slug = ?", slugValue).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("分类不存在")
		}
		return nil, apperr.Storage(err)
	}
	return &category, nil
}

// List 全部分类
func (s *CategoryService) List() ([]model.Category, error) {
	var categories []model.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return categories, nil
}
