package service

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/config"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/logger"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"gorm.io/gorm"
)

// 头像统一缩放到的边长
const profilePhotoSize = 200

// allowedImageExts 图片扩展名白名单
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// MediaService 媒体服务，负责头像与相册图片的落盘和记录
// 文件名一律用 UUID 重写，原始文件名只用于取扩展名
type MediaService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewMediaService 创建媒体服务
func NewMediaService(db *gorm.DB) *MediaService {
	return &MediaService{
		db:  db,
		log: logger.GetSugaredLogger(),
	}
}

// SaveProfilePhoto 上传头像：可选裁剪后缩放到 200x200，替换旧头像并删除旧文件
func (s *MediaService) SaveProfilePhoto(viewer *Viewer, userID uint, file *multipart.FileHeader, crop *dto.CropRequest) (*dto.MediaUploadResponse, error) {
	if !CanEditProfile(viewer, userID) {
		return nil, apperr.Forbidden("无权修改该头像")
	}
	cfg := config.GetConfig().Upload
	if file.Size > cfg.ProfileMaxBytes {
		return nil, apperr.TooLarge("头像文件过大")
	}

	img, ext, err := decodeUpload(file)
	if err != nil {
		return nil, err
	}

	if crop != nil && crop.HasCrop() {
		img, err = cropImage(img, crop)
		if err != nil {
			return nil, err
		}
	}
	img = scaleSquare(img, profilePhotoSize)

	relPath := path.Join("profile_pics", uuid.NewString()+ext)
	size, err := s.writeImage(img, ext, relPath)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		s.removeFile(relPath)
		return nil, apperr.Storage(err)
	}
	oldPhoto := user.ProfilePhoto
	if err := s.db.Model(&user).Update("profile_photo", relPath).Error; err != nil {
		s.removeFile(relPath)
		return nil, apperr.Storage(err)
	}
	if oldPhoto != "" {
		s.removeFile(oldPhoto)
	}

	bounds := img.Bounds()
	return &dto.MediaUploadResponse{
		Filename: relPath,
		URL:      publicURL(relPath),
		Size:     size,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

// SaveGalleryPhoto 上传相册图片，同一事务内落记录并产生动态
func (s *MediaService) SaveGalleryPhoto(viewer *Viewer, file *multipart.FileHeader, caption string) (*dto.PhotoResponse, error) {
	if viewer == nil {
		return nil, apperr.AuthFailed("请先登录")
	}
	cfg := config.GetConfig().Upload
	if file.Size > cfg.GalleryMaxBytes {
		return nil, apperr.TooLarge("图片文件过大")
	}

	img, ext, err := decodeUpload(file)
	if err != nil {
		return nil, err
	}

	relPath := path.Join("gallery", fmt.Sprintf("%d", viewer.ID), uuid.NewString()+ext)
	if _, err := s.writeImage(img, ext, relPath); err != nil {
		return nil, err
	}

	var photo model.Photo
	err = s.db.Transaction(func(tx *gorm.DB) error {
		photo = model.Photo{
			OwnerID:  viewer.ID,
			Filename: relPath,
			Caption:  strings.TrimSpace(caption),
		}
		if err := tx.Create(&photo).Error; err != nil {
			return apperr.Storage(err)
		}

		ref := target.Ref{Type: target.TypePhoto, ID: photo.ID}
		eff := newEffects(viewer.ID)
		eff.act(model.ActivityUploadedPhoto, &ref)
		return eff.commit(tx)
	})
	if err != nil {
		s.removeFile(relPath)
		return nil, err
	}

	var owner model.User
	if err := s.db.First(&owner, viewer.ID).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return photoToDTO(&photo, &owner), nil
}

// DeletePhoto 删除相册图片，连带评论与点赞，最后移除文件
func (s *MediaService) DeletePhoto(viewer *Viewer, photoID uint) error {
	if viewer == nil {
		return apperr.AuthFailed("请先登录")
	}

	var photo model.Photo
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&photo, photoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("图片不存在")
			}
			return apperr.Storage(err)
		}
		if !viewer.IsAdmin && viewer.ID != photo.OwnerID {
			return apperr.Forbidden("无权删除该图片")
		}

		ref := target.Ref{Type: target.TypePhoto, ID: photoID}
		if err := DeleteForTarget(tx, ref); err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", string(target.TypePhoto), photoID).
			Delete(&model.Like{}).Error; err != nil {
			return apperr.Storage(err)
		}
		if err := tx.Delete(&photo).Error; err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.removeFile(photo.Filename)
	return nil
}

// ListPhotos 某用户的相册
func (s *MediaService) ListPhotos(ownerID uint, page *dto.PageRequest) (*dto.PhotoListResponse, error) {
	page.Normalize(20)

	var total int64
	if err := s.db.Model(&model.Photo{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	var photos []model.Photo
	if err := s.db.Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&photos).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	list := make([]dto.PhotoResponse, 0, len(photos))
	for i := range photos {
		p := &photos[i]
		item := photoToDTO(p, &p.Owner)
		var count int64
		if err := s.db.Model(&model.Like{}).
			Where("target_type = ? AND target_id = ?", string(target.TypePhoto), p.ID).
			Count(&count).Error; err != nil {
			return nil, apperr.Storage(err)
		}
		item.LikeCount = count
		list = append(list, *item)
	}
	return &dto.PhotoListResponse{Total: total, List: list}, nil
}

// GetPhoto 单张图片
func (s *MediaService) GetPhoto(photoID uint) (*dto.PhotoResponse, error) {
	var photo model.Photo
	if err := s.db.Preload("Owner").First(&photo, photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("图片不存在")
		}
		return nil, apperr.Storage(err)
	}
	return photoToDTO(&photo, &photo.Owner), nil
}

// decodeUpload 校验扩展名并解码图片
func decodeUpload(file *multipart.FileHeader) (image.Image, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return nil, "", apperr.InvalidInput("不支持的图片格式")
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", apperr.Storage(err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, "", apperr.InvalidInput("图片文件损坏或格式不符")
	}
	return img, ext, nil
}

// cropImage 按请求区域裁剪，区域超出图片边界时拒绝
func cropImage(img image.Image, crop *dto.CropRequest) (image.Image, error) {
	if crop.Width <= 0 || crop.Height <= 0 {
		return nil, apperr.InvalidInput("裁剪区域无效")
	}
	bounds := img.Bounds()
	rect := image.Rect(
		bounds.Min.X+crop.X,
		bounds.Min.Y+crop.Y,
		bounds.Min.X+crop.X+crop.Width,
		bounds.Min.Y+crop.Y+crop.Height,
	)
	if !rect.In(bounds) {
		return nil, apperr.InvalidInput("裁剪区域超出图片范围")
	}

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Copy(dst, image.Point{}, img, rect, draw.Src, nil)
	return dst, nil
}

// scaleSquare 缩放到 size x size
func scaleSquare(img image.Image, size int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// writeImage 编码写入上传根目录，返回文件大小
func (s *MediaService) writeImage(img image.Image, ext, relPath string) (int64, error) {
	abs, err := resolveUploadPath(relPath)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return 0, apperr.Storage(err)
	}

	out, err := os.Create(abs)
	if err != nil {
		return 0, apperr.Storage(err)
	}
	defer out.Close()

	switch ext {
	case ".png":
		err = png.Encode(out, img)
	case ".gif":
		err = gif.Encode(out, img, nil)
	default:
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return 0, apperr.Storage(err)
	}

	info, err := out.Stat()
	if err != nil {
		return 0, apperr.Storage(err)
	}
	return info.Size(), nil
}

// removeFile 删除上传文件，路径越界或不存在时只记日志
func (s *MediaService) removeFile(relPath string) {
	abs, err := resolveUploadPath(relPath)
	if err != nil {
		s.log.Warnf("拒绝删除上传根目录之外的路径: %s", relPath)
		return
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		s.log.Warnf("上传文件删除失败: %v", err)
	}
}

// resolveUploadPath 把仓库相对路径解析到上传根目录内，拦截路径穿越
func resolveUploadPath(relPath string) (string, error) {
	root := config.GetConfig().Upload.Root
	abs := filepath.Join(root, filepath.FromSlash(relPath))
	cleanRoot := filepath.Clean(root) + string(filepath.Separator)
	if !strings.HasPrefix(filepath.Clean(abs)+string(filepath.Separator), cleanRoot) {
		return "", apperr.InvalidInput("非法的文件路径")
	}
	return abs, nil
}

func publicURL(relPath string) string {
	prefix := strings.TrimSuffix(config.GetConfig().Upload.URLPrefix, "/")
	return prefix + "/" + relPath
}

func photoToDTO(p *model.Photo, owner *model.User) *dto.PhotoResponse {
	return &dto.PhotoResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Owner:     userBrief(owner),
		Filename:  p.Filename,
		Caption:   p.Caption,
		CreatedAt: p.CreatedAt,
	}
}
