package service

import (
	"image"
	"testing"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUploadPathGuard(t *testing.T) {
	ok, err := resolveUploadPath("profile_pics/abc.jpg")
	require.NoError(t, err)
	assert.Contains(t, ok, "profile_pics")

	ok, err = resolveUploadPath("gallery/7/abc.jpg")
	require.NoError(t, err)
	assert.Contains(t, ok, "gallery")

	// 路径穿越一律拒绝
	_, err = resolveUploadPath("../etc/passwd")
	assert.Error(t, err)
	_, err = resolveUploadPath("profile_pics/../../secret")
	assert.Error(t, err)
}

func TestCropImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 80))

	out, err := cropImage(src, &dto.CropRequest{X: 10, Y: 10, Width: 40, Height: 30})
	require.NoError(t, err)
	assert.Equal(t, 40, out.Bounds().Dx())
	assert.Equal(t, 30, out.Bounds().Dy())

	// 贴边裁剪合法
	out, err = cropImage(src, &dto.CropRequest{X: 80, Y: 60, Width: 20, Height: 20})
	require.NoError(t, err)
	assert.Equal(t, 20, out.Bounds().Dx())

	// 超出边界与非法尺寸一律拒绝
	_, err = cropImage(src, &dto.CropRequest{X: 80, Y: 60, Width: 100, Height: 100})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	_, err = cropImage(src, &dto.CropRequest{X: -1, Y: 0, Width: 10, Height: 10})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	_, err = cropImage(src, &dto.CropRequest{X: 10, Y: 10, Width: 0, Height: 10})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	_, err = cropImage(src, &dto.CropRequest{X: 200, Y: 200, Width: 10, Height: 10})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
}

func TestScaleSquare(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	out := scaleSquare(src, 200)
	assert.Equal(t, 200, out.Bounds().Dx())
	assert.Equal(t, 200, out.Bounds().Dy())
}
