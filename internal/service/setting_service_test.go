package service

import (
	"testing"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingSeedDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingService(db, nil)
	require.NoError(t, svc.Seed())

	assert.Equal(t, "antisocialnet", svc.GetString(model.SettingSiteTitle, ""))
	assert.Equal(t, 10, svc.GetInt(model.SettingPostsPerPage, 0))
	assert.True(t, svc.GetBool(model.SettingAllowRegistrations, false))
	assert.False(t, svc.GetBool(model.SettingAutoApproveUsers, true))

	// 二次 Seed 不覆盖已有值
	_, err := svc.Set(model.SettingSiteTitle, "改过的标题", model.ValueTypeString)
	require.NoError(t, err)
	require.NoError(t, svc.Seed())
	assert.Equal(t, "改过的标题", svc.GetString(model.SettingSiteTitle, ""))
}

func TestSettingTypedCodec(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingService(db, nil)

	_, err := svc.Set("custom_limit", "42", model.ValueTypeInt)
	require.NoError(t, err)
	assert.Equal(t, 42, svc.GetInt("custom_limit", 0))

	// 类型不符回落到默认值
	assert.Equal(t, "fallback", svc.GetString("missing", "fallback"))
	assert.Equal(t, 7, svc.GetInt("missing", 7))

	// 非法值被拒绝
	_, err = svc.Set("bad_int", "not-a-number", model.ValueTypeInt)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	_, err = svc.Set("bad_bool", "maybe", model.ValueTypeBool)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	_, err = svc.Set("bad_type", "x", "float")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))

	// 更新已有键
	_, err = svc.Set("custom_limit", "100", model.ValueTypeInt)
	require.NoError(t, err)
	assert.Equal(t, 100, svc.GetInt("custom_limit", 0))

	var count int64
	require.NoError(t, db.Model(&model.Setting{}).Where("`key` = ?", "custom_limit").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
