package service

import (
	"testing"

	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNames(t *testing.T) {
	assert.Equal(t, []string{"go", "web"}, ParseNames(" go , web ,go, "))
	assert.Empty(t, ParseNames("  ,, "))
	assert.Equal(t, []string{"go"}, ParseNames("Go,go,GO"))
}

func TestEnsureAllSlugCollision(t *testing.T) {
	db := newTestDB(t)
	svc := NewTagService(db)

	first, err := svc.EnsureAll(db, "C++")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "c++", first[0].Name)
	assert.Equal(t, "c", first[0].Slug)

	// 名称不同但 slug 化后相同，复用已有标签
	second, err := svc.EnsureAll(db, "c ++")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "c", second[0].Slug)

	// 同名（含大小写差异）同样复用已有行
	again, err := svc.EnsureAll(db, "C++")
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, again[0].ID)

	var count int64
	require.NoError(t, db.Model(&model.Tag{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnsureAllEmptyNameFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewTagService(db)

	// 纯符号名称 slug 为空，回落到默认前缀
	tags, err := svc.EnsureAll(db, "!!!")
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "tag", tags[0].Slug)
}
