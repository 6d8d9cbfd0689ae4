package service

import (
	"testing"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeIdempotent(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	liker := createTestUser(t, db, "liker", false)
	post := createTestPost(t, db, author.ID, "hello", true)

	svc := NewLikeService(db, nil)
	ref := target.Ref{Type: target.TypePost, ID: post.ID}

	first, err := svc.Like(viewerOf(liker), ref)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.False(t, first.Already)
	assert.EqualValues(t, 1, first.Count)

	second, err := svc.Like(viewerOf(liker), ref)
	require.NoError(t, err)
	assert.True(t, second.Already)
	assert.EqualValues(t, 1, second.Count)

	// 重复点赞不追加副作用
	var notifications int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&notifications).Error)
	assert.EqualValues(t, 1, notifications)

	var activities int64
	require.NoError(t, db.Model(&model.Activity{}).Count(&activities).Error)
	assert.EqualValues(t, 1, activities)
}

func TestLikeNotifiesOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	liker := createTestUser(t, db, "liker", false)
	post := createTestPost(t, db, author.ID, "hello", true)

	svc := NewLikeService(db, nil)
	_, err := svc.Like(viewerOf(liker), target.Ref{Type: target.TypePost, ID: post.ID})
	require.NoError(t, err)

	var n model.Notification
	require.NoError(t, db.First(&n).Error)
	assert.Equal(t, author.ID, n.RecipientID)
	assert.Equal(t, model.NotificationNewLike, n.Type)
	require.NotNil(t, n.ActorID)
	assert.Equal(t, liker.ID, *n.ActorID)
}

func TestLikeOwnContentNoNotification(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	post := createTestPost(t, db, author.ID, "hello", true)

	svc := NewLikeService(db, nil)
	result, err := svc.Like(viewerOf(author), target.Ref{Type: target.TypePost, ID: post.ID})
	require.NoError(t, err)
	assert.True(t, result.Liked)

	// 给自己的通知被丢弃，动态照常记录
	var notifications int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&notifications).Error)
	assert.Zero(t, notifications)

	var activities int64
	require.NoError(t, db.Model(&model.Activity{}).Count(&activities).Error)
	assert.EqualValues(t, 1, activities)
}

func TestUnlikeIdempotent(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	liker := createTestUser(t, db, "liker", false)
	post := createTestPost(t, db, author.ID, "hello", true)

	svc := NewLikeService(db, nil)
	ref := target.Ref{Type: target.TypePost, ID: post.ID}

	_, err := svc.Like(viewerOf(liker), ref)
	require.NoError(t, err)

	result, err := svc.Unlike(viewerOf(liker), ref)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.False(t, result.Already)
	assert.EqualValues(t, 0, result.Count)

	again, err := svc.Unlike(viewerOf(liker), ref)
	require.NoError(t, err)
	assert.True(t, again.Already)

	// 取消点赞不回收历史通知
	var notifications int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&notifications).Error)
	assert.EqualValues(t, 1, notifications)
}

func TestLikeUserTargetRejected(t *testing.T) {
	db := newTestDB(t)
	liker := createTestUser(t, db, "liker", false)
	other := createTestUser(t, db, "other", false)

	svc := NewLikeService(db, nil)
	_, err := svc.Like(viewerOf(liker), target.Ref{Type: target.TypeUser, ID: other.ID})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTarget))
}

func TestLikeMissingTarget(t *testing.T) {
	db := newTestDB(t)
	liker := createTestUser(t, db, "liker", false)

	svc := NewLikeService(db, nil)
	_, err := svc.Like(viewerOf(liker), target.Ref{Type: target.TypePost, ID: 9999})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTarget))
}

func TestLikeUnpublishedPostInvisible(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	liker := createTestUser(t, db, "liker", false)
	draft := createTestPost(t, db, author.ID, "draft", false)

	svc := NewLikeService(db, nil)
	_, err := svc.Like(viewerOf(liker), target.Ref{Type: target.TypePost, ID: draft.ID})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTarget))

	// 作者自己可以点赞草稿
	_, err = svc.Like(viewerOf(author), target.Ref{Type: target.TypePost, ID: draft.ID})
	assert.NoError(t, err)
}
