package service

import (
	"testing"
	"time"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationListAndMarkRead(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	liker := createTestUser(t, db, "liker", false)
	post := createTestPost(t, db, author.ID, "hello", true)

	likes := NewLikeService(db, nil)
	_, err := likes.Like(viewerOf(liker), target.Ref{Type: target.TypePost, ID: post.ID})
	require.NoError(t, err)

	svc := NewNotificationService(db)
	list, err := svc.List(viewerOf(author), &dto.NotificationListRequest{})
	require.NoError(t, err)
	require.Len(t, list.List, 1)
	assert.EqualValues(t, 1, list.UnreadCount)
	assert.Equal(t, model.NotificationNewLike, list.List[0].Type)
	assert.Equal(t, "hello", list.List[0].Preview)
	assert.False(t, list.List[0].Deleted)

	// 别人的通知动不了
	err = svc.MarkRead(viewerOf(liker), list.List[0].ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(t, svc.MarkRead(viewerOf(author), list.List[0].ID))
	count, err := svc.UnreadCount(viewerOf(author))
	require.NoError(t, err)
	assert.Zero(t, count)

	// 重复标记是空操作
	require.NoError(t, svc.MarkRead(viewerOf(author), list.List[0].ID))
}

func TestNotificationTombstone(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	liker := createTestUser(t, db, "liker", false)
	post := createTestPost(t, db, author.ID, "hello", true)

	likes := NewLikeService(db, nil)
	_, err := likes.Like(viewerOf(liker), target.Ref{Type: target.TypePost, ID: post.ID})
	require.NoError(t, err)

	posts := NewPostService(db, NewTagService(db), NewSettingService(db, nil))
	require.NoError(t, posts.Delete(viewerOf(author), post.ID))

	// 目标没了，通知保留并标记墓碑
	svc := NewNotificationService(db)
	list, err := svc.List(viewerOf(author), &dto.NotificationListRequest{})
	require.NoError(t, err)
	require.Len(t, list.List, 1)
	assert.True(t, list.List[0].Deleted)
	assert.Empty(t, list.List[0].Preview)
}

func TestActivityTombstoneAndVisibility(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	watcher := createTestUser(t, db, "watcher", false)

	posts := NewPostService(db, NewTagService(db), NewSettingService(db, nil))
	created, err := posts.Create(viewerOf(author), &dto.PostCreateRequest{
		Title: "公开帖", Content: "内容", Publish: true,
	})
	require.NoError(t, err)

	svc := NewActivityService(db)
	list, err := svc.ListForUser(viewerOf(watcher), author.ID, &dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.List, 1)
	assert.Equal(t, model.ActivityPosted, list.List[0].Type)
	assert.Equal(t, "公开帖", list.List[0].Preview)

	// 转回草稿后，动态对外按已删除处理
	unpublish := false
	_, err = posts.Update(viewerOf(author), created.ID, &dto.PostUpdateRequest{Publish: &unpublish})
	require.NoError(t, err)

	hidden, err := svc.ListForUser(viewerOf(watcher), author.ID, &dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, hidden.List, 1)
	assert.True(t, hidden.List[0].Deleted)

	// 作者自己仍能看到
	own, err := svc.ListForUser(viewerOf(author), author.ID, &dto.PageRequest{})
	require.NoError(t, err)
	assert.False(t, own.List[0].Deleted)
}

func TestCleanupPurgesOldReadNotifications(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author", false)
	liker := createTestUser(t, db, "liker", false)
	post := createTestPost(t, db, author.ID, "hello", true)

	likes := NewLikeService(db, nil)
	_, err := likes.Like(viewerOf(liker), target.Ref{Type: target.TypePost, ID: post.ID})
	require.NoError(t, err)

	old := time.Now().Add(-120 * 24 * time.Hour)
	require.NoError(t, db.Model(&model.Notification{}).
		Where("recipient_id = ?", author.ID).
		Updates(map[string]interface{}{"is_read": true, "created_at": old}).Error)

	cleanup := NewCleanupService(db)
	require.NoError(t, cleanup.RunOnce())

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}
