package service

import (
	"testing"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalFlow(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	users := NewUserService(db, settings, NewMailService())
	svc := NewModerationService(db, users)
	admin := createTestUser(t, db, "admin", true)

	pending, err := users.Register(&dto.RegisterRequest{
		Username: "newbie", Email: "newbie@example.com", Password: "password123",
	})
	require.NoError(t, err)
	require.False(t, pending.IsApproved)

	queue, err := svc.ApprovalQueue(viewerOf(admin), &dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, queue.List, 1)
	assert.Equal(t, "newbie", queue.List[0].Username)

	require.NoError(t, svc.Approve(viewerOf(admin), pending.ID))

	// 重复批准报冲突
	err = svc.Approve(viewerOf(admin), pending.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// 批准同时激活账号
	approved, err := users.GetByID(pending.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	assert.True(t, approved.IsActive)

	// 非管理员禁止审批
	err = svc.Approve(viewerOf(approved), pending.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestRejectDeletesPending(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	users := NewUserService(db, settings, NewMailService())
	svc := NewModerationService(db, users)
	admin := createTestUser(t, db, "admin", true)

	pending, err := users.Register(&dto.RegisterRequest{
		Username: "newbie", Email: "newbie@example.com", Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(viewerOf(admin), pending.ID))
	_, err = users.GetByID(pending.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRejectGuards(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	users := NewUserService(db, settings, NewMailService())
	svc := NewModerationService(db, users)
	admin := createTestUser(t, db, "admin", true)

	// 登录过的账号不能直接拒绝
	loggedIn, err := users.Register(&dto.RegisterRequest{
		Username: "visited", Email: "visited@example.com", Password: "password123",
	})
	require.NoError(t, err)
	now := db.NowFunc()
	require.NoError(t, db.Model(loggedIn).Update("last_login_at", &now).Error)
	err = svc.Reject(viewerOf(admin), loggedIn.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindHasContent))

	// 留有内容的账号同样拒绝
	writer, err := users.Register(&dto.RegisterRequest{
		Username: "writer", Email: "writer@example.com", Password: "password123",
	})
	require.NoError(t, err)
	createTestPost(t, db, writer.ID, "遗留内容", false)
	err = svc.Reject(viewerOf(admin), writer.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindHasContent))
}

func TestDeleteUserWithContent(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	users := NewUserService(db, settings, NewMailService())
	svc := NewModerationService(db, users)
	admin := createTestUser(t, db, "admin", true)

	writer := createTestUser(t, db, "writer", false)
	createTestPost(t, db, writer.ID, "留下的帖子", true)

	// 留有内容的账号拒绝删除
	err := svc.DeleteUser(viewerOf(admin), writer.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindHasContent))

	// 停用后账号无法登录但内容保留
	require.NoError(t, svc.Deactivate(viewerOf(admin), writer.ID))
	_, err = users.Login(&dto.LoginRequest{Username: "writer", Password: "password123"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	var posts int64
	require.NoError(t, db.Model(&model.Post{}).Count(&posts).Error)
	assert.EqualValues(t, 1, posts)

	// 无内容的账号可以删除，关注关系与其作为发起人的通知一并清理
	empty := createTestUser(t, db, "empty", false)
	require.NoError(t, users.Follow(viewerOf(empty), "writer"))
	require.NoError(t, svc.DeleteUser(viewerOf(admin), empty.ID))

	var follows int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&follows).Error)
	assert.Zero(t, follows)

	var notifications int64
	require.NoError(t, db.Model(&model.Notification{}).
		Where("actor_id = ?", empty.ID).
		Count(&notifications).Error)
	assert.Zero(t, notifications)
}

func TestAdminSelfProtection(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	users := NewUserService(db, settings, NewMailService())
	svc := NewModerationService(db, users)
	admin := createTestUser(t, db, "admin", true)

	err := svc.Deactivate(viewerOf(admin), admin.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	err = svc.DeleteUser(viewerOf(admin), admin.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
}
