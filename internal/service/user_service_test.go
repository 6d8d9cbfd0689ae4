package service

import (
	"testing"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterGating(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	svc := NewUserService(db, settings, NewMailService())

	// 默认 auto_approve_users=false，新用户等待审批
	user, err := svc.Register(&dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.False(t, user.IsApproved)
	assert.False(t, user.IsActive)

	// 打开自动批准
	_, err = settings.Set(model.SettingAutoApproveUsers, "true", model.ValueTypeBool)
	require.NoError(t, err)
	user2, err := svc.Register(&dto.RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.True(t, user2.IsApproved)

	// 关闭注册开关
	_, err = settings.Set(model.SettingAllowRegistrations, "false", model.ValueTypeBool)
	require.NoError(t, err)
	_, err = svc.Register(&dto.RegisterRequest{
		Username: "carol", Email: "carol@example.com", Password: "password123",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestRegisterDuplicate(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	svc := NewUserService(db, settings, NewMailService())

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(&dto.RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "password123",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	_, err = svc.Register(&dto.RegisterRequest{
		Username: "alice2", Email: "alice@example.com", Password: "password123",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestLoginDeniedReasons(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	svc := NewUserService(db, settings, NewMailService())

	user := createTestUser(t, db, "alice", false)

	// 正常登录
	resp, err := svc.Login(&dto.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.ID, resp.User.ID)

	// 邮箱也能登录
	_, err = svc.Login(&dto.LoginRequest{Username: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	// 密码错误与账号不存在是同一种错误
	_, err = svc.Login(&dto.LoginRequest{Username: "alice", Password: "wrong"})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthFailed))
	_, err = svc.Login(&dto.LoginRequest{Username: "ghost", Password: "password123"})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthFailed))

	// 未审批
	require.NoError(t, db.Model(user).Update("is_approved", false).Error)
	_, err = svc.Login(&dto.LoginRequest{Username: "alice", Password: "password123"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	// 已停用
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"is_approved": true, "is_active": false,
	}).Error)
	_, err = svc.Login(&dto.LoginRequest{Username: "alice", Password: "password123"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestFollowIdempotent(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	svc := NewUserService(db, settings, NewMailService())

	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)

	require.NoError(t, svc.Follow(viewerOf(alice), "bob"))
	require.NoError(t, svc.Follow(viewerOf(alice), "bob"))

	var follows int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&follows).Error)
	assert.EqualValues(t, 1, follows)

	// 重复关注不重复通知
	var notifications []model.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, bob.ID, notifications[0].RecipientID)
	assert.Equal(t, model.NotificationNewFollower, notifications[0].Type)

	// 取消关注是空操作安全的，且不产生动态
	require.NoError(t, svc.Unfollow(viewerOf(alice), "bob"))
	require.NoError(t, svc.Unfollow(viewerOf(alice), "bob"))

	var activities int64
	require.NoError(t, db.Model(&model.Activity{}).Count(&activities).Error)
	assert.EqualValues(t, 1, activities) // 只有 followed 那条
}

func TestFollowSelfRejected(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	svc := NewUserService(db, settings, NewMailService())

	alice := createTestUser(t, db, "alice", false)
	err := svc.Follow(viewerOf(alice), "alice")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
}

func TestProfilePrivacy(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	svc := NewUserService(db, settings, NewMailService())

	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	admin := createTestUser(t, db, "admin", true)
	require.NoError(t, db.Model(alice).Updates(map[string]interface{}{
		"is_profile_public": false,
		"full_name":         "Alice Liddell",
	}).Error)

	// 匿名访客只看到受限字段
	anon, err := svc.Profile(nil, "alice")
	require.NoError(t, err)
	assert.Empty(t, anon.FullName)
	assert.Equal(t, "alice", anon.Username)

	// 任何登录用户都能看到完整资料
	asBob, err := svc.Profile(viewerOf(bob), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", asBob.FullName)

	self, err := svc.Profile(viewerOf(alice), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", self.FullName)

	asAdmin, err := svc.Profile(viewerOf(admin), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", asAdmin.FullName)
}

func TestProfileInfoSanitized(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	svc := NewUserService(db, settings, NewMailService())

	alice := createTestUser(t, db, "alice", false)
	dirty := `<p>你好</p><script>alert(1)</script>`
	updated, err := svc.Update(viewerOf(alice), alice.ID, &dto.UserUpdateRequest{ProfileInfo: &dirty})
	require.NoError(t, err)
	assert.Contains(t, updated.ProfileInfo, "你好")
	assert.NotContains(t, updated.ProfileInfo, "script")
}

func TestResetPasswordFlow(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db, nil)
	require.NoError(t, settings.Seed())
	svc := NewUserService(db, settings, NewMailService())

	createTestUser(t, db, "alice", false)

	// 未注册邮箱静默成功
	require.NoError(t, svc.ForgotPassword("ghost@example.com"))
	require.NoError(t, svc.ForgotPassword("alice@example.com"))

	err := svc.ResetPassword("not-a-token", "newpassword1")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthFailed))
}
