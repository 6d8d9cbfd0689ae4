package service

import (
	"errors"
	"strings"
	"time"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/logger"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/target"
	"github.com/antisocialnet/antisocialnet/pkg/auth"
	"github.com/antisocialnet/antisocialnet/pkg/markdown"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 用户服务，覆盖注册登录、资料、关注关系与密码找回
type UserService struct {
	db       *gorm.DB
	settings *SettingService
	mail     *MailService
	log      *zap.SugaredLogger
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB, settings *SettingService, mail *MailService) *UserService {
	return &UserService{
		db:       db,
		settings: settings,
		mail:     mail,
		log:      logger.GetSugaredLogger(),
	}
}

// Register 注册新用户
// 受 allow_registrations 开关控制，是否需要人工审批由 auto_approve_users 决定
func (s *UserService) Register(req *dto.RegisterRequest) (*model.User, error) {
	if !s.settings.GetBool(model.SettingAllowRegistrations, true) {
		return nil, apperr.Forbidden("当前不开放注册")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	// 待审批账号同时保持未激活，批准时一并激活
	approved := s.settings.GetBool(model.SettingAutoApproveUsers, false)
	user := model.User{
		Username:        strings.TrimSpace(req.Username),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Password:        string(hashed),
		FullName:        strings.TrimSpace(req.FullName),
		IsProfilePublic: true,
		Theme:           "light",
		IsApproved:      approved,
		IsActive:        approved,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("用户名或邮箱已被使用")
		}
		return nil, apperr.Storage(err)
	}
	s.log.Infof("新用户注册: %s (待审批=%v)", user.Username, !user.IsApproved)
	return &user, nil
}

// Login 用户登录，支持用户名或邮箱
// 凭证错误与账号不存在返回同一错误，不泄露账号是否存在
func (s *UserService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var user model.User
	err := s.db.Where("username = ? OR email = ?", req.Username, strings.ToLower(req.Username)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.AuthFailed("用户名或密码错误")
		}
		return nil, apperr.Storage(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.AuthFailed("用户名或密码错误")
	}
	if !user.IsApproved {
		return nil, apperr.Forbidden("账号等待管理员审批")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("账号已停用")
	}

	pair, err := auth.GenerateTokenPair(user.ID, user.IsAdmin)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login_at", &now).Error; err != nil {
		s.log.Warnf("更新最近登录时间失败: %v", err)
	}

	return &dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         userBrief(&user),
		IsAdmin:      user.IsAdmin,
	}, nil
}

// RefreshToken 用刷新令牌换取新令牌对
func (s *UserService) RefreshToken(refreshToken string) (*auth.TokenPair, error) {
	claims, err := auth.ParseToken(refreshToken)
	if err != nil || claims.Type != auth.RefreshToken {
		return nil, apperr.AuthFailed("刷新令牌无效")
	}

	user, err := s.GetByID(claims.UserID)
	if err != nil {
		return nil, apperr.AuthFailed("刷新令牌无效")
	}
	if !user.CanAuthenticate() {
		return nil, apperr.Forbidden("账号不可用")
	}

	pair, err := auth.GenerateTokenPair(user.ID, user.IsAdmin)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return pair, nil
}

// GetByID 按ID查询用户
func (s *UserService) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, apperr.Storage(err)
	}
	return &user, nil
}

// GetByUsername 按用户名查询用户
func (s *UserService) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, apperr.Storage(err)
	}
	return &user, nil
}

// Profile 用户资料页，私密资料对外只暴露受限字段
func (s *UserService) Profile(viewer *Viewer, username string) (*dto.UserProfileResponse, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	resp := &dto.UserProfileResponse{
		ID:              user.ID,
		Username:        user.Username,
		IsProfilePublic: user.IsProfilePublic,
		IsAdmin:         user.IsAdmin,
		CreatedAt:       formatTime(user.CreatedAt),
	}

	if CanViewProfile(viewer, user) {
		resp.FullName = user.FullName
		resp.ProfileInfo = user.ProfileInfo
		resp.ProfilePhoto = user.ProfilePhoto
		resp.WebsiteURL = user.WebsiteURL
		resp.City = user.City
		resp.Country = user.Country
	}

	if err := s.db.Model(&model.Follow{}).Where("followed_id = ?", user.ID).Count(&resp.FollowerCount).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	if err := s.db.Model(&model.Follow{}).Where("follower_id = ?", user.ID).Count(&resp.FollowingCount).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	if viewer != nil {
		var count int64
		if err := s.db.Model(&model.Follow{}).
			Where("follower_id = ? AND followed_id = ?", viewer.ID, user.ID).
			Count(&count).Error; err != nil {
			return nil, apperr.Storage(err)
		}
		resp.IsFollowedByMe = count > 0
	}
	return resp, nil
}

// Update 更新用户资料，简介在存储前净化
func (s *UserService) Update(viewer *Viewer, userID uint, req *dto.UserUpdateRequest) (*model.User, error) {
	if !CanEditProfile(viewer, userID) {
		return nil, apperr.Forbidden("无权修改该资料")
	}

	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.ProfileInfo != nil {
		updates["profile_info"] = markdown.Sanitize(*req.ProfileInfo)
	}
	if req.WebsiteURL != nil {
		updates["website_url"] = *req.WebsiteURL
	}
	if req.Street != nil {
		updates["street"] = *req.Street
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.Birthdate != nil {
		if *req.Birthdate == "" {
			updates["birthdate"] = nil
		} else {
			birth, err := time.Parse("2006-01-02", *req.Birthdate)
			if err != nil {
				return nil, apperr.InvalidInput("出生日期格式错误")
			}
			updates["birthdate"] = &birth
		}
	}
	if req.IsProfilePublic != nil {
		updates["is_profile_public"] = *req.IsProfilePublic
	}
	if req.Theme != nil {
		updates["theme"] = *req.Theme
	}
	if req.AccentColor != nil {
		updates["accent_color"] = *req.AccentColor
	}

	if len(updates) == 0 {
		return user, nil
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return s.GetByID(userID)
}

// Follow 关注用户，重复关注为幂等空操作
func (s *UserService) Follow(viewer *Viewer, username string) error {
	if viewer == nil {
		return apperr.AuthFailed("请先登录")
	}
	followed, err := s.GetByUsername(username)
	if err != nil {
		return err
	}
	if followed.ID == viewer.ID {
		return apperr.InvalidInput("不能关注自己")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		follow := model.Follow{FollowerID: viewer.ID, FollowedID: followed.ID}
		if err := tx.Create(&follow).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return apperr.Storage(err)
		}

		ref := target.Ref{Type: target.TypeUser, ID: followed.ID}
		eff := newEffects(viewer.ID)
		eff.notify(followed.ID, model.NotificationNewFollower, &ref)
		eff.act(model.ActivityFollowed, &ref)
		return eff.commit(tx)
	})
}

// Unfollow 取消关注，未关注时为空操作，不产生动态
func (s *UserService) Unfollow(viewer *Viewer, username string) error {
	if viewer == nil {
		return apperr.AuthFailed("请先登录")
	}
	followed, err := s.GetByUsername(username)
	if err != nil {
		return err
	}

	if err := s.db.Where("follower_id = ? AND followed_id = ?", viewer.ID, followed.ID).
		Delete(&model.Follow{}).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// Followers 粉丝列表
func (s *UserService) Followers(username string, page *dto.PageRequest) (*dto.FollowListResponse, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	return s.followList(page, "followed_id = ?", user.ID, "Follower")
}

// Following 关注列表
func (s *UserService) Following(username string, page *dto.PageRequest) (*dto.FollowListResponse, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	return s.followList(page, "follower_id = ?", user.ID, "Followed")
}

func (s *UserService) followList(page *dto.PageRequest, cond string, id uint, preload string) (*dto.FollowListResponse, error) {
	page.Normalize(20)

	var total int64
	if err := s.db.Model(&model.Follow{}).Where(cond, id).Count(&total).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	var follows []model.Follow
	if err := s.db.Preload(preload).Where(cond, id).
		Order("created_at DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&follows).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	list := make([]dto.UserBriefInfo, 0, len(follows))
	for i := range follows {
		u := follows[i].Follower
		if preload == "Followed" {
			u = follows[i].Followed
		}
		list = append(list, userBrief(&u))
	}
	return &dto.FollowListResponse{Total: total, List: list}, nil
}

// ForgotPassword 发送密码重置邮件
// 邮箱不存在时静默成功，不泄露注册状态
func (s *UserService) ForgotPassword(email string) error {
	var user model.User
	err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperr.Storage(err)
	}

	token, err := auth.GenerateResetToken(user.ID)
	if err != nil {
		return apperr.Storage(err)
	}
	if err := s.mail.SendPasswordReset(&user, token); err != nil {
		s.log.Errorf("密码重置邮件发送失败: %v", err)
		return apperr.Storage(err)
	}
	return nil
}

// ResetPassword 用重置令牌设置新密码
func (s *UserService) ResetPassword(token, password string) error {
	userID, err := auth.ParseResetToken(token)
	if err != nil {
		return apperr.AuthFailed("重置令牌无效或已过期")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Storage(err)
	}
	if err := s.db.Model(&model.User{}).Where("id = ?", userID).
		Update("password", string(hashed)).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// HasContent 用户是否留有内容（文章/评论/照片），删除账号前检查
func (s *UserService) HasContent(userID uint) (bool, error) {
	checks := []struct {
		model interface{}
		cond  string
	}{
		{&model.Post{}, "author_id = ?"},
		{&model.Comment{}, "author_id = ?"},
		{&model.Photo{}, "owner_id = ?"},
	}
	for _, c := range checks {
		var count int64
		if err := s.db.Model(c.model).Where(c.cond, userID).Count(&count).Error; err != nil {
			return false, apperr.Storage(err)
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
