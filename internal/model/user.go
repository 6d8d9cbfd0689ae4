package model

import (
	"time"
)

// User 用户模型
type User struct {
	Base
	Username        string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	Password        string     `gorm:"type:varchar(100);not null" json:"-"`
	Email           string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"email"`
	FullName        string     `gorm:"type:varchar(100)" json:"full_name"`
	ProfileInfo     string     `gorm:"type:text" json:"profile_info"` // 已净化HTML
	ProfilePhoto    string     `gorm:"type:varchar(255)" json:"profile_photo"` // 仓库相对路径
	WebsiteURL      string     `gorm:"type:varchar(255)" json:"website_url"`
	Street          string     `gorm:"type:varchar(255)" json:"street"`
	City            string     `gorm:"type:varchar(100)" json:"city"`
	Country         string     `gorm:"type:varchar(100)" json:"country"`
	Birthdate       *time.Time `json:"birthdate"`
	IsProfilePublic bool       `gorm:"not null;default:true" json:"is_profile_public"`
	Theme           string     `gorm:"type:varchar(20);not null;default:'light'" json:"theme"`
	AccentColor     string     `gorm:"type:varchar(20)" json:"accent_color"`
	IsAdmin         bool       `gorm:"not null;default:false" json:"is_admin"`
	IsApproved      bool       `gorm:"not null;default:false;index" json:"is_approved"`
	IsActive        bool       `gorm:"not null;default:false" json:"is_active"`
	LastLoginAt     *time.Time `json:"last_login_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// CanAuthenticate 账号是否允许登录
func (u *User) CanAuthenticate() bool {
	return u.IsApproved && u.IsActive
}
