package service

import (
	"time"

	"github.com/antisocialnet/antisocialnet/internal/dto"
	"github.com/antisocialnet/antisocialnet/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

// formatTime 统一响应中的时间格式
func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// userBrief 用户摘要信息
func userBrief(u *model.User) dto.UserBriefInfo {
	return dto.UserBriefInfo{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		ProfilePhoto: u.ProfilePhoto,
	}
}
