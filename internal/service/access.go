package service

import (
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/target"
)

// Viewer 当前请求者的身份快照，匿名访问时为 nil
type Viewer struct {
	ID      uint
	IsAdmin bool
}

// ViewerFrom 从用户记录构造身份快照
func ViewerFrom(u *model.User) *Viewer {
	if u == nil {
		return nil
	}
	return &Viewer{ID: u.ID, IsAdmin: u.IsAdmin}
}

// CanViewPost 未发布的文章仅作者与管理员可见
func CanViewPost(v *Viewer, p *model.Post) bool {
	if p.IsPublished {
		return true
	}
	if v == nil {
		return false
	}
	return v.IsAdmin || v.ID == p.AuthorID
}

// CanEditPost 文章仅作者与管理员可改
func CanEditPost(v *Viewer, p *model.Post) bool {
	if v == nil {
		return false
	}
	return v.IsAdmin || v.ID == p.AuthorID
}

// CanDeleteComment 评论作者、根目标所有者、管理员三方可删
func CanDeleteComment(v *Viewer, c *model.Comment, rootOwnerID uint) bool {
	if v == nil {
		return false
	}
	return v.IsAdmin || v.ID == c.AuthorID || v.ID == rootOwnerID
}

// CanViewProfile 私密资料只对匿名访客隐藏，登录用户均可见
func CanViewProfile(v *Viewer, u *model.User) bool {
	return u.IsProfilePublic || v != nil
}

// CanEditProfile 资料仅本人与管理员可改
func CanEditProfile(v *Viewer, userID uint) bool {
	if v == nil {
		return false
	}
	return v.IsAdmin || v.ID == userID
}

// CanViewTarget 目标可见性检查，点赞/评论前统一走这里
// 非文章目标当前没有独立的可见性开关
func CanViewTarget(v *Viewer, res *target.Resolved, post *model.Post) bool {
	if res.Ref.Type == target.TypePost && post != nil {
		return CanViewPost(v, post)
	}
	return true
}
