package target

import (
	"errors"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/pkg/markdown"
	"gorm.io/gorm"
)

// Type 多态目标类型，封闭集合
type Type string

const (
	// TypePost 帖子
	TypePost Type = "post"
	// TypeComment 评论
	TypeComment Type = "comment"
	// TypePhoto 图片
	TypePhoto Type = "photo"
	// TypeUser 用户
	TypeUser Type = "user"
)

// Valid 是否为合法目标类型
func (t Type) Valid() bool {
	switch t {
	case TypePost, TypeComment, TypePhoto, TypeUser:
		return true
	}
	return false
}

// Likeable 是否可被点赞
func (t Type) Likeable() bool {
	switch t {
	case TypePost, TypeComment, TypePhoto:
		return true
	}
	return false
}

// Commentable 是否可被评论
func (t Type) Commentable() bool {
	switch t {
	case TypePost, TypeComment, TypePhoto:
		return true
	}
	return false
}

// Ref 多态目标引用 (target_type, target_id)
type Ref struct {
	Type Type `json:"target_type"`
	ID   uint `json:"target_id"`
}

// Resolved 解析后的目标实体信息
type Resolved struct {
	Ref
	OwnerID uint   // 目标归属用户
	Preview string // 渲染通知/动态用的摘要文本
	// Root 评论目标所在线程的根目标对，其余类型与自身相同
	Root Ref
}

// Registry 多态目标注册表
// Like/Comment/Notification/Activity 的每次带目标写入都必须先经过 Resolve
type Registry struct {
	db *gorm.DB
}

// NewRegistry 创建目标注册表实例
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

const previewLimit = 80

// Resolve 解析目标引用，目标不存在时返回 invalid_target
func (r *Registry) Resolve(ref Ref) (*Resolved, error) {
	if !ref.Type.Valid() || ref.ID == 0 {
		return nil, apperr.InvalidTarget("无效的目标引用")
	}

	switch ref.Type {
	case TypePost:
		var post model.Post
		if err := r.db.First(&post, ref.ID).Error; err != nil {
			return nil, notFoundOr(err)
		}
		return &Resolved{Ref: ref, OwnerID: post.AuthorID, Preview: post.Title, Root: ref}, nil

	case TypeComment:
		var comment model.Comment
		if err := r.db.First(&comment, ref.ID).Error; err != nil {
			return nil, notFoundOr(err)
		}
		return &Resolved{
			Ref:     ref,
			OwnerID: comment.AuthorID,
			Preview: markdown.Excerpt(comment.TextHTML, previewLimit),
			Root:    Ref{Type: Type(comment.TargetType), ID: comment.TargetID},
		}, nil

	case TypePhoto:
		var photo model.Photo
		if err := r.db.First(&photo, ref.ID).Error; err != nil {
			return nil, notFoundOr(err)
		}
		return &Resolved{Ref: ref, OwnerID: photo.OwnerID, Preview: photo.Caption, Root: ref}, nil

	case TypeUser:
		var user model.User
		if err := r.db.First(&user, ref.ID).Error; err != nil {
			return nil, notFoundOr(err)
		}
		return &Resolved{Ref: ref, OwnerID: user.ID, Preview: user.Username, Root: ref}, nil
	}

	return nil, apperr.InvalidTarget("无效的目标类型")
}

// WithDB 返回绑定到指定连接（通常是事务）的注册表
func (r *Registry) WithDB(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.InvalidTarget("目标内容不存在")
	}
	return apperr.Storage(err)
}
