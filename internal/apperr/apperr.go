package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind string

const (
	// KindNotFound 资源不存在
	KindNotFound Kind = "not_found"
	// KindForbidden 没有权限
	KindForbidden Kind = "forbidden"
	// KindInvalidInput 输入不合法
	KindInvalidInput Kind = "invalid_input"
	// KindInvalidTarget 多态目标不存在
	KindInvalidTarget Kind = "invalid_target"
	// KindConflict 幂等冲突 (already_liked/already_following/already_approved/already_resolved)
	KindConflict Kind = "conflict"
	// KindAuthFailed 认证失败
	KindAuthFailed Kind = "auth_failed"
	// KindTooLarge 超出大小限制
	KindTooLarge Kind = "too_large"
	// KindHasContent 存在依赖内容，无法删除
	KindHasContent Kind = "has_content"
	// KindStorage 存储层故障
	KindStorage Kind = "storage_failure"
)

// Error 业务错误，携带类别和面向用户的消息
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error 实现error接口
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 支持errors.Is/As链
func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按类别匹配
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// New 创建指定类别的错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 包装底层错误
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFound 资源不存在
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Forbidden 没有权限
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// InvalidInput 输入不合法
func InvalidInput(message string) *Error { return New(KindInvalidInput, message) }

// InvalidTarget 多态目标不存在
func InvalidTarget(message string) *Error { return New(KindInvalidTarget, message) }

// Conflict 幂等冲突
func Conflict(message string) *Error { return New(KindConflict, message) }

// AuthFailed 认证失败
func AuthFailed(message string) *Error { return New(KindAuthFailed, message) }

// TooLarge 超出大小限制
func TooLarge(message string) *Error { return New(KindTooLarge, message) }

// HasContent 存在依赖内容
func HasContent(message string) *Error { return New(KindHasContent, message) }

// Storage 存储层故障
func Storage(err error) *Error { return Wrap(KindStorage, "存储操作失败", err) }

// KindOf 提取错误的类别，非业务错误一律视为存储故障
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// IsKind 判断错误是否为指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
