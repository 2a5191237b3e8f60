package apperr

import (
	"errors"
	"fmt"
)

// Kind 业务错误分类。传输层据此决定对外表现，核心逻辑只关心分类本身。
type Kind int

const (
	KindUnknown      Kind = iota
	KindValidation        // 入参/业务规则校验失败（含权限不足、状态不允许）
	KindNotFound          // 引用的实体不存在
	KindConflict          // 时间窗冲突 / 唯一性冲突
	KindUnauthorized      // 未认证或凭证无效
)

// Error 带分类的业务错误。
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return newf(KindUnauthorized, format, args...)
}

// KindOf 返回错误的业务分类；非业务错误返回 KindUnknown。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
