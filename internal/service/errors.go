package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials 邮箱不存在与密码错误统一返回，避免枚举用户
	ErrInvalidCredentials = errors.New("email or password incorrect")
	// ErrAuthDisabled 未启用账号功能
	ErrAuthDisabled = errors.New("feature unavailable")
)

// ValidationError 用户输入错误，Fields 为字段到提示的映射
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IsValidation 判断并取出 ValidationError
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
