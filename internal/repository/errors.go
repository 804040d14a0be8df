package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateEmail 邮箱已被注册（按小写比较）
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrPersistence 写入失败，事务已回滚
	ErrPersistence = errors.New("persistence error")
)

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// isUniqueViolation 兼容开启/未开启 TranslateError 的驱动
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
