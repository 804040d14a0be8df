package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/cbonilla3189/happyfans/internal/model"
	"github.com/cbonilla3189/happyfans/pkg/database"
)

type UserRepository interface {
	Create(ctx context.Context, email, name, passwordHash string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	// FindByIDString 会话中取出的 id 可能被篡改，非法 id 按不存在处理
	FindByIDString(ctx context.Context, id string) (*model.User, error)
}

type userRepository struct{ store *database.Store }

func NewUserRepository(store *database.Store) UserRepository { return &userRepository{store: store} }

func (r *userRepository) Create(ctx context.Context, email, name, passwordHash string) (*model.User, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, persistenceError("create user", err)
	}

	u := &model.User{Email: model.NormalizeEmail(email), PasswordHash: passwordHash}
	if name = strings.TrimSpace(name); name != "" {
		u.Name = &name
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&model.User{}).Where("email = ?", u.Email).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrDuplicateEmail
		}
		return tx.Create(u).Error
	})
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, ErrDuplicateEmail), isUniqueViolation(err):
		return nil, ErrDuplicateEmail
	default:
		return nil, persistenceError("create user", err)
	}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", model.NormalizeEmail(email))
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, nil
	}
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) FindByIDString(ctx context.Context, id string) (*model.User, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, nil
	}
	return r.FindByID(ctx, uint(n))
}

func (r *userRepository) first(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, persistenceError("find user", err)
	}
	var u model.User
	if err := db.Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, persistenceError("find user", err)
	}
	return &u, nil
}
