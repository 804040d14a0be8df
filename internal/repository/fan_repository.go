package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cbonilla3189/happyfans/internal/model"
	"github.com/cbonilla3189/happyfans/pkg/database"
)

type FanRepository interface {
	Create(ctx context.Context, name, message string, photo *string, ownerID *uint) (*model.Fan, error)
	// List 全部留言，按创建时间倒序
	List(ctx context.Context) ([]*model.Fan, error)
}

type fanRepository struct{ store *database.Store }

func NewFanRepository(store *database.Store) FanRepository { return &fanRepository{store: store} }

func (r *fanRepository) Create(ctx context.Context, name, message string, photo *string, ownerID *uint) (*model.Fan, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, persistenceError("create fan", err)
	}
	f := &model.Fan{Name: name, Message: message, Photo: photo, UserID: ownerID}
	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(f).Error
	}); err != nil {
		return nil, persistenceError("create fan", err)
	}
	return f, nil
}

func (r *fanRepository) List(ctx context.Context) ([]*model.Fan, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, persistenceError("list fans", err)
	}
	var res []*model.Fan
	if err := db.Order("created_at DESC").Order("id DESC").Find(&res).Error; err != nil {
		return nil, persistenceError("list fans", err)
	}
	return res, nil
}
