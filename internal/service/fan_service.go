package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cbonilla3189/happyfans/internal/model"
	"github.com/cbonilla3189/happyfans/internal/repository"
	"github.com/cbonilla3189/happyfans/internal/storage"
	"github.com/cbonilla3189/happyfans/pkg/logger"
)

// SubmitInput 留言表单；Photo 为空表示未上传
type SubmitInput struct {
	Name    string
	Message string
	Photo   *multipart.FileHeader
	OwnerID *uint
}

type FanService interface {
	Submit(ctx context.Context, in SubmitInput) (*model.Fan, error)
	List(ctx context.Context) ([]*model.Fan, error)
}

type fanService struct {
	fans    repository.FanRepository
	uploads *storage.Uploads
}

func NewFanService(fans repository.FanRepository, uploads *storage.Uploads) FanService {
	return &fanService{fans: fans, uploads: uploads}
}

// Submit 校验顺序：必填、长度、图片扩展名；图片保存成功后才写库
func (s *fanService) Submit(ctx context.Context, in SubmitInput) (*model.Fan, error) {
	name := strings.TrimSpace(in.Name)
	message := strings.TrimSpace(in.Message)
	if name == "" || message == "" {
		ve := &ValidationError{Fields: map[string]string{}}
		if name == "" {
			ve.Fields["name"] = "this field is required"
		}
		if message == "" {
			ve.Fields["message"] = "this field is required"
		}
		return nil, ve
	}
	if utf8.RuneCountInString(name) > model.FanNameMaxLen {
		return nil, newValidationError("name", fmt.Sprintf("must be at most %d characters", model.FanNameMaxLen))
	}
	if utf8.RuneCountInString(message) > model.FanMessageMaxLen {
		return nil, newValidationError("message", fmt.Sprintf("must be at most %d characters", model.FanMessageMaxLen))
	}

	photo := in.Photo
	if photo != nil && photo.Filename == "" {
		photo = nil
	}
	if photo != nil && !storage.AllowedImage(photo.Filename) {
		return nil, newValidationError("photo", "only png, jpg, jpeg and gif images are allowed")
	}

	var photoRef *string
	if photo != nil {
		saved, err := s.uploads.Save(photo)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidName) {
				return nil, newValidationError("photo", "invalid filename")
			}
			return nil, err
		}
		photoRef = &saved
	}

	f, err := s.fans.Create(ctx, name, message, photoRef, in.OwnerID)
	if err != nil {
		return nil, err
	}
	logger.Info("fan post created", zap.Uint("fan_id", f.ID), zap.Bool("photo", photoRef != nil), zap.Bool("owned", in.OwnerID != nil))
	return f, nil
}

func (s *fanService) List(ctx context.Context) ([]*model.Fan, error) {
	return s.fans.List(ctx)
}
