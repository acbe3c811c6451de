package repository

import (
	"context"
	"errors"

	"tutorpress_backend/internal/model"

	"gorm.io/gorm"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

type AttachmentRepository struct {
	DB *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{DB: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *model.Attachment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AttachmentRepository) FindByID(ctx context.Context, id uint) (*model.Attachment, error) {
	var a model.Attachment
	err := r.DB.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttachmentNotFound
	}
	return &a, err
}
