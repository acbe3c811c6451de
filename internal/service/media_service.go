package service

import (
	"context"
	"io"
	"strings"
	"time"

	"tutorpress_backend/internal/config"
	"tutorpress_backend/internal/model"
	"tutorpress_backend/internal/quiz/wire"
	"tutorpress_backend/internal/util"
	"tutorpress_backend/pkg/monitoring"
)

type AttachmentStore interface {
	Create(ctx context.Context, a *model.Attachment) error
	FindByID(ctx context.Context, id uint) (*model.Attachment, error)
}

// MediaService 处理题目图片等媒体库附件
type MediaService struct {
	Storage      StorageProvider
	Repo         AttachmentStore
	AllowedTypes []string
	MaxBytes     int64
	now          func() time.Time
}

func NewMediaService(storage StorageProvider, repo AttachmentStore, cfg *config.Config) *MediaService {
	allowed := make([]string, 0, len(cfg.Quiz.AllowedImageTypes))
	for _, t := range cfg.Quiz.AllowedImageTypes {
		// "image" 表示整个主类型
		if !strings.Contains(t, "/") {
			t += "/"
		}
		allowed = append(allowed, t)
	}
	if len(allowed) == 0 {
		allowed = []string{util.MimeImage}
	}
	maxMB := cfg.Storage.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &MediaService{
		Storage:      storage,
		Repo:         repo,
		AllowedTypes: allowed,
		MaxBytes:     int64(maxMB) << 20,
		now:          time.Now,
	}
}

func toAttachment(a *model.Attachment) wire.Attachment {
	return wire.Attachment{ID: int64(a.ID), URL: a.URL, Type: a.Type, Mime: a.Mime}
}

// Upload 校验文件内容的真实类型后存入对象存储并登记到媒体库
func (s *MediaService) Upload(ctx context.Context, uploaderID uint, filename string, r io.Reader, size int64) (wire.Attachment, error) {
	if size > s.MaxBytes {
		return wire.Attachment{}, util.ErrFileTooLarge
	}
	mime, body, err := util.SniffMimeType(r, s.AllowedTypes)
	if err != nil {
		return wire.Attachment{}, err
	}

	key := model.NewObjectKey(s.now(), util.ImageExtension(filename, mime))
	url, err := s.Storage.Upload(ctx, key, io.LimitReader(body, s.MaxBytes), size, mime)
	if err != nil {
		return wire.Attachment{}, err
	}

	a := &model.Attachment{
		UploaderID: uploaderID,
		ObjectKey:  key,
		URL:        url,
		Mime:       mime,
		Type:       util.MajorType(mime),
		Size:       size,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		_ = s.Storage.Delete(ctx, key)
		return wire.Attachment{}, err
	}
	monitoring.MediaUploadBytes.Add(float64(size))
	return toAttachment(a), nil
}

func (s *MediaService) Get(ctx context.Context, id uint) (wire.Attachment, error) {
	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return wire.Attachment{}, err
	}
	return toAttachment(a), nil
}
