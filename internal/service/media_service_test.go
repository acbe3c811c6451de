package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"tutorpress_backend/internal/config"
	"tutorpress_backend/internal/model"
	"tutorpress_backend/internal/repository"
	"tutorpress_backend/internal/util"
)

type memoryStorage struct {
	objects map[string][]byte
	deleted []string
}

func (s *memoryStorage) Upload(_ context.Context, filename string, r io.Reader, _ int64, _ string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[filename] = b
	return "/uploads/" + filename, nil
}

func (s *memoryStorage) Delete(_ context.Context, filename string) error {
	delete(s.objects, filename)
	s.deleted = append(s.deleted, filename)
	return nil
}

func (s *memoryStorage) GetURL(filename string) string { return "/uploads/" + filename }

type memoryAttachments struct {
	rows      map[uint]model.Attachment
	createErr error
}

func (m *memoryAttachments) Create(_ context.Context, a *model.Attachment) error {
	if m.createErr != nil {
		return m.createErr
	}
	a.ID = uint(len(m.rows) + 1)
	m.rows[a.ID] = *a
	return nil
}

func (m *memoryAttachments) FindByID(_ context.Context, id uint) (*model.Attachment, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrAttachmentNotFound
	}
	return &a, nil
}

func newMediaFixture(maxMB int) (*MediaService, *memoryStorage, *memoryAttachments) {
	storage := &memoryStorage{objects: map[string][]byte{}}
	repo := &memoryAttachments{rows: map[uint]model.Attachment{}}
	cfg := &config.Config{
		Storage: config.StorageConfig{MaxUploadMB: maxMB},
		Quiz:    config.QuizConfig{AllowedImageTypes: []string{"image"}},
	}
	svc := NewMediaService(storage, repo, cfg)
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC) }
	return svc, storage, repo
}

var png = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 600)...)

func TestUploadStoresImage(t *testing.T) {
	svc, storage, _ := newMediaFixture(1)
	att, err := svc.Upload(context.Background(), 7, "diagram.PNG", bytes.NewReader(png), int64(len(png)))
	if err != nil {
		t.Fatal(err)
	}
	if att.ID != 1 || att.Type != "image" || att.Mime != "image/png" {
		t.Fatalf("attachment = %+v", att)
	}
	if !strings.HasPrefix(att.URL, "/uploads/media/2026/10/") || !strings.HasSuffix(att.URL, ".png") {
		t.Fatalf("url = %q", att.URL)
	}
	key := strings.TrimPrefix(att.URL, "/uploads/")
	if !bytes.Equal(storage.objects[key], png) {
		t.Fatal("stored bytes differ from the upload")
	}

	got, err := svc.Get(context.Background(), 1)
	if err != nil || got != att {
		t.Fatalf("get = %+v, %v", got, err)
	}
}

func TestUploadRejections(t *testing.T) {
	svc, storage, repo := newMediaFixture(1)

	if _, err := svc.Upload(context.Background(), 7, "notes.txt", strings.NewReader("hello"), 5); err == nil {
		t.Fatal("text file accepted")
	}
	if _, err := svc.Upload(context.Background(), 7, "big.png", bytes.NewReader(png), 2<<20); !errors.Is(err, util.ErrFileTooLarge) {
		t.Fatalf("err = %v", err)
	}

	repo.createErr = errors.New("db down")
	if _, err := svc.Upload(context.Background(), 7, "a.png", bytes.NewReader(png), int64(len(png))); err == nil {
		t.Fatal("upload succeeded without a database row")
	}
	if len(storage.objects) != 0 || len(storage.deleted) != 1 {
		t.Fatalf("orphan objects = %v", storage.objects)
	}
}
