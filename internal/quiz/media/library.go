package media

import (
	"context"
	"errors"

	"tutorpress_backend/internal/quiz/wire"
)

type Resolver interface {
	Attachment(ctx context.Context, id int64) (wire.Attachment, error)
}

// LibraryPicker 通过媒体接口把选中的附件ID解析为完整记录。
// Choose 返回作者选择的ID，返回 0 表示取消。
type LibraryPicker struct {
	Resolver Resolver
	Choose   func(ctx context.Context, cfg Config) (int64, error)
}

func (l LibraryPicker) Open(ctx context.Context, cfg Config) (Attachment, bool, error) {
	if l.Choose == nil || l.Resolver == nil {
		return Attachment{}, false, errors.New("media library not configured")
	}
	id, err := l.Choose(ctx, cfg)
	if err != nil || id <= 0 {
		return Attachment{}, false, err
	}
	rec, err := l.Resolver.Attachment(ctx, id)
	if err != nil {
		return Attachment{}, false, err
	}
	return Attachment{ID: rec.ID, URL: rec.URL, Type: rec.Type}, true, nil
}
