// Package media 封装图片类题型使用的附件选择器
package media

import (
	"context"
	"errors"
	"strings"

	"tutorpress_backend/internal/quiz"
	"tutorpress_backend/pkg/logger"

	"go.uber.org/zap"
)

var ErrTypeNotAllowed = errors.New("attachment type not allowed")

type Attachment struct {
	ID   int64
	URL  string
	Type string
}

type Config struct {
	Title        string
	AllowedTypes []string
}

// ImageConfig 所有图片字段共用的选择器配置
func ImageConfig(title string) Config {
	return Config{Title: title, AllowedTypes: []string{"image"}}
}

// Picker 打开附件库，作者取消时 ok 为 false
type Picker interface {
	Open(ctx context.Context, cfg Config) (att Attachment, ok bool, err error)
}

type PickerFunc func(ctx context.Context, cfg Config) (Attachment, bool, error)

func (f PickerFunc) Open(ctx context.Context, cfg Config) (Attachment, bool, error) {
	return f(ctx, cfg)
}

// Allowed 判断附件类型是否在允许列表中，可以匹配完整 MIME 类型或主类型（"image" 匹配 "image/png"）
func (c Config) Allowed(typ string) bool {
	if len(c.AllowedTypes) == 0 {
		return true
	}
	typ = strings.ToLower(strings.TrimSpace(typ))
	major, _, _ := strings.Cut(typ, "/")
	for _, a := range c.AllowedTypes {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == typ || a == major {
			return true
		}
	}
	return false
}

// Attach 打开选择器并把结果交给 onSelect。
// 取消时什么都不做并返回 nil，不允许的类型只记录日志。
func Attach(ctx context.Context, p Picker, cfg Config, onSelect func(quiz.Image)) error {
	att, ok, err := p.Open(ctx, cfg)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if !cfg.Allowed(att.Type) {
		logger.Log.Warn("attachment ignored: type not allowed",
			zap.Int64("attachment_id", att.ID),
			zap.String("type", att.Type),
			zap.Strings("allowed", cfg.AllowedTypes))
		return ErrTypeNotAllowed
	}
	onSelect(quiz.Image{ID: att.ID, URL: att.URL})
	return nil
}
