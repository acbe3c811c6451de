package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// swagger:model Attachment
type Attachment struct {
	BaseModel
	UploaderID uint   `gorm:"index" json:"uploaderId"`
	ObjectKey  string `gorm:"size:255;uniqueIndex" json:"objectKey"`
	URL        string `gorm:"size:512" json:"url"`
	Mime       string `gorm:"size:100" json:"mime"`
	Type       string `gorm:"size:20" json:"type"`
	Size       int64  `json:"size"`
}

func (Attachment) TableName() string {
	return "attachments"
}

// NewObjectKey 生成媒体库对象键，按上传月份分目录: media/2026/10/<uuid>.png
func NewObjectKey(at time.Time, ext string) string {
	return fmt.Sprintf("media/%s/%s%s", at.Format("2006/01"), uuid.NewString(), ext)
}
