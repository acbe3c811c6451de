package util

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// SniffMimeType 深度校验文件 MIME 类型，并返回一个仍包含已读取字节的 reader
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "image/", "image/png"
func SniffMimeType(reader io.Reader, allowedTypes []string) (string, io.Reader, error) {
	buffer := make([]byte, SniffLength)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	buffer = buffer[:n]
	rest := io.MultiReader(bytes.NewReader(buffer), reader)

	// 检测 MIME 类型
	mimeType := http.DetectContentType(buffer)

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, rest, nil
		}
	}

	return mimeType, rest, fmt.Errorf("%w: %s", ErrInvalidFileType, mimeType)
}

// MajorType 返回 MIME 的主类型，如 "image"
func MajorType(mimeType string) string {
	if i := strings.IndexByte(mimeType, '/'); i > 0 {
		return mimeType[:i]
	}
	return mimeType
}

// ImageExtension 优先使用原文件扩展名，否则根据 MIME 推断
func ImageExtension(filename, mimeType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedImageExtensions {
		if ext == allowed {
			return ext
		}
	}
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
