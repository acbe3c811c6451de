package util

import "errors"

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidPayload   = errors.New("invalid quiz payload")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidFileType  = errors.New("invalid file type")
)
