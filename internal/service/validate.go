package service

import (
	"errors"

	"github.com/parsecv/api/internal/config"
	"github.com/parsecv/api/internal/model"
)

// Validation failures. Each rejected file gets exactly one of these; a
// rejection never aborts the rest of an upload batch.
var (
	ErrInvalidType = errors.New("file type not supported")
	ErrTooLarge    = errors.New("file exceeds size limit")
)

// FileValidator decides whether a file candidate may enter the queue.
// It is a pure predicate over the file's name and size and keeps no state.
type FileValidator struct {
	allowed map[string]bool
	maxSize int64
}

func NewFileValidator(cfg config.UploadConfig) *FileValidator {
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[ext] = true
	}
	return &FileValidator{
		allowed: allowed,
		maxSize: cfg.MaxFileSize,
	}
}

// Validate returns nil for an acceptable file, ErrInvalidType when the
// extension is not in the allow set, or ErrTooLarge when the file exceeds
// the per-file size limit. Extension matching is case-insensitive.
func (v *FileValidator) Validate(name string, sizeBytes int64) error {
	if !v.allowed[model.Extension(name)] {
		return ErrInvalidType
	}
	if sizeBytes > v.maxSize {
		return ErrTooLarge
	}
	return nil
}
