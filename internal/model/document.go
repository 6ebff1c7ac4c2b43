package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is a validated file tracked through the parsing pipeline.
type Document struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	SizeBytes   int64          `json:"sizeBytes"`
	Status      DocumentStatus `json:"status"`
	Progress    float64        `json:"progress"`
	Stage       string         `json:"stage,omitempty"`
	ETASeconds  int            `json:"etaSeconds"`
	Error       *string        `json:"error,omitempty"`
	UploadedAt  time.Time      `json:"uploadedAt"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

// NewDocument builds a queued document for an accepted upload.
func NewDocument(name string, sizeBytes int64) *Document {
	return &Document{
		ID:         uuid.New().String(),
		Name:       name,
		SizeBytes:  sizeBytes,
		Status:     StatusQueued,
		UploadedAt: time.Now(),
	}
}

// Extension returns the lower-cased last dot segment of a file name,
// or "" when the name has no extension.
func Extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
