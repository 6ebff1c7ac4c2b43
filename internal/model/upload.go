package model

// UploadResult reports the outcome for one file of an upload batch.
type UploadResult struct {
	FileName   string `json:"fileName"`
	DocumentID string `json:"documentId,omitempty"`
	Status     string `json:"status"` // "queued" or "rejected"
	Error      string `json:"error,omitempty"`
}

// BatchUploadResponse summarizes an upload batch. Rejections are per file;
// one bad file never fails the rest of the batch.
type BatchUploadResponse struct {
	BatchID     string         `json:"batchId"`
	TotalFiles  int            `json:"totalFiles"`
	QueuedFiles int            `json:"queuedFiles"`
	FailedFiles int            `json:"failedFiles"`
	Results     []UploadResult `json:"results"`
}

// ThemeUpdateRequest sets the persisted UI theme.
type ThemeUpdateRequest struct {
	Theme Theme `json:"theme" validate:"required,oneof=auto light dark"`
}

// ThemeResponse returns the persisted UI theme.
type ThemeResponse struct {
	Theme Theme `json:"theme"`
}

// ProcessStartResponse acknowledges a "process all" command.
type ProcessStartResponse struct {
	Scheduled int    `json:"scheduled"`
	Status    string `json:"status"`
}
