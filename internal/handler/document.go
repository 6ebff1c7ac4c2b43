package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/parsecv/api/internal/config"
	"github.com/parsecv/api/internal/model"
	"github.com/parsecv/api/internal/notify"
	"github.com/parsecv/api/internal/service"
	"github.com/parsecv/api/pkg/response"
)

type DocumentHandler struct {
	queue      *service.QueueService
	validator  *service.FileValidator
	results    *service.ResultService
	sink       notify.Sink
	uploadCfg  config.UploadConfig
	confidence float64
}

func NewDocumentHandler(queue *service.QueueService, validator *service.FileValidator, results *service.ResultService, sink notify.Sink, uploadCfg config.UploadConfig, confidence float64) *DocumentHandler {
	if sink == nil {
		sink = notify.NopSink{}
	}
	return &DocumentHandler{
		queue:      queue,
		validator:  validator,
		results:    results,
		sink:       sink,
		uploadCfg:  uploadCfg,
		confidence: confidence,
	}
}

// Upload handles POST /api/documents. Drag-and-drop surfaces and file
// pickers both post multipart batches here; each file is validated on its
// own and a rejection never fails the rest of the batch.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.ValidationError(c, "Expecting multipart form upload", nil)
	}

	files := form.File["files"]
	if len(files) == 0 {
		// Single-file pickers post one "file" part.
		files = form.File["file"]
	}
	if len(files) == 0 {
		return response.ValidationError(c, "At least one file is required", nil)
	}
	if len(files) > h.uploadCfg.MaxBatchFiles {
		return response.ValidationError(c,
			fmt.Sprintf("Maximum %d files per batch", h.uploadCfg.MaxBatchFiles),
			map[string]interface{}{"maxFiles": h.uploadCfg.MaxBatchFiles, "got": len(files)})
	}

	resp := model.BatchUploadResponse{
		BatchID:    uuid.New().String(),
		TotalFiles: len(files),
	}
	var accepted []*model.Document
	for _, fh := range files {
		if err := h.validator.Validate(fh.Filename, fh.Size); err != nil {
			h.sink.Notify("Upload rejected",
				fmt.Sprintf("%s: %s", fh.Filename, err.Error()), model.SeverityWarning)
			resp.Results = append(resp.Results, model.UploadResult{
				FileName: fh.Filename,
				Status:   "rejected",
				Error:    err.Error(),
			})
			resp.FailedFiles++
			continue
		}
		doc := model.NewDocument(fh.Filename, fh.Size)
		accepted = append(accepted, doc)
		resp.Results = append(resp.Results, model.UploadResult{
			FileName:   fh.Filename,
			DocumentID: doc.ID,
			Status:     "queued",
		})
		resp.QueuedFiles++
	}

	h.queue.Append(accepted)
	return response.Created(c, resp)
}

// List handles GET /api/documents
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	docs := h.queue.Snapshot()
	return response.OK(c, fiber.Map{
		"documents": docs,
		"count":     len(docs),
	})
}

// Get handles GET /api/documents/:id
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	doc, ok := h.queue.Get(c.Params("id"))
	if !ok {
		return response.NotFound(c, "Document not found")
	}
	return response.OK(c, doc)
}

// Remove handles DELETE /api/documents/:id. Removing an unknown ID still
// returns 204; the operation is idempotent.
func (h *DocumentHandler) Remove(c *fiber.Ctx) error {
	h.queue.Remove(c.Params("id"))
	return response.NoContent(c)
}

// Clear handles DELETE /api/documents
func (h *DocumentHandler) Clear(c *fiber.Ctx) error {
	h.queue.Clear()
	return response.NoContent(c)
}

// Result handles GET /api/documents/:id/result
func (h *DocumentHandler) Result(c *fiber.Ctx) error {
	doc, ok := h.queue.Get(c.Params("id"))
	if !ok {
		return response.NotFound(c, "Document not found")
	}
	if doc.Status != model.StatusCompleted {
		return response.NotReady(c, "Document has not finished processing")
	}
	return response.OK(c, h.results.Build(doc, h.confidence))
}
