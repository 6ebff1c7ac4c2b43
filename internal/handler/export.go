package handler

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/parsecv/api/internal/model"
	"github.com/parsecv/api/internal/notify"
	"github.com/parsecv/api/internal/service"
	"github.com/parsecv/api/pkg/response"
)

type ExportHandler struct {
	queue      *service.QueueService
	results    *service.ResultService
	exporter   *service.ExportService
	sink       notify.Sink
	confidence float64
}

func NewExportHandler(queue *service.QueueService, results *service.ResultService, exporter *service.ExportService, sink notify.Sink, confidence float64) *ExportHandler {
	if sink == nil {
		sink = notify.NopSink{}
	}
	return &ExportHandler{
		queue:      queue,
		results:    results,
		exporter:   exporter,
		sink:       sink,
		confidence: confidence,
	}
}

// Export handles GET /api/documents/:id/export?format=json|csv
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	doc, ok := h.queue.Get(c.Params("id"))
	if !ok {
		return response.NotFound(c, "Document not found")
	}
	if doc.Status != model.StatusCompleted {
		return response.NotReady(c, "Document has not finished processing")
	}

	format := model.ExportFormat(strings.ToLower(c.Query("format", string(model.FormatJSON))))
	if format != model.FormatJSON && format != model.FormatCSV {
		return response.ValidationError(c, "Format must be json or csv",
			map[string]interface{}{"format": format})
	}

	record := h.results.Build(doc, h.confidence)
	text, contentType, err := h.exporter.Serialize(record, format)
	if err != nil {
		return response.ServiceError(c, "Export failed")
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", exportFileName(doc.Name, format)))
	h.sink.Notify("Export ready",
		fmt.Sprintf("%s exported as %s", doc.Name, strings.ToUpper(string(format))),
		model.SeveritySuccess)
	return c.SendString(text)
}

func exportFileName(name string, format model.ExportFormat) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name + "_parsed." + string(format)
}
