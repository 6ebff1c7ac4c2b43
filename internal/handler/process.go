package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/parsecv/api/internal/model"
	"github.com/parsecv/api/internal/service"
	"github.com/parsecv/api/pkg/response"
)

type ProcessHandler struct {
	parseService *service.ParseService
}

func NewProcessHandler(parseService *service.ParseService) *ProcessHandler {
	return &ProcessHandler{parseService: parseService}
}

// Start handles POST /api/process. Schedules every queued document with a
// staggered start; processing itself is asynchronous to this request.
func (h *ProcessHandler) Start(c *fiber.Ctx) error {
	scheduled, err := h.parseService.ProcessAll(c.Context())
	if err != nil {
		return response.ServiceError(c, "Failed to schedule processing")
	}
	if scheduled == 0 {
		return response.ValidationError(c, "No queued documents to process", nil)
	}
	return response.Accepted(c, model.ProcessStartResponse{
		Scheduled: scheduled,
		Status:    "processing",
	})
}
