package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/parsecv/api/internal/model"
	"github.com/parsecv/api/internal/service"
	"github.com/parsecv/api/pkg/response"
)

type AnalyticsHandler struct {
	queue *service.QueueService
}

func NewAnalyticsHandler(queue *service.QueueService) *AnalyticsHandler {
	return &AnalyticsHandler{queue: queue}
}

// Summary handles GET /api/analytics/summary. Aside from the live queue
// counters, the aggregates are the fixed demo figures shown on the dashboard.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	var pending, processing int
	for _, doc := range h.queue.Snapshot() {
		switch doc.Status {
		case model.StatusQueued:
			pending++
		case model.StatusProcessing:
			processing++
		}
	}

	return response.OK(c, fiber.Map{
		"totalResumes":       1247,
		"successfulParses":   1189,
		"failedParses":       58,
		"successRate":        95.3,
		"avgProcessingTime":  32.5,
		"avgConfidenceScore": 0.88,
		"fileTypes": fiber.Map{
			"pdf":  892,
			"docx": 298,
			"txt":  57,
		},
		"topSkills": []fiber.Map{
			{"skill": "Python", "count": 423},
			{"skill": "JavaScript", "count": 387},
			{"skill": "AWS", "count": 298},
			{"skill": "React", "count": 267},
			{"skill": "Docker", "count": 198},
		},
		"processingQueue": fiber.Map{
			"pending":    pending,
			"processing": processing,
		},
		"generatedAt": time.Now().UTC(),
	})
}
