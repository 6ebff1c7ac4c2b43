package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/parsecv/api/internal/middleware"
	"github.com/parsecv/api/internal/model"
	"github.com/parsecv/api/internal/service"
	"github.com/parsecv/api/pkg/response"
)

type PrefsHandler struct {
	prefs     *service.PrefsService
	validator *validator.Validate
}

func NewPrefsHandler(prefs *service.PrefsService, v *validator.Validate) *PrefsHandler {
	return &PrefsHandler{
		prefs:     prefs,
		validator: v,
	}
}

// GetTheme handles GET /api/preferences/theme. Absent entries read as auto.
func (h *PrefsHandler) GetTheme(c *fiber.Ctx) error {
	theme, err := h.prefs.Theme(c.Context(), clientID(c))
	if err != nil {
		return response.ServiceError(c, "Failed to load preferences")
	}
	return response.OK(c, model.ThemeResponse{Theme: theme})
}

// UpdateTheme handles PUT /api/preferences/theme
func (h *PrefsHandler) UpdateTheme(c *fiber.Ctx) error {
	var req model.ThemeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return response.ValidationError(c, "Theme must be one of auto, light, dark",
			map[string]interface{}{"theme": req.Theme})
	}
	if err := h.prefs.SetTheme(c.Context(), clientID(c), req.Theme); err != nil {
		return response.ServiceError(c, "Failed to save preferences")
	}
	return response.OK(c, model.ThemeResponse{Theme: req.Theme})
}

// clientID scopes preferences to the authenticated user, falling back to an
// explicit clientId for unauthenticated deployments.
func clientID(c *fiber.Ctx) string {
	if id := middleware.GetUserID(c); id != "" {
		return id
	}
	return c.Query("clientId", "default")
}
