// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docqa/backend/internal/models"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	service QuestionService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, service QuestionService) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		service: service,
	}
}

// HandleHealth returns server health status and whether the QA model loaded
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	resp := models.HealthResponse{Status: "ok", Version: h.version}
	if h.service != nil {
		resp.ModelAvailable = h.service.ModelAvailable()
		resp.Model = h.service.ModelName()
	}
	return c.JSON(http.StatusOK, resp)
}
