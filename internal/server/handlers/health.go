package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/city-weather/internal/service"
)

type HealthHandler struct {
	service   service.WeatherService
	startTime time.Time
}

func NewHealthHandler(svc service.WeatherService) *HealthHandler {
	return &HealthHandler{
		service:   svc,
		startTime: time.Now(),
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

// Readiness reports unavailable while no usable API key is configured.
func (h *HealthHandler) Readiness(c *gin.Context) {
	// Any non-blank city passes the query check, leaving only the credential.
	if err := h.service.Validate("readiness"); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:   "unavailable",
			Uptime:   time.Since(h.startTime).String(),
			Provider: h.service.Name(),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ready",
		Uptime:   time.Since(h.startTime).String(),
		Provider: h.service.Name(),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
