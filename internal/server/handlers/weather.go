package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/city-weather/internal/server/utils"
	"github.com/vzahanych/city-weather/internal/service"
	"go.uber.org/zap"
)

type WeatherHandler struct {
	service service.WeatherService
	logger  *zap.Logger
}

func NewWeatherHandler(svc service.WeatherService, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		service: svc,
		logger:  logger,
	}
}

func (h *WeatherHandler) GetWeather(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	var req WeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	if verrs := utils.ValidateStruct(req); verrs != nil {
		reqLogger.Warn("Request validation failed", zap.Any("errors", verrs))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: verrs,
		})
		return
	}

	reqLogger.Info("Processing weather request", zap.String("city", req.City))

	record, err := h.service.Lookup(ctx, req.City)
	if err != nil {
		lerr := service.AsLookupError(err)
		c.JSON(StatusForKind(lerr.Kind), ErrorResponse{
			Error: lerr.Message(),
			Code:  strings.ToUpper(lerr.Kind.String()),
		})
		return
	}

	c.JSON(http.StatusOK, record)
}

// StatusForKind maps a lookup failure to the HTTP status returned to clients.
func StatusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindEmptyQuery:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindMissingCredential:
		return http.StatusServiceUnavailable
	case service.KindUnauthorized, service.KindProviderError:
		return http.StatusBadGateway
	case service.KindNetworkFailure:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
