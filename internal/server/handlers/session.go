package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/city-weather/internal/server/utils"
	"github.com/vzahanych/city-weather/internal/session"
	"go.uber.org/zap"
)

type SessionHandler struct {
	session *session.Session
	logger  *zap.Logger
}

func NewSessionHandler(s *session.Session, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		session: s,
		logger:  logger,
	}
}

func (h *SessionHandler) Search(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reqLogger.Warn("Invalid search body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_BODY",
			Details: err.Error(),
		})
		return
	}

	if verrs := utils.ValidateStruct(req); verrs != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_BODY",
			Details: verrs,
		})
		return
	}

	st := h.session.Search(ctx, req.City)
	reqLogger.Info("Session search finished",
		zap.String("city", req.City),
		zap.Stringer("status", st.Status),
		zap.Uint64("generation", st.Generation))

	c.JSON(http.StatusOK, newSessionResponse(st))
}

func (h *SessionHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, newSessionResponse(h.session.State()))
}

func (h *SessionHandler) Reset(c *gin.Context) {
	h.session.Reset()
	c.JSON(http.StatusOK, newSessionResponse(h.session.State()))
}
