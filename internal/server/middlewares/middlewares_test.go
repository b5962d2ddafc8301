package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/city-weather/pkg/telemetry"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequestIDMiddleware(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestIDMiddleware())
	engine.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/id", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(engine, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
	w = serve(engine, req)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := NewMetricsMiddleware()

	engine := gin.New()
	engine.Use(metrics.Handler())
	engine.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(engine, httptest.NewRequest(http.MethodGet, "/ok", nil))
	serve(engine, httptest.NewRequest(http.MethodGet, "/ok", nil))
	serve(engine, httptest.NewRequest(http.MethodGet, "/missing", nil))

	stats := metrics.Snapshot()
	assert.Equal(t, int64(2), stats.RequestsTotal["GET /ok_200"])
	assert.Equal(t, int64(1), stats.RequestsTotal["GET unmatched_404"])
	assert.Equal(t, int64(0), stats.ActiveRequests)
	assert.GreaterOrEqual(t, stats.AvgDurationSeconds, 0.0)
}

func TestLoggingMiddleware_SkipsHealthyProbes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	engine := gin.New()
	engine.Use(RequestIDMiddleware())
	engine.Use(LoggingMiddleware(zap.New(core), "/health"))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/weather", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(engine, httptest.NewRequest(http.MethodGet, "/health", nil))
	serve(engine, httptest.NewRequest(http.MethodGet, "/weather?city=x", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/weather?city=x", fields["path"])
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRecoveryMiddleware(t *testing.T) {
	engine := gin.New()
	engine.Use(RecoveryMiddleware(zaptest.NewLogger(t), false))
	engine.Use(TelemetryMiddleware(zaptest.NewLogger(t), telemetry.Disabled()))
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"INTERNAL"}`, w.Body.String())
}

func TestMetricsMiddleware_PanicReleasesActiveRequest(t *testing.T) {
	metrics := NewMetricsMiddleware()

	engine := gin.New()
	engine.Use(RecoveryMiddleware(zaptest.NewLogger(t), false))
	engine.Use(metrics.Handler())
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	for i := 0; i < 3; i++ {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}

	assert.Equal(t, int64(0), metrics.Snapshot().ActiveRequests)
}
