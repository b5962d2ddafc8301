package handlers

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/city-weather/internal/server/middlewares"
)

// AppMetrics holds application-level metrics: lookup outcomes and provider calls.
type AppMetrics struct {
	mutex         sync.RWMutex
	lookups       map[string]int64
	providerCalls map[string]int64
	staleResults  int64
}

// HTTPMetricsProvider exposes the HTTP request metrics collected by middleware.
type HTTPMetricsProvider interface {
	Snapshot() middlewares.HTTPStats
}

type MetricsHandler struct {
	appMetrics *AppMetrics
	http       HTTPMetricsProvider
}

func NewMetricsHandler(httpMetrics HTTPMetricsProvider) *MetricsHandler {
	return &MetricsHandler{
		appMetrics: &AppMetrics{
			lookups:       make(map[string]int64),
			providerCalls: make(map[string]int64),
		},
		http: httpMetrics,
	}
}

// RecordLookup records a session search outcome ("success" or an error kind)
func (h *MetricsHandler) RecordLookup(ctx context.Context, outcome string) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.lookups[outcome]++
	h.appMetrics.mutex.Unlock()
}

// RecordStaleResult records a search result discarded because a newer search was issued
func (h *MetricsHandler) RecordStaleResult(ctx context.Context) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.staleResults++
	h.appMetrics.mutex.Unlock()
}

// RecordWeatherServiceCall records an outbound provider call by HTTP status
func (h *MetricsHandler) RecordWeatherServiceCall(ctx context.Context, service string, statusCode int) {
	key := fmt.Sprintf(`service="%s",code="%d"`, service, statusCode)

	h.appMetrics.mutex.Lock()
	h.appMetrics.providerCalls[key]++
	h.appMetrics.mutex.Unlock()
}

// ServeMetrics exposes metrics in Prometheus text format
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.http != nil {
		stats := h.http.Snapshot()

		writeHeader(&b, "http_requests_total", "Total number of HTTP requests", "counter")
		for _, key := range sortedKeys(stats.RequestsTotal) {
			fmt.Fprintf(&b, "http_requests_total{route_status=%q} %d\n", key, stats.RequestsTotal[key])
		}

		writeHeader(&b, "http_request_duration_seconds_avg", "Average duration of HTTP requests", "gauge")
		b.WriteString("http_request_duration_seconds_avg " + strconv.FormatFloat(stats.AvgDurationSeconds, 'f', 6, 64) + "\n")

		writeHeader(&b, "http_active_requests", "Number of active HTTP requests", "gauge")
		b.WriteString("http_active_requests " + strconv.FormatInt(stats.ActiveRequests, 10) + "\n")
	}

	h.appMetrics.mutex.RLock()

	writeHeader(&b, "weather_lookups_total", "Session searches by outcome", "counter")
	for _, outcome := range sortedKeys(h.appMetrics.lookups) {
		fmt.Fprintf(&b, "weather_lookups_total{outcome=%q} %d\n", outcome, h.appMetrics.lookups[outcome])
	}

	writeHeader(&b, "weather_provider_calls_total", "Outbound weather provider calls", "counter")
	for _, key := range sortedKeys(h.appMetrics.providerCalls) {
		fmt.Fprintf(&b, "weather_provider_calls_total{%s} %d\n", key, h.appMetrics.providerCalls[key])
	}

	writeHeader(&b, "weather_stale_results_total", "Search results discarded in favour of a newer search", "counter")
	b.WriteString("weather_stale_results_total " + strconv.FormatInt(h.appMetrics.staleResults, 10) + "\n")

	h.appMetrics.mutex.RUnlock()

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, b.String())
}

func writeHeader(b *strings.Builder, name, help, kind string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
