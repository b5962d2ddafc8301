package middlewares

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const maxRecordedDurations = 1000

// HTTPStats is a point-in-time copy of the HTTP metrics.
type HTTPStats struct {
	RequestsTotal      map[string]int64
	AvgDurationSeconds float64
	ActiveRequests     int64
}

type MetricsMiddleware struct {
	mutex            sync.RWMutex
	requestsTotal    map[string]int64
	requestDurations []float64
	activeRequests   int64
}

func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{
		requestsTotal:    make(map[string]int64),
		requestDurations: make([]float64, 0, maxRecordedDurations),
	}
}

func (m *MetricsMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.mutex.Lock()
		m.activeRequests++
		m.mutex.Unlock()

		defer func() {
			m.mutex.Lock()
			m.activeRequests--
			m.mutex.Unlock()
		}()

		c.Next()

		duration := time.Since(start).Seconds()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		key := c.Request.Method + " " + route + "_" + strconv.Itoa(c.Writer.Status())

		m.mutex.Lock()
		m.requestsTotal[key]++
		m.requestDurations = append(m.requestDurations, duration)

		// Keep only the most recent durations.
		if len(m.requestDurations) > maxRecordedDurations {
			m.requestDurations = m.requestDurations[len(m.requestDurations)-maxRecordedDurations:]
		}
		m.mutex.Unlock()
	}
}

func (m *MetricsMiddleware) Snapshot() HTTPStats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	stats := HTTPStats{
		RequestsTotal:  make(map[string]int64, len(m.requestsTotal)),
		ActiveRequests: m.activeRequests,
	}
	for k, v := range m.requestsTotal {
		stats.RequestsTotal[k] = v
	}

	if len(m.requestDurations) > 0 {
		sum := 0.0
		for _, d := range m.requestDurations {
			sum += d
		}
		stats.AvgDurationSeconds = sum / float64(len(m.requestDurations))
	}

	return stats
}
