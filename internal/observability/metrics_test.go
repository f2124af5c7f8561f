package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/member-service/internal/config"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/account/login", "POST", 200, 10*time.Millisecond)
	m.RecordRequest("/account/login", "POST", 200, 30*time.Millisecond)
	m.RecordError("/account/login", "POST", "INVALID_CREDENTIALS")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/account/login|POST|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMilli["/account/login|POST|200"])
	assert.Equal(t, int64(1), snap.Errors["/account/login|POST|INVALID_CREDENTIALS"])

	var nilMetrics *Metrics
	nilMetrics.RecordRequest("/x", "GET", 200, time.Millisecond)
	assert.Empty(t, nilMetrics.Snapshot().Requests)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))

	assert.Equal(t, int64(2), m.Snapshot().Requests["/ping|GET|200"])
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "not-a-level"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
