package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/anupgautam23/oms-frontend/internal/observability"
)

// MetricsHandler serves the counters snapshot.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Snapshot handles GET /metrics.
func (h *MetricsHandler) Snapshot(c *fiber.Ctx) error {
	return respond(c, http.StatusOK, h.metrics.Snapshot())
}
