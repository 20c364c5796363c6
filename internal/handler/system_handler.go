package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/service"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/response"
)

// Banner is the body of GET /.
const Banner = "RhythmVerse is running..."

type pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler exposes liveness, readiness and metrics endpoints.
type SystemHandler struct {
	db      pinger
	metrics *service.MetricsService
}

// NewSystemHandler constructs a system handler.
func NewSystemHandler(db pinger, metrics *service.MetricsService) *SystemHandler {
	return &SystemHandler{db: db, metrics: metrics}
}

// Root answers with the service banner.
func (h *SystemHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}

// Health responds with a generic OK payload for liveness checks.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the database answers within two seconds.
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if h.db == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "database not configured"))
		return
	}
	if err := h.db.Ping(ctx); err != nil {
		response.Error(c, appErrors.Wrap(err, "NOT_READY", http.StatusServiceUnavailable, "database unavailable"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *SystemHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
