package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nostalgic/widgets/internal/session"
	"github.com/nostalgic/widgets/pkg/cache"
)

// HealthHandler reports process and Redis health
type HealthHandler struct {
	store    cache.Service
	registry *session.Registry
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store cache.Service, registry *session.Registry) *HealthHandler {
	if store == nil {
		store = cache.NewService(nil)
	}
	return &HealthHandler{store: store, registry: registry}
}

// Healthz handles GET /healthz. Redis is optional, so its absence is reported
// without failing the check.
func (h *HealthHandler) Healthz(c *gin.Context) {
	redisStatus := "disabled"
	if h.store.IsAvailable() {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		redisStatus = "ok"
		if err := h.store.Ping(ctx); err != nil {
			redisStatus = "unreachable"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "nostalgic-widgets",
		"time":      time.Now().Unix(),
		"redis":     redisStatus,
		"instances": h.registry.Len(),
	})
}
