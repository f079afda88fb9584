package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/softwarewrighter/midi-cli/internal/services"
	"github.com/softwarewrighter/midi-cli/internal/store"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	store store.Store
	gen   *services.GenerationService
}

func NewHealthHandler(st store.Store, gen *services.GenerationService) *HealthHandler {
	return &HealthHandler{store: st, gen: gen}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	renderer := "disabled"
	if h.gen.CanRender() {
		renderer = "enabled"
	}

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"store":  gin.H{"status": "down", "error": err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"store":    gin.H{"status": "up"},
		"renderer": gin.H{"status": renderer},
	})
}
