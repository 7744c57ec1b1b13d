package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/investsafe/advisor-verify-api/internal/liveverify"
	"github.com/investsafe/advisor-verify-api/internal/services"
)

// HealthChecker is the database health contract
type HealthChecker interface {
	HealthCheck() error
}

// HealthPinger is the cache health contract
type HealthPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health
type HealthHandler struct {
	registry services.RegistryService
	monitor  *liveverify.HealthMonitor
	db       HealthChecker
	cache    HealthPinger
}

// NewHealthHandler creates a new health handler. Database, cache and monitor
// are optional; absent components report as "disabled".
func NewHealthHandler(registry services.RegistryService, monitor *liveverify.HealthMonitor, db HealthChecker, cache HealthPinger) *HealthHandler {
	return &HealthHandler{
		registry: registry,
		monitor:  monitor,
		db:       db,
		cache:    cache,
	}
}

// GetHealth reports overall service health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := http.StatusOK
	components := gin.H{}

	registrySize := h.registry.Size()
	components["registry"] = gin.H{
		"status":  registryState(registrySize),
		"records": registrySize,
	}

	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			components["database"] = gin.H{"status": "unhealthy", "error": err.Error()}
			status = http.StatusServiceUnavailable
		} else {
			components["database"] = gin.H{"status": "healthy"}
		}
	} else {
		components["database"] = gin.H{"status": "disabled"}
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			// a dead cache degrades performance, not correctness
			components["cache"] = gin.H{"status": "unhealthy", "error": err.Error()}
		} else {
			components["cache"] = gin.H{"status": "healthy"}
		}
	} else {
		components["cache"] = gin.H{"status": "disabled"}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":     overall,
		"components": components,
		"checked_at": time.Now().UTC(),
	})
}

// GetLiveVerificationHealth reports the live-verification success rates
func (h *HealthHandler) GetLiveVerificationHealth(c *gin.Context) {
	if h.monitor == nil {
		c.JSON(http.StatusOK, gin.H{"status": "disabled"})
		return
	}
	c.JSON(http.StatusOK, h.monitor.GetHealthStatus())
}

// ResetLiveVerificationHealth clears the live-verification failure counters
func (h *HealthHandler) ResetLiveVerificationHealth(c *gin.Context) {
	if h.monitor == nil {
		c.JSON(http.StatusOK, gin.H{"status": "disabled"})
		return
	}
	h.monitor.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Live verification health counters reset"})
}

func registryState(size int) string {
	if size == 0 {
		return "empty"
	}
	return "loaded"
}
