package health

import (
	"net/http"
	"runtime"
	"time"

	"mealplan-generator/internal/core/ai/queue"
	"mealplan-generator/internal/infrastructure/config"
	"mealplan-generator/internal/infrastructure/database"
	"mealplan-generator/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the full health report.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
}

// HealthCheck reports version, runtime stats and worker pool status.
func HealthCheck(c *gin.Context) {
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	conf, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   conf.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if p, exists := c.Get("worker_pool"); exists {
		if pool, ok := p.(*queue.Pool); ok {
			response.Queue = pool.GetStatus()
		}
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck verifies the storage dependency answers before reporting
// ready.
func ReadinessCheck(c *gin.Context) {
	if d, exists := c.Get("database"); exists {
		if db, ok := d.(*database.DB); ok {
			if err := db.Ping(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "not ready",
					"reason": "database unreachable",
				})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck reports process liveness.
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
