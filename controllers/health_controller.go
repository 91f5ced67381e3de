package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/response"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/services/container"
)

// HealthController handles health and cache status requests
type HealthController struct {
	BaseControllerImpl
}

// NewHealthController creates a new health controller
func (f *ControllerFactory) NewHealthController(ctx *gin.Context) *HealthController {
	return &HealthController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// Ping answers liveness probes
func (c *HealthController) Ping() {
	response.Success(c.Context, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// GetHealth runs all subsystem probes and returns the rollup
func (c *HealthController) GetHealth() {
	report := c.Container.GetHealthService().CheckAll()
	response.Success(c.Context, report)
}

// GetCacheStats returns Redis cache statistics
func (c *HealthController) GetCacheStats() {
	response.Success(c.Context, c.Container.GetRedisService().Stats())
}

// HandleHealthFunc returns a gin handler dispatching to a health
// controller method
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewHealthController(ctx)

		switch method {
		case "ping":
			controller.Ping()
		case "getHealth":
			controller.GetHealth()
		case "getCacheStats":
			controller.GetCacheStats()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}
