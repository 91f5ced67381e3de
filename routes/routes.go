package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/controllers"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/middleware"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/services/container"
)

// SetupRouter initializes the router and returns it together with the
// service container so the caller can close services on shutdown
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, *container.ServiceContainer) {
	r := gin.Default()

	// CORS middleware; the dashboard polls from a different origin
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// Force UTF-8 JSON content type
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})

	serviceContainer := container.NewServiceContainer(db, cfg)

	registerRoutes(r, serviceContainer)
	return r, serviceContainer
}

// registerRoutes configures all API routes
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	api := r.Group("/api")
	api.Use(middleware.RateLimiter())

	// Liveness
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))

	// Flight feeds
	api.GET("/flights", controllers.HandleFlightFunc(container, "getFlights"))
	api.GET("/flights/all", controllers.HandleFlightFunc(container, "getAllFlights"))
	api.GET("/flights/opensky", controllers.HandleFlightFunc(container, "getOpenSky"))
	api.GET("/flights/radar", controllers.HandleFlightFunc(container, "getRadar"))
	api.GET("/flights/board", controllers.HandleFlightFunc(container, "getBoard"))

	// Flight history
	api.GET("/flights/history", controllers.HandleHistoryFunc(container, "getToday"))
	api.GET("/flights/history/range", controllers.HandleHistoryFunc(container, "getRange"))

	// Weather
	api.GET("/weather", controllers.HandleWeatherFunc(container, "getWeather"))

	// Delay predictions
	api.GET("/predictions", controllers.HandlePredictionFunc(container, "getPredictions"))

	// Airport facility; the record never changes and the FAA feed is slow
	api.GET("/airport/info", middleware.Cache(1*time.Hour),
		controllers.HandleAirportFunc(container, "getInfo"))
	api.GET("/airport/nas-status", middleware.Cache(1*time.Minute),
		controllers.HandleAirportFunc(container, "getNASStatus"))
	api.GET("/statistics", controllers.HandleAirportFunc(container, "getStatistics"))

	// Operations log
	api.GET("/operations/today", controllers.HandleOperationsFunc(container, "getToday"))
	api.GET("/operations/date/:date", controllers.HandleOperationsFunc(container, "getByDate"))
	api.GET("/operations/recent/:hours", controllers.HandleOperationsFunc(container, "getRecent"))

	// Health and cache
	api.GET("/health", controllers.HandleHealthFunc(container, "getHealth"))
	api.GET("/cache/stats", controllers.HandleHealthFunc(container, "getCacheStats"))

	// Backups
	api.GET("/backups", controllers.HandleBackupFunc(container, "listBackups"))
	api.POST("/backups", controllers.HandleBackupFunc(container, "createBackup"))
	api.POST("/backups/prune", controllers.HandleBackupFunc(container, "pruneBackups"))
}
