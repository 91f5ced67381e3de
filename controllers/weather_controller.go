package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/code"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/response"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/services/container"
)

// WeatherController handles weather feed requests
type WeatherController struct {
	BaseControllerImpl
}

// NewWeatherController creates a new weather controller
func (f *ControllerFactory) NewWeatherController(ctx *gin.Context) *WeatherController {
	return &WeatherController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// GetWeather returns current weather snapshots for all tracked airports,
// cache-aside through Redis
func (c *WeatherController) GetWeather() {
	weather := c.Container.GetWeatherService()
	redis := c.Container.GetRedisService()
	history := c.Container.GetHistoryService()

	var cached map[string]*models.WeatherSnapshot
	if err := redis.GetWeather("all", &cached); err == nil && len(cached) > 0 {
		response.Success(c.Context, cached)
		return
	}

	snapshots, err := weather.FetchAllAirports()
	if err != nil {
		response.FailWithError(c.Context, code.ErrWeatherUnavailable,
			map[string]*models.WeatherSnapshot{}, err)
		return
	}

	if err := redis.CacheWeather("all", snapshots); err != nil && !errors.Is(err, goredis.Nil) {
		config.Warning("Failed to cache weather snapshots: %v", err)
	}
	if err := history.SaveWeatherSnapshots(snapshots); err != nil {
		config.Warning("Failed to persist weather snapshots: %v", err)
	}

	response.Success(c.Context, snapshots)
}

// HandleWeatherFunc returns a gin handler dispatching to a weather
// controller method
func HandleWeatherFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewWeatherController(ctx)

		switch method {
		case "getWeather":
			controller.GetWeather()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}
