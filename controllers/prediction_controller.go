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

// PredictionController handles delay risk requests
type PredictionController struct {
	BaseControllerImpl
}

// NewPredictionController creates a new prediction controller
func (f *ControllerFactory) NewPredictionController(ctx *gin.Context) *PredictionController {
	return &PredictionController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// GetPredictions scores delay risk for every flight in the current
// snapshot, cache-aside through Redis
func (c *PredictionController) GetPredictions() {
	aggregator := c.Container.GetAggregatorService()
	predictor := c.Container.GetPredictorService()
	cache := c.Container.GetRedisService()

	var cached []models.Prediction
	if err := cache.GetPredictions(&cached); err == nil && len(cached) > 0 {
		response.Success(c.Context, gin.H{
			"predictions": cached,
			"count":       len(cached),
			"model":       predictor.GetStats(),
		})
		return
	}

	snap, err := aggregator.GetSnapshot()
	if err != nil {
		response.FailWithError(c.Context, code.ErrFeedUnavailable,
			gin.H{"predictions": []models.Prediction{}}, err)
		return
	}

	flights := make([]models.Flight, 0, len(snap.Arrivals)+len(snap.Departures))
	flights = append(flights, snap.Arrivals...)
	flights = append(flights, snap.Departures...)

	predictions := predictor.PredictBatch(flights, snap.Weather)
	if err := cache.CachePredictions(predictions); err != nil && !errors.Is(err, goredis.Nil) {
		config.Warning("Failed to cache predictions: %v", err)
	}

	response.Success(c.Context, gin.H{
		"predictions": predictions,
		"count":       len(predictions),
		"model":       predictor.GetStats(),
	})
}

// HandlePredictionFunc returns a gin handler dispatching to a prediction
// controller method
func HandlePredictionFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewPredictionController(ctx)

		switch method {
		case "getPredictions":
			controller.GetPredictions()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}
