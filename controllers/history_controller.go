package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/code"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/response"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/services/container"
)

// HistoryController handles flight history requests
type HistoryController struct {
	BaseControllerImpl
}

// NewHistoryController creates a new history controller
func (f *ControllerFactory) NewHistoryController(ctx *gin.Context) *HistoryController {
	return &HistoryController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// GetTodaysHistory returns today's recorded flights with summary stats
func (c *HistoryController) GetTodaysHistory() {
	history := c.Container.GetHistoryService()

	arrivals, departures, err := history.GetTodaysFlights()
	if err != nil {
		response.FailWithError(c.Context, code.ErrDatabase, nil, err)
		return
	}
	stats, err := history.GetFlightStats()
	if err != nil {
		response.FailWithError(c.Context, code.ErrDatabase, nil, err)
		return
	}

	response.Success(c.Context, gin.H{
		"arrivals":   arrivals,
		"departures": departures,
		"stats":      stats,
	})
}

// GetHistoryRange returns flights and stats for a date range
func (c *HistoryController) GetHistoryRange() {
	start := c.Context.Query("start")
	end := c.Context.Query("end")
	if start == "" || end == "" {
		response.ParamError(c.Context, "start and end query parameters are required (YYYY-MM-DD)")
		return
	}

	history := c.Container.GetHistoryService()

	flights, err := history.GetFlightsByDateRange(start, end)
	if err != nil {
		response.FailWithError(c.Context, code.ErrInvalidDateRange, nil, err)
		return
	}
	stats, err := history.GetDateRangeStats(start, end)
	if err != nil {
		response.FailWithError(c.Context, code.ErrInvalidDateRange, nil, err)
		return
	}

	response.Success(c.Context, gin.H{
		"flights": flights,
		"count":   len(flights),
		"stats":   stats,
	})
}

// HandleHistoryFunc returns a gin handler dispatching to a history
// controller method
func HandleHistoryFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewHistoryController(ctx)

		switch method {
		case "getToday":
			controller.GetTodaysHistory()
		case "getRange":
			controller.GetHistoryRange()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}
