package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/code"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/response"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/services/container"
)

// AirportController handles airport facility requests
type AirportController struct {
	BaseControllerImpl
}

// NewAirportController creates a new airport controller
func (f *ControllerFactory) NewAirportController(ctx *gin.Context) *AirportController {
	return &AirportController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// GetInfo returns the static facility record
func (c *AirportController) GetInfo() {
	response.Success(c.Context, c.Container.GetAirportService().GetAirportInfo())
}

// GetNASStatus proxies the FAA national airspace status feed
func (c *AirportController) GetNASStatus() {
	status, err := c.Container.GetAirportService().GetNASStatus()
	if err != nil {
		response.FailWithError(c.Context, code.ErrNASStatusUnavailable, nil, err)
		return
	}
	response.Success(c.Context, status)
}

// GetStatistics returns traffic statistics, either for today or for a
// date range when start and end query parameters are given
func (c *AirportController) GetStatistics() {
	start := c.Context.Query("start")
	end := c.Context.Query("end")

	if start != "" && end != "" {
		stats, err := c.Container.GetHistoryService().GetDateRangeStats(start, end)
		if err != nil {
			response.FailWithError(c.Context, code.ErrInvalidDateRange, nil, err)
			return
		}
		response.Success(c.Context, stats)
		return
	}

	stats, err := c.Container.GetAirportService().GetStatistics()
	if err != nil {
		response.FailWithError(c.Context, code.ErrDatabase, nil, err)
		return
	}
	response.Success(c.Context, stats)
}

// HandleAirportFunc returns a gin handler dispatching to an airport
// controller method
func HandleAirportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewAirportController(ctx)

		switch method {
		case "getInfo":
			controller.GetInfo()
		case "getNASStatus":
			controller.GetNASStatus()
		case "getStatistics":
			controller.GetStatistics()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}
