package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/code"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/response"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/services/container"
)

// FlightController handles flight feed requests
type FlightController struct {
	BaseControllerImpl
}

// NewFlightController creates a new flight controller
func (f *ControllerFactory) NewFlightController(ctx *gin.Context) *FlightController {
	return &FlightController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// GetFlights returns the current aggregated snapshot
func (c *FlightController) GetFlights() {
	aggregator := c.Container.GetAggregatorService()

	snap, err := aggregator.GetSnapshot()
	if err != nil {
		response.FailWithError(c.Context, code.ErrFeedUnavailable, emptySnapshot(), err)
		return
	}
	response.Success(c.Context, snap)
}

// GetAllFlights returns all flights with counts, sources and timestamp
func (c *FlightController) GetAllFlights() {
	aggregator := c.Container.GetAggregatorService()

	snap, err := aggregator.GetSnapshot()
	if err != nil {
		response.FailWithError(c.Context, code.ErrFeedUnavailable, gin.H{
			"flights": []models.Flight{},
			"count":   0,
		}, err)
		return
	}

	flights := make([]models.Flight, 0, len(snap.Arrivals)+len(snap.Departures))
	flights = append(flights, snap.Arrivals...)
	flights = append(flights, snap.Departures...)

	response.Success(c.Context, gin.H{
		"flights":   flights,
		"count":     len(flights),
		"sources":   snap.Sources,
		"timestamp": snap.FetchedAt.Format(time.RFC3339),
	})
}

// GetOpenSkyFlights returns raw OpenSky radar contacts
func (c *FlightController) GetOpenSkyFlights() {
	flights, err := c.Container.GetOpenSkyService().FetchFlights()
	if err != nil {
		response.FailWithError(c.Context, code.ErrFeedUnavailable, []models.Flight{}, err)
		return
	}
	response.Success(c.Context, gin.H{
		"flights": flights,
		"count":   len(flights),
		"source":  "OpenSky",
	})
}

// GetRadarFlights returns raw Flightradar24 contacts
func (c *FlightController) GetRadarFlights() {
	flights, err := c.Container.GetRadarService().FetchFlights()
	if err != nil {
		response.FailWithError(c.Context, code.ErrFeedUnavailable, []models.Flight{}, err)
		return
	}
	response.Success(c.Context, gin.H{
		"flights": flights,
		"count":   len(flights),
		"source":  "Flightradar24",
	})
}

// GetBoard returns the arrival/departure board rows
func (c *FlightController) GetBoard() {
	rows, err := c.Container.GetBoardService().FetchBoard()
	if err != nil {
		response.FailWithError(c.Context, code.ErrFeedUnavailable, gin.H{
			"arrivals":   []models.Flight{},
			"departures": []models.Flight{},
		}, err)
		return
	}
	response.Success(c.Context, rows)
}

func emptySnapshot() gin.H {
	return gin.H{
		"arrivals":   []models.Flight{},
		"departures": []models.Flight{},
		"live":       []models.Flight{},
	}
}

// HandleFlightFunc returns a gin handler dispatching to a flight
// controller method
func HandleFlightFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewFlightController(ctx)

		switch method {
		case "getFlights":
			controller.GetFlights()
		case "getAllFlights":
			controller.GetAllFlights()
		case "getOpenSky":
			controller.GetOpenSkyFlights()
		case "getRadar":
			controller.GetRadarFlights()
		case "getBoard":
			controller.GetBoard()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}
