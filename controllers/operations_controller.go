package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/code"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/response"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/services/container"
)

// OperationsController handles operations log requests
type OperationsController struct {
	BaseControllerImpl
}

// NewOperationsController creates a new operations controller
func (f *ControllerFactory) NewOperationsController(ctx *gin.Context) *OperationsController {
	return &OperationsController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// GetToday returns today's operation entries plus the summary rollup
func (c *OperationsController) GetToday() {
	ops := c.Container.GetOperationsService()

	entries, err := ops.GetOperations("", 0)
	if err != nil {
		response.FailWithError(c.Context, code.ErrOperationsLog, nil, err)
		return
	}
	summary, err := ops.GetSummary("")
	if err != nil {
		response.FailWithError(c.Context, code.ErrOperationsLog, nil, err)
		return
	}

	response.Success(c.Context, gin.H{
		"operations": entries,
		"summary":    summary,
	})
}

// GetByDate returns operation entries for one date
func (c *OperationsController) GetByDate() {
	date := c.Context.Param("date")
	if date == "" {
		response.ParamError(c.Context, "date path parameter is required (YYYY-MM-DD)")
		return
	}

	entries, err := c.Container.GetOperationsService().GetOperations(date, 0)
	if err != nil {
		response.FailWithError(c.Context, code.ErrOperationsLog, nil, err)
		return
	}
	response.Success(c.Context, gin.H{
		"date":       date,
		"operations": entries,
		"count":      len(entries),
	})
}

// GetRecent returns operation entries from the last N hours
func (c *OperationsController) GetRecent() {
	hours, err := strconv.Atoi(c.Context.Param("hours"))
	if err != nil || hours <= 0 {
		response.ParamError(c.Context, "hours must be a positive integer")
		return
	}

	entries, err := c.Container.GetOperationsService().GetRecent(hours)
	if err != nil {
		response.FailWithError(c.Context, code.ErrOperationsLog, nil, err)
		return
	}
	response.Success(c.Context, gin.H{
		"hours":      hours,
		"operations": entries,
		"count":      len(entries),
	})
}

// HandleOperationsFunc returns a gin handler dispatching to an operations
// controller method
func HandleOperationsFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewOperationsController(ctx)

		switch method {
		case "getToday":
			controller.GetToday()
		case "getByDate":
			controller.GetByDate()
		case "getRecent":
			controller.GetRecent()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}
