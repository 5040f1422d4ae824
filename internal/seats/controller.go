package seats

import (
	"net/http"

	"evently/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) HoldSeats(ctx *gin.Context) {
	eventID := ctx.Param("event_id")

	var req HoldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	hold, err := c.service.HoldSeats(ctx.Request.Context(), eventID, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats held successfully", hold, nil)
}

func (c *Controller) GetEventSeats(ctx *gin.Context) {
	eventID := ctx.Param("event_id")

	seats, err := c.service.GetEventSeats(ctx.Request.Context(), eventID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats retrieved successfully", seats, nil)
}
