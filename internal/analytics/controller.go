package analytics

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

func (c *Controller) GetEventAnalytics(ctx *gin.Context) {
	eventID := ctx.Param("event_id")

	analytics, err := c.service.GetEventAnalytics(ctx.Request.Context(), eventID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Event analytics retrieved successfully", analytics, nil)
}

func (c *Controller) GetSeatAnalytics(ctx *gin.Context) {
	eventID := ctx.Param("event_id")

	var query SeatAnalyticsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	analytics, err := c.service.GetSeatAnalytics(ctx.Request.Context(), eventID, query)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat analytics retrieved successfully", analytics, nil)
}

func (c *Controller) GetBookingAnalytics(ctx *gin.Context) {
	eventID := ctx.Param("event_id")

	var query BookingAnalyticsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	analytics, err := c.service.GetBookingAnalytics(ctx.Request.Context(), eventID, query)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking analytics retrieved successfully", analytics, nil)
}
