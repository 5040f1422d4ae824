package bookings

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

func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	holdingID := ctx.Param("id")

	// An absent or malformed body falls through with an empty payment status
	// and fails validation in the service with the canonical message
	var req ConfirmRequest
	_ = ctx.ShouldBindJSON(&req)

	booking, err := c.service.ConfirmBooking(ctx.Request.Context(), holdingID, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking confirmed successfully", booking, nil)
}

func (c *Controller) CancelBooking(ctx *gin.Context) {
	bookingID := ctx.Param("id")

	result, err := c.service.CancelBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, result.Message, result, nil)
}
