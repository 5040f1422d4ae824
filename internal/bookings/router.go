package bookings

import (
	"net/http"
	"strings"

	"evently/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes installs the confirm and cancel endpoints. They live at
// the root of the URL space ("/{holding_id}/confirm", "/{booking_id}/cancel"),
// which the router tree cannot express next to the static module prefixes, so
// they are dispatched from the no-route fallback.
func SetupBookingRoutes(engine *gin.Engine, controller *Controller) {
	engine.NoRoute(Dispatch(controller))
}

// Dispatch matches POST /{id}/confirm and POST /{id}/cancel. Anything else
// gets the standard 404 envelope.
func Dispatch(controller *Controller) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodPost {
			parts := strings.Split(strings.Trim(ctx.Request.URL.Path, "/"), "/")
			if len(parts) == 2 && parts[0] != "" {
				ctx.Params = append(ctx.Params, gin.Param{Key: "id", Value: parts[0]})
				switch parts[1] {
				case "confirm":
					controller.ConfirmBooking(ctx)
					return
				case "cancel":
					controller.CancelBooking(ctx)
					return
				}
			}
		}
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Route not found", nil, nil)
	}
}
