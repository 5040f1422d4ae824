package seats

import (
	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	events := rg.Group("/events")
	{
		events.POST("/:event_id/hold", controller.HoldSeats)     // POST /events/:event_id/hold
		events.GET("/:event_id/seats", controller.GetEventSeats) // GET /events/:event_id/seats
	}
}
