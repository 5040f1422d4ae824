package analytics

import (
	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller *Controller) {
	events := rg.Group("/events")
	{
		events.GET("/:event_id/analytics", controller.GetEventAnalytics)            // GET /events/:event_id/analytics
		events.GET("/:event_id/seats/analytics", controller.GetSeatAnalytics)       // GET /events/:event_id/seats/analytics
		events.GET("/:event_id/bookings/analytics", controller.GetBookingAnalytics) // GET /events/:event_id/bookings/analytics
	}
}
