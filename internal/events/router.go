package events

import (
	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(rg *gin.RouterGroup, controller *Controller) {
	events := rg.Group("/events")
	{
		events.POST("", controller.CreateEvent)           // POST /events
		events.GET("", controller.GetEvents)              // GET /events
		events.GET("/:event_id", controller.GetEventByID) // GET /events/:event_id
	}
}
