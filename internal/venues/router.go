package venues

import (
	"github.com/gin-gonic/gin"
)

func SetupVenueRoutes(rg *gin.RouterGroup, controller *Controller) {
	venues := rg.Group("/venue")
	{
		venues.POST("", controller.CreateVenue)             // POST /venue
		venues.GET("", controller.GetVenues)                // GET /venue?city=
		venues.GET("/:venue_id", controller.GetVenue)       // GET /venue/:venue_id
		venues.DELETE("/:venue_id", controller.DeleteVenue) // DELETE /venue/:venue_id

		venues.POST("/:venue_id/seats", controller.CreateSeats) // POST /venue/:venue_id/seats
		venues.GET("/:venue_id/seats", controller.GetSeats)     // GET /venue/:venue_id/seats
	}
}
