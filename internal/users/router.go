package users

import (
	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(rg *gin.RouterGroup, controller *Controller) {
	users := rg.Group("/user")
	{
		users.POST("", controller.CreateUser)                       // POST /user
		users.GET("/:user_id", controller.GetUser)                  // GET /user/:user_id
		users.GET("/:user_id/bookings", controller.GetUserBookings) // GET /user/:user_id/bookings
	}
}
