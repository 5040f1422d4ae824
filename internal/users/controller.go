package users

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

func (c *Controller) CreateUser(ctx *gin.Context) {
	var req CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	user, err := c.service.CreateUser(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "User created successfully", user, nil)
}

func (c *Controller) GetUser(ctx *gin.Context) {
	userID := ctx.Param("user_id")

	user, err := c.service.GetUserByID(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "User retrieved successfully", user, nil)
}

func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID := ctx.Param("user_id")

	bookings, err := c.service.GetUserBookings(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "User bookings retrieved successfully", bookings, nil)
}
