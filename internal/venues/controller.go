package venues

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

func (c *Controller) CreateVenue(ctx *gin.Context) {
	var req CreateVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	venue, err := c.service.CreateVenue(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue created successfully", venue, nil)
}

func (c *Controller) GetVenues(ctx *gin.Context) {
	var filters VenueFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	venues, err := c.service.GetVenues(ctx.Request.Context(), filters)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venues retrieved successfully", venues, nil)
}

func (c *Controller) GetVenue(ctx *gin.Context) {
	venueID := ctx.Param("venue_id")

	venue, err := c.service.GetVenueByID(ctx.Request.Context(), venueID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue retrieved successfully", venue, nil)
}

func (c *Controller) DeleteVenue(ctx *gin.Context) {
	venueID := ctx.Param("venue_id")

	if err := c.service.DeleteVenue(ctx.Request.Context(), venueID); err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue deleted successfully",
		DeleteVenueResponse{Message: "Venue " + venueID + " deleted successfully"}, nil)
}

func (c *Controller) CreateSeats(ctx *gin.Context) {
	venueID := ctx.Param("venue_id")

	var req CreateSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	seats, err := c.service.CreateSeats(ctx.Request.Context(), venueID, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats created successfully", seats, nil)
}

func (c *Controller) GetSeats(ctx *gin.Context) {
	venueID := ctx.Param("venue_id")

	seats, err := c.service.GetSeatsByVenueID(ctx.Request.Context(), venueID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats retrieved successfully", seats, nil)
}
