package venues

type CreateVenueRequest struct {
	Name        string   `json:"name" binding:"required"`
	City        string   `json:"city" binding:"required"`
	Description string   `json:"description"`
	SeatTypes   []string `json:"seat_types" binding:"required,min=1"`
}

type SeatInput struct {
	Row      string `json:"row" binding:"required"`
	SeatNum  int    `json:"seat_num" binding:"required,min=1"`
	SeatType string `json:"seat_type" binding:"required"`
}

type CreateSeatsRequest struct {
	Seats []SeatInput `json:"seats" binding:"required,min=1,dive"`
}

type VenueFilters struct {
	City string `form:"city"`
}
