package events

// CreateEventRequest provisions an event against an existing venue. The price
// map must cover every seat type the venue declares.
type CreateEventRequest struct {
	VenueID        string             `json:"venue_id" binding:"required"`
	Name           string             `json:"name" binding:"required"`
	StartTime      string             `json:"start_time" binding:"required"`
	Duration       int                `json:"duration" binding:"required,min=1"`
	Artists        []string           `json:"artists"`
	Tags           []string           `json:"tags"`
	Description    string             `json:"description"`
	SeatTypePrices map[string]float64 `json:"seat_type_prices" binding:"required"`
}

// ListEventsQuery carries the discovery filters. All are optional.
type ListEventsQuery struct {
	City      string `form:"city"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Search    string `form:"search"`
	Limit     int    `form:"limit,default=50"`
	Offset    int    `form:"offset,default=0"`
}
