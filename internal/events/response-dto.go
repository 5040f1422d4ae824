package events

// EventResponse is the wire shape of one event. Prices are rendered as floats
// on the way out; the stored representation stays fixed-precision.
type EventResponse struct {
	EventID        string             `json:"event_id"`
	VenueID        string             `json:"venue_id"`
	Name           string             `json:"name"`
	StartTime      string             `json:"start_time"`
	Duration       int                `json:"duration"`
	Artists        []string           `json:"artists"`
	Tags           []string           `json:"tags"`
	Description    string             `json:"description"`
	SeatTypePrices map[string]float64 `json:"seat_type_prices"`
	CreatedAt      string             `json:"created_at"`
}

// CreateEventResponse includes how many seats the provisioner materialized.
type CreateEventResponse struct {
	EventResponse
	SeatsCreated int `json:"seats_created"`
}

func toEventResponse(e *Event) EventResponse {
	prices := make(map[string]float64, len(e.SeatTypePrices))
	for seatType, price := range e.SeatTypePrices {
		prices[seatType] = price.InexactFloat64()
	}
	artists := e.Artists
	if artists == nil {
		artists = []string{}
	}
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return EventResponse{
		EventID:        e.EventID,
		VenueID:        e.VenueID,
		Name:           e.Name,
		StartTime:      e.StartTime,
		Duration:       e.Duration,
		Artists:        artists,
		Tags:           tags,
		Description:    e.Description,
		SeatTypePrices: prices,
		CreatedAt:      e.CreatedAt,
	}
}
