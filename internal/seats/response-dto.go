package seats

type HoldResponse struct {
	HoldingID string   `json:"holding_id"`
	SeatsHeld []string `json:"seats_held"`
	HoldTTL   int      `json:"hold_ttl"`
	ExpiresAt string   `json:"expires_at"`
}

// SeatResponse is the wire shape of one seat in the event seat listing.
// Optional fields are omitted when the seat is available.
type SeatResponse struct {
	SeatPos   string  `json:"seat_pos"`
	Row       string  `json:"row"`
	SeatNum   int     `json:"seat_num"`
	SeatType  string  `json:"seat_type"`
	SeatState string  `json:"seat_state"`
	BookingID string  `json:"booking_id,omitempty"`
	HoldingID string  `json:"holding_id,omitempty"`
	HoldTTL   int     `json:"hold_ttl,omitempty"`
	Price     float64 `json:"price"`
}

func toSeatResponse(s EventSeat) SeatResponse {
	return SeatResponse{
		SeatPos:   s.SeatPos,
		Row:       s.Row,
		SeatNum:   s.SeatNum,
		SeatType:  s.SeatType,
		SeatState: s.SeatState,
		BookingID: s.BookingID,
		HoldingID: s.HoldingID,
		HoldTTL:   s.HoldTTL,
		Price:     s.Price.InexactFloat64(),
	}
}
