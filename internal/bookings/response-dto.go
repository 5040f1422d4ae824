package bookings

type BookingResponse struct {
	BookingID     string   `json:"booking_id"`
	EventID       string   `json:"event_id"`
	UserID        string   `json:"user_id"`
	Seats         []string `json:"seats"`
	BookingDate   string   `json:"booking_date"`
	State         string   `json:"state"`
	PaymentStatus string   `json:"payment_status"`
}

type CancelResponse struct {
	Message     string   `json:"message"`
	BookingID   string   `json:"booking_id"`
	EventID     string   `json:"event_id"`
	UserID      string   `json:"user_id"`
	SeatsFreed  []string `json:"seats_freed"`
	CancelledAt string   `json:"cancelled_at"`
}
