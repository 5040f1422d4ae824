package analytics

// EventAnalytics is the aggregated view of one event: seat tallies, booking
// tallies, revenue, and rate metrics, all computed at read time from the
// event partition.
type EventAnalytics struct {
	EventID   string `json:"event_id"`
	EventName string `json:"event_name"`
	VenueID   string `json:"venue_id"`
	VenueName string `json:"venue_name"`

	TotalSeats          int     `json:"total_seats"`
	SeatsAvailable      int     `json:"seats_available"`
	SeatsHeld           int     `json:"seats_held"`
	SeatsBooked         int     `json:"seats_booked"`
	SeatsSold           int     `json:"seats_sold"`
	CapacityUtilization float64 `json:"capacity_utilization"`

	TotalBookings      int `json:"total_bookings"`
	SuccessfulBookings int `json:"successful_bookings"`
	CancelledBookings  int `json:"cancelled_bookings"`
	HoldAttempts       int `json:"hold_attempts"`
	FailedHolds        int `json:"failed_holds"`

	RevenueGenerated    float64            `json:"revenue_generated"`
	AverageBookingValue float64            `json:"average_booking_value"`
	RevenueBySeatType   map[string]float64 `json:"revenue_by_seat_type"`

	BookingSuccessRate float64 `json:"booking_success_rate"`
	HoldSuccessRate    float64 `json:"hold_success_rate"`
	CancellationRate   float64 `json:"cancellation_rate"`

	LastBookingTime string   `json:"last_booking_time,omitempty"`
	CreatedAt       string   `json:"created_at"`
	StartTime       string   `json:"start_time"`
	Duration        int      `json:"duration"`
	Artists         []string `json:"artists"`
	Tags            []string `json:"tags"`
}

// SeatAnalytics is one seat row in the per-seat breakdown.
type SeatAnalytics struct {
	SeatPos     string  `json:"seat_pos"`
	Row         string  `json:"row"`
	SeatNum     int     `json:"seat_num"`
	SeatType    string  `json:"seat_type"`
	SeatState   string  `json:"seat_state"`
	Price       float64 `json:"price"`
	BookingID   string  `json:"booking_id,omitempty"`
	HoldingID   string  `json:"holding_id,omitempty"`
	LastUpdated string  `json:"last_updated,omitempty"`
}

// BookingAnalytics is one booking row with its derived amount.
type BookingAnalytics struct {
	BookingID     string   `json:"booking_id"`
	UserID        string   `json:"user_id"`
	Seats         []string `json:"seats"`
	BookingDate   string   `json:"booking_date"`
	State         string   `json:"state"`
	PaymentStatus string   `json:"payment_status"`
	TotalAmount   float64  `json:"total_amount"`
	SeatCount     int      `json:"seat_count"`
}

// SeatAnalyticsQuery filters the per-seat breakdown.
type SeatAnalyticsQuery struct {
	SeatType  string `form:"seat_type"`
	SeatState string `form:"seat_state"`
}

// BookingAnalyticsQuery filters and pages the per-booking breakdown.
type BookingAnalyticsQuery struct {
	State  string `form:"state"`
	Limit  int    `form:"limit,default=100"`
	Offset int    `form:"offset,default=0"`
}
