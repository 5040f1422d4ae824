package seats

import (
	"evently/internal/shared/store"

	"github.com/shopspring/decimal"
)

// Seat states. Transitions between them are enforced by conditional-write
// predicates, never by in-process locks.
const (
	StateAvailable = "available"
	StateHeld      = "held"
	StateBooked    = "booked"
)

const (
	EventSK       = "EVENT"
	HoldingPrefix = "holding-"
)

// HoldTTLSeconds is the fixed lifetime of a seat hold.
const HoldTTLSeconds = 180

// EventSeat is the (event_id, seat_pos) reservation unit. Price is fixed at
// provisioning time from the event's seat-type price map and never mutated.
type EventSeat struct {
	EventID   string
	SeatPos   string
	Row       string
	SeatNum   int
	SeatType  string
	SeatState string
	BookingID string
	HoldingID string
	HoldTTL   int
	Price     decimal.Decimal
	UpdatedAt string
}

// Hold is the (event_id, holding_id) record backing a time-bounded claim
// over a set of seats.
type Hold struct {
	HoldingID string   `json:"holding_id"`
	EventID   string   `json:"event_id"`
	UserID    string   `json:"user_id"`
	Seats     []string `json:"seats"`
	CreatedAt string   `json:"created_at"`
	ExpiresAt string   `json:"expires_at"`
	TTL       int      `json:"ttl"`
}

// NewEventSeatItem builds the store item for a freshly provisioned seat.
func NewEventSeatItem(eventID, seatPos, row string, seatNum int, seatType string, price decimal.Decimal) store.Item {
	return store.Item{
		"pk":         eventID,
		"sk":         seatPos,
		"event_id":   eventID,
		"seat_pos":   seatPos,
		"row":        row,
		"seat_num":   seatNum,
		"seat_type":  seatType,
		"seat_state": StateAvailable,
		"booking_id": nil,
		"holding_id": nil,
		"hold_ttl":   nil,
		"price":      price,
	}
}

func SeatFromItem(item store.Item) EventSeat {
	return EventSeat{
		EventID:   item.String("event_id"),
		SeatPos:   item.String("seat_pos"),
		Row:       item.String("row"),
		SeatNum:   item.Int("seat_num"),
		SeatType:  item.String("seat_type"),
		SeatState: item.String("seat_state"),
		BookingID: item.String("booking_id"),
		HoldingID: item.String("holding_id"),
		HoldTTL:   item.Int("hold_ttl"),
		Price:     item.Decimal("price"),
		UpdatedAt: item.String("updated_at"),
	}
}

func (h *Hold) toItem() store.Item {
	return store.Item{
		"pk":         h.EventID,
		"sk":         h.HoldingID,
		"holding_id": h.HoldingID,
		"event_id":   h.EventID,
		"user_id":    h.UserID,
		"seats":      h.Seats,
		"created_at": h.CreatedAt,
		"expires_at": h.ExpiresAt,
		"ttl":        h.TTL,
	}
}

func HoldFromItem(item store.Item) Hold {
	return Hold{
		HoldingID: item.String("holding_id"),
		EventID:   item.String("event_id"),
		UserID:    item.String("user_id"),
		Seats:     item.StringSlice("seats"),
		CreatedAt: item.String("created_at"),
		ExpiresAt: item.String("expires_at"),
		TTL:       item.Int("ttl"),
	}
}

// IsSeatRow reports whether a partition item is an event-seat row rather
// than the event record, a hold record, or a booking record. Seat rows are
// the only partition items carrying a seat_pos attribute, so any row label
// is legal, including ones that look like timestamps.
func IsSeatRow(item store.Item) bool {
	return item.Has("seat_pos")
}
