package bookings

import (
	"evently/internal/shared/store"
)

// Booking lifecycle states.
const (
	StateConfirmed = "confirmed"
	StateCancelled = "cancelled"
)

// Accepted payment outcomes on confirm.
const (
	PaymentSuccessful = "successful"
	PaymentFailed     = "failed"
)

// Booking is the (event_id, booking_date) record created when a hold is
// promoted. The ISO timestamp sort key keeps a partition's bookings in
// chronological order.
type Booking struct {
	BookingID     string
	EventID       string
	UserID        string
	Seats         []string
	BookingDate   string
	State         string
	PaymentStatus string
	CancelledAt   string
	SK            string
}

func BookingFromItem(item store.Item) Booking {
	return Booking{
		BookingID:     item.String("booking_id"),
		EventID:       item.String("event_id"),
		UserID:        item.String("user_id"),
		Seats:         item.StringSlice("seats"),
		BookingDate:   item.String("booking_date"),
		State:         item.String("state"),
		PaymentStatus: item.String("payment_status"),
		CancelledAt:   item.String("cancelled_at"),
		SK:            item.SK(),
	}
}

// NewBookingPutOp writes the booking record. The booking_id absence predicate
// blocks a replayed confirm from minting a duplicate record at the same
// timestamp.
func NewBookingPutOp(b *Booking) store.WriteOp {
	return store.WriteOp{Put: &store.PutOp{
		Item: store.Item{
			"pk":             b.EventID,
			"sk":             b.SK,
			"booking_id":     b.BookingID,
			"event_id":       b.EventID,
			"user_id":        b.UserID,
			"seats":          b.Seats,
			"booking_date":   b.BookingDate,
			"state":          b.State,
			"payment_status": b.PaymentStatus,
		},
		Condition: &store.Condition{
			NotExists: []string{"booking_id"},
		},
	}}
}

// CancelBookingOp flips the booking record confirmed -> cancelled. The state
// predicate makes a second cancel of the same booking fail the transaction.
func CancelBookingOp(eventID, bookingSK, bookingID, nowISO string) store.WriteOp {
	return store.WriteOp{Update: &store.UpdateOp{
		PK: eventID,
		SK: bookingSK,
		Update: store.Update{Set: map[string]interface{}{
			"state":        StateCancelled,
			"cancelled_at": nowISO,
		}},
		Condition: &store.Condition{
			Equals: map[string]interface{}{
				"booking_id": bookingID,
				"state":      StateConfirmed,
			},
		},
	}}
}
