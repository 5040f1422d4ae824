package notifications

import "encoding/json"

// BookingEventType identifies a reservation lifecycle transition.
type BookingEventType string

const (
	EventHoldCreated      BookingEventType = "hold.created"
	EventBookingConfirmed BookingEventType = "booking.confirmed"
	EventBookingCancelled BookingEventType = "booking.cancelled"
)

// BookingEvent is the message published after a committed reservation
// transition. Consumers drive e-mails and downstream analytics from it.
type BookingEvent struct {
	Type      BookingEventType `json:"type"`
	EventID   string           `json:"event_id"`
	UserID    string           `json:"user_id"`
	HoldingID string           `json:"holding_id,omitempty"`
	BookingID string           `json:"booking_id,omitempty"`
	Seats     []string         `json:"seats"`
	Timestamp string           `json:"timestamp"`
}

// ToJSON serializes the event for the wire.
func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all messages of one event to the same partition so
// consumers observe transitions for an event in order.
func (e *BookingEvent) PartitionKey() string {
	return e.EventID
}
