package events

import (
	"evently/internal/shared/store"

	"github.com/shopspring/decimal"
)

const eventSK = "EVENT"

// Event is the (event_id, "EVENT") record. The counter fields back the
// analytics aggregator and are only ever touched with atomic ADD updates.
type Event struct {
	EventID        string
	VenueID        string
	Name           string
	StartTime      string
	Duration       int
	Artists        []string
	Tags           []string
	Description    string
	SeatTypePrices map[string]decimal.Decimal
	CreatedAt      string

	HoldAttempts       int
	SuccessfulBookings int
	Cancellations      int
	SeatsSold          int
}

func (e *Event) toItem() store.Item {
	prices := make(map[string]interface{}, len(e.SeatTypePrices))
	for seatType, price := range e.SeatTypePrices {
		prices[seatType] = price
	}
	return store.Item{
		"pk":               e.EventID,
		"sk":               eventSK,
		"event_id":         e.EventID,
		"venue_id":         e.VenueID,
		"name":             e.Name,
		"start_time":       e.StartTime,
		"duration":         e.Duration,
		"artists":          e.Artists,
		"tags":             e.Tags,
		"description":      e.Description,
		"seat_type_prices": prices,
		"created_at":       e.CreatedAt,

		"hold_attempts":       0,
		"successful_bookings": 0,
		"cancellations":       0,
		"seats_sold":          0,
	}
}

func eventFromItem(item store.Item) *Event {
	prices := make(map[string]decimal.Decimal)
	if raw, ok := item["seat_type_prices"].(map[string]interface{}); ok {
		for seatType := range raw {
			prices[seatType] = store.Item(raw).Decimal(seatType)
		}
	}
	return &Event{
		EventID:        item.String("event_id"),
		VenueID:        item.String("venue_id"),
		Name:           item.String("name"),
		StartTime:      item.String("start_time"),
		Duration:       item.Int("duration"),
		Artists:        item.StringSlice("artists"),
		Tags:           item.StringSlice("tags"),
		Description:    item.String("description"),
		SeatTypePrices: prices,
		CreatedAt:      item.String("created_at"),

		HoldAttempts:       item.Int("hold_attempts"),
		SuccessfulBookings: item.Int("successful_bookings"),
		Cancellations:      item.Int("cancellations"),
		SeatsSold:          item.Int("seats_sold"),
	}
}
