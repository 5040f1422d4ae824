package notifications

import (
	"context"
	"encoding/json"
	"testing"

	"evently/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingEventSerialization(t *testing.T) {
	event := &BookingEvent{
		Type:      EventBookingConfirmed,
		EventID:   "event-1",
		UserID:    "user-1",
		HoldingID: "holding-abc",
		BookingID: "booking-xyz",
		Seats:     []string{"A-1", "A-2"},
		Timestamp: "2026-03-15T10:00:00.000000",
	}

	payload, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "booking.confirmed", decoded["type"])
	assert.Equal(t, "event-1", decoded["event_id"])
	assert.Equal(t, "booking-xyz", decoded["booking_id"])
}

func TestBookingEventOmitsEmptyIDs(t *testing.T) {
	event := &BookingEvent{
		Type:    EventBookingCancelled,
		EventID: "event-1",
		Seats:   []string{"A-1"},
	}

	payload, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.NotContains(t, decoded, "holding_id")
	assert.NotContains(t, decoded, "booking_id")
}

func TestPartitionKeyIsEventID(t *testing.T) {
	event := &BookingEvent{Type: EventHoldCreated, EventID: "event-42"}
	assert.Equal(t, "event-42", event.PartitionKey())
}

func TestNewProducerDisabled(t *testing.T) {
	producer, err := NewProducer(config.KafkaConfig{Enabled: false})
	require.NoError(t, err)

	assert.NoError(t, producer.PublishBookingEvent(context.Background(), &BookingEvent{
		Type:    EventBookingConfirmed,
		EventID: "event-1",
	}))
	assert.NoError(t, producer.Close())
}
