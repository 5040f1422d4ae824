package analytics

import (
	"context"
	"errors"
	"fmt"

	"evently/internal/bookings"
	"evently/internal/seats"
	"evently/internal/shared/store"
)

type Repository interface {
	// GetEvent reads the raw event record. Returns store.ErrNotFound when
	// absent.
	GetEvent(ctx context.Context, eventID string) (store.Item, error)

	// GetVenueName resolves a venue's display name. Missing venues resolve
	// to "Unknown Venue" rather than failing the aggregation.
	GetVenueName(ctx context.Context, venueID string) (string, error)

	// GetEventSeats lists all seat rows of the event partition.
	GetEventSeats(ctx context.Context, eventID string) ([]seats.EventSeat, error)

	// GetEventBookings lists all booking rows of the event, the records in
	// the partition carrying a booking_date.
	GetEventBookings(ctx context.Context, eventID string) ([]bookings.Booking, error)
}

type repository struct {
	store store.Store
}

func NewRepository(st store.Store) Repository {
	return &repository{store: st}
}

func (r *repository) GetEvent(ctx context.Context, eventID string) (store.Item, error) {
	return r.store.Get(ctx, eventID, "EVENT")
}

func (r *repository) GetVenueName(ctx context.Context, venueID string) (string, error) {
	item, err := r.store.Get(ctx, venueID, "VENUE")
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "Unknown Venue", nil
		}
		return "", err
	}
	name := item.String("name")
	if name == "" {
		name = "Unknown Venue"
	}
	return name, nil
}

func (r *repository) GetEventSeats(ctx context.Context, eventID string) ([]seats.EventSeat, error) {
	items, err := r.store.Query(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("query event partition: %w", err)
	}

	rows := make([]seats.EventSeat, 0, len(items))
	for _, item := range items {
		if seats.IsSeatRow(item) {
			rows = append(rows, seats.SeatFromItem(item))
		}
	}
	return rows, nil
}

func (r *repository) GetEventBookings(ctx context.Context, eventID string) ([]bookings.Booking, error) {
	items, err := r.store.Scan(ctx, store.ScanFilter{
		Equals:   map[string]interface{}{"event_id": eventID},
		SKPrefix: "202",
	})
	if err != nil {
		return nil, fmt.Errorf("scan bookings: %w", err)
	}

	rows := make([]bookings.Booking, 0, len(items))
	for _, item := range items {
		if !item.Has("booking_date") {
			continue
		}
		rows = append(rows, bookings.BookingFromItem(item))
	}
	return rows, nil
}
