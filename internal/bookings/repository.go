package bookings

import (
	"context"
	"fmt"

	"evently/internal/shared/store"
)

type Repository interface {
	// FindBookingByID locates a booking across event partitions. Booked seat
	// rows carry the same booking_id, so matches are narrowed to the records
	// carrying a booking_date.
	FindBookingByID(ctx context.Context, bookingID string) ([]Booking, error)

	// TransactWrite applies a booking transaction.
	TransactWrite(ctx context.Context, ops []store.WriteOp) error
}

type repository struct {
	store store.Store
}

func NewRepository(st store.Store) Repository {
	return &repository{store: st}
}

func (r *repository) FindBookingByID(ctx context.Context, bookingID string) ([]Booking, error) {
	items, err := r.store.Scan(ctx, store.ScanFilter{
		Equals:   map[string]interface{}{"booking_id": bookingID},
		SKPrefix: "202",
	})
	if err != nil {
		return nil, fmt.Errorf("scan bookings: %w", err)
	}

	bookings := make([]Booking, 0, len(items))
	for _, item := range items {
		if !item.Has("booking_date") {
			continue
		}
		bookings = append(bookings, BookingFromItem(item))
	}
	return bookings, nil
}

func (r *repository) TransactWrite(ctx context.Context, ops []store.WriteOp) error {
	return r.store.TransactWrite(ctx, ops)
}
