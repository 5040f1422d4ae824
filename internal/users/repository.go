package users

import (
	"context"
	"fmt"
	"sort"

	"evently/internal/shared/store"
)

// Repository interface for user operations
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetBookingsByUserID(ctx context.Context, userID string) ([]UserBooking, error)
}

type repository struct {
	store store.Store
}

// NewRepository creates a new user repository
func NewRepository(st store.Store) Repository {
	return &repository{store: st}
}

func (r *repository) CreateUser(ctx context.Context, user *User) error {
	return r.store.Put(ctx, user.toItem())
}

func (r *repository) GetUserByID(ctx context.Context, userID string) (*User, error) {
	item, err := r.store.Get(ctx, userID, userSK)
	if err != nil {
		return nil, err
	}
	return userFromItem(item), nil
}

func (r *repository) GetBookingsByUserID(ctx context.Context, userID string) ([]UserBooking, error) {
	// Booking records carry a booking_date attribute; hold records and seat
	// rows with the same user never do. The sk prefix only narrows the scan.
	items, err := r.store.Scan(ctx, store.ScanFilter{
		Equals:   map[string]interface{}{"user_id": userID},
		SKPrefix: "202",
	})
	if err != nil {
		return nil, fmt.Errorf("scan user bookings: %w", err)
	}

	bookings := make([]UserBooking, 0, len(items))
	for _, item := range items {
		if !item.Has("booking_date") {
			continue
		}
		bookings = append(bookings, bookingFromItem(item))
	}

	// Most recent first
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].BookingDate > bookings[j].BookingDate
	})
	return bookings, nil
}
