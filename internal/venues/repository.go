package venues

import (
	"context"
	"fmt"

	"evently/internal/shared/store"
)

// Repository interface for venue operations
type Repository interface {
	CreateVenue(ctx context.Context, venue *Venue) error
	GetVenueByID(ctx context.Context, venueID string) (*Venue, error)
	GetVenues(ctx context.Context, city string) ([]Venue, error)

	CreateSeat(ctx context.Context, seat *VenueSeat) error
	GetSeat(ctx context.Context, venueID, seatPos string) (*VenueSeat, error)
	GetSeatsByVenueID(ctx context.Context, venueID string) ([]VenueSeat, error)
}

type repository struct {
	store store.Store
}

// NewRepository creates a new venue repository
func NewRepository(st store.Store) Repository {
	return &repository{store: st}
}

func (r *repository) CreateVenue(ctx context.Context, venue *Venue) error {
	return r.store.Put(ctx, venue.toItem())
}

func (r *repository) GetVenueByID(ctx context.Context, venueID string) (*Venue, error) {
	item, err := r.store.Get(ctx, venueID, venueSK)
	if err != nil {
		return nil, err
	}
	return venueFromItem(item), nil
}

func (r *repository) GetVenues(ctx context.Context, city string) ([]Venue, error) {
	filter := store.ScanFilter{Equals: map[string]interface{}{"sk": venueSK}}
	if city != "" {
		filter.Equals["city"] = city
	}

	items, err := r.store.Scan(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("scan venues: %w", err)
	}

	venues := make([]Venue, 0, len(items))
	for _, item := range items {
		venues = append(venues, *venueFromItem(item))
	}
	return venues, nil
}

func (r *repository) CreateSeat(ctx context.Context, seat *VenueSeat) error {
	return r.store.Put(ctx, seat.toItem())
}

func (r *repository) GetSeat(ctx context.Context, venueID, seatPos string) (*VenueSeat, error) {
	item, err := r.store.Get(ctx, venueID, seatPos)
	if err != nil {
		return nil, err
	}
	seat := seatFromItem(item)
	return &seat, nil
}

func (r *repository) GetSeatsByVenueID(ctx context.Context, venueID string) ([]VenueSeat, error) {
	items, err := r.store.Query(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("query venue seats: %w", err)
	}

	seats := make([]VenueSeat, 0, len(items))
	for _, item := range items {
		// Skip the venue record itself
		if item.SK() == venueSK {
			continue
		}
		seats = append(seats, seatFromItem(item))
	}
	return seats, nil
}
