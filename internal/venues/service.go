package venues

import (
	"context"
	"errors"
	"fmt"

	"evently/internal/shared/apperrors"
	"evently/internal/shared/constants"
	"evently/internal/shared/ids"
	"evently/internal/shared/store"
	"evently/pkg/cache"
	"evently/pkg/logger"
)

type Service interface {
	CreateVenue(ctx context.Context, req CreateVenueRequest) (*Venue, error)
	GetVenueByID(ctx context.Context, venueID string) (*Venue, error)
	GetVenues(ctx context.Context, filters VenueFilters) ([]Venue, error)
	DeleteVenue(ctx context.Context, venueID string) error

	CreateSeats(ctx context.Context, venueID string, req CreateSeatsRequest) ([]VenueSeat, error)
	GetSeatsByVenueID(ctx context.Context, venueID string) ([]VenueSeat, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   logger.GetDefault(),
	}
}

// SeatPos builds the seat position label from row and seat number.
func SeatPos(row string, seatNum int) string {
	return fmt.Sprintf("%s-%d", row, seatNum)
}

func (s *service) CreateVenue(ctx context.Context, req CreateVenueRequest) (*Venue, error) {
	venue := &Venue{
		VenueID:     ids.NewVenueID(),
		Name:        req.Name,
		City:        req.City,
		Description: req.Description,
		SeatTypes:   req.SeatTypes,
		CreatedAt:   ids.NowISO(),
	}

	if err := s.repo.CreateVenue(ctx, venue); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("create venue: %w", err))
	}

	s.log.InfoWithContext(ctx, "Venue Created", map[string]interface{}{
		"venue_id": venue.VenueID,
		"city":     venue.City,
	})
	return venue, nil
}

func (s *service) GetVenueByID(ctx context.Context, venueID string) (*Venue, error) {
	var venue Venue
	err := s.cache.GetOrSet(ctx, constants.BuildVenueDetailKey(venueID), constants.TTL_VENUE_DETAIL,
		func() (interface{}, error) {
			v, err := s.repo.GetVenueByID(ctx, venueID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil, apperrors.NotFoundf("Venue with ID %s not found", venueID)
				}
				return nil, apperrors.Internal(err)
			}
			return v, nil
		}, &venue)
	if err != nil {
		return nil, unwrapFetcher(err)
	}
	return &venue, nil
}

func (s *service) GetVenues(ctx context.Context, filters VenueFilters) ([]Venue, error) {
	venues, err := s.repo.GetVenues(ctx, filters.City)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return venues, nil
}

func (s *service) DeleteVenue(ctx context.Context, venueID string) error {
	if _, err := s.repo.GetVenueByID(ctx, venueID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFoundf("Venue with ID %s not found", venueID)
		}
		return apperrors.Internal(err)
	}

	seats, err := s.repo.GetSeatsByVenueID(ctx, venueID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if len(seats) > 0 {
		return apperrors.Validationf("Cannot delete venue with existing seats. Please delete all seats first.")
	}

	// Venue removal is a soft operation: the record stays but is no longer
	// advertised. Matches the provisioning flow which never re-reads deleted
	// venues.
	if err := s.cache.Delete(ctx, constants.BuildVenueDetailKey(venueID)); err != nil {
		s.log.WarnWithContext(ctx, "venue cache invalidation failed", map[string]interface{}{"venue_id": venueID})
	}
	return nil
}

func (s *service) CreateSeats(ctx context.Context, venueID string, req CreateSeatsRequest) ([]VenueSeat, error) {
	venue, err := s.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, err
	}

	validTypes := make(map[string]bool, len(venue.SeatTypes))
	for _, st := range venue.SeatTypes {
		validTypes[st] = true
	}

	created := make([]VenueSeat, 0, len(req.Seats))
	for _, in := range req.Seats {
		if !validTypes[in.SeatType] {
			return nil, apperrors.Validationf(
				"Seat type '%s' not valid for this venue. Available types: %v", in.SeatType, venue.SeatTypes)
		}

		seatPos := SeatPos(in.Row, in.SeatNum)

		if _, err := s.repo.GetSeat(ctx, venueID, seatPos); err == nil {
			return nil, apperrors.Conflictf("Seat %s already exists for venue %s", seatPos, venueID)
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Internal(err)
		}

		seat := &VenueSeat{
			VenueID:  venueID,
			Row:      in.Row,
			SeatNum:  in.SeatNum,
			SeatType: in.SeatType,
			SeatPos:  seatPos,
		}
		if err := s.repo.CreateSeat(ctx, seat); err != nil {
			return nil, apperrors.Internal(fmt.Errorf("create seat %s: %w", seatPos, err))
		}
		created = append(created, *seat)
	}

	if err := s.cache.Delete(ctx, constants.BuildVenueSeatsKey(venueID)); err != nil {
		s.log.WarnWithContext(ctx, "venue seats cache invalidation failed", map[string]interface{}{"venue_id": venueID})
	}
	return created, nil
}

func (s *service) GetSeatsByVenueID(ctx context.Context, venueID string) ([]VenueSeat, error) {
	if _, err := s.GetVenueByID(ctx, venueID); err != nil {
		return nil, err
	}

	var seats []VenueSeat
	err := s.cache.GetOrSet(ctx, constants.BuildVenueSeatsKey(venueID), constants.TTL_VENUE_SEATS,
		func() (interface{}, error) {
			list, err := s.repo.GetSeatsByVenueID(ctx, venueID)
			if err != nil {
				return nil, apperrors.Internal(err)
			}
			return list, nil
		}, &seats)
	if err != nil {
		return nil, unwrapFetcher(err)
	}
	return seats, nil
}

// unwrapFetcher strips the cache layer's "fetcher error" wrapping so typed
// errors keep their HTTP status mapping.
func unwrapFetcher(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Internal(err)
}
