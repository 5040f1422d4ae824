package events

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"

	"evently/internal/seats"
	"evently/internal/shared/apperrors"
	"evently/internal/shared/constants"
	"evently/internal/shared/ids"
	"evently/internal/shared/store"
	"evently/internal/venues"
	"evently/pkg/cache"
	"evently/pkg/logger"

	"github.com/shopspring/decimal"
)

type Service interface {
	// CreateEvent provisions the event record and one event-seat row per
	// venue seat with a priced seat type.
	CreateEvent(ctx context.Context, req CreateEventRequest) (*CreateEventResponse, error)

	// GetEvents lists events with discovery filters, newest first.
	GetEvents(ctx context.Context, query ListEventsQuery) ([]EventResponse, error)

	GetEventByID(ctx context.Context, eventID string) (*EventResponse, error)
}

type service struct {
	repo      Repository
	venueRepo venues.Repository
	cache     cache.Service
	log       *logger.Logger
}

func NewService(repo Repository, venueRepo venues.Repository, cacheService cache.Service) Service {
	return &service{
		repo:      repo,
		venueRepo: venueRepo,
		cache:     cacheService,
		log:       logger.GetDefault(),
	}
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*CreateEventResponse, error) {
	venue, err := s.venueRepo.GetVenueByID(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("Venue with ID %s not found", req.VenueID)
		}
		return nil, apperrors.Internal(err)
	}

	for _, seatType := range venue.SeatTypes {
		if _, ok := req.SeatTypePrices[seatType]; !ok {
			return nil, apperrors.Validationf("Price not provided for seat type '%s'. Required seat types: %v",
				seatType, venue.SeatTypes)
		}
	}

	prices := make(map[string]decimal.Decimal, len(req.SeatTypePrices))
	for seatType, price := range req.SeatTypePrices {
		prices[seatType] = decimal.NewFromFloat(price)
	}

	event := &Event{
		EventID:        ids.NewEventID(),
		VenueID:        req.VenueID,
		Name:           req.Name,
		StartTime:      req.StartTime,
		Duration:       req.Duration,
		Artists:        req.Artists,
		Tags:           req.Tags,
		Description:    req.Description,
		SeatTypePrices: prices,
		CreatedAt:      ids.NowISO(),
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("create event: %w", err))
	}

	created, err := s.provisionSeats(ctx, event)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if created == 0 {
		return nil, apperrors.Validationf("No valid seats found in venue. Please ensure venue has seats with valid seat types.")
	}

	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENT_ALL); err != nil {
		s.log.WarnWithContext(ctx, "event cache invalidation failed", map[string]interface{}{"event_id": event.EventID})
	}
	s.log.InfoWithContext(ctx, "event created", map[string]interface{}{
		"event_id": event.EventID,
		"venue_id": event.VenueID,
		"seats":    created,
	})

	return &CreateEventResponse{
		EventResponse: toEventResponse(event),
		SeatsCreated:  created,
	}, nil
}

// provisionSeats copies every venue seat with a priced seat type into the
// event partition. A single failed seat write is logged and skipped so one
// bad row does not sink the whole provisioning pass.
func (s *service) provisionSeats(ctx context.Context, event *Event) (int, error) {
	venueSeats, err := s.venueRepo.GetSeatsByVenueID(ctx, event.VenueID)
	if err != nil {
		return 0, fmt.Errorf("fetch venue seats: %w", err)
	}

	created := 0
	for _, seat := range venueSeats {
		price, ok := event.SeatTypePrices[seat.SeatType]
		if !ok {
			continue
		}
		item := seats.NewEventSeatItem(event.EventID, seat.SeatPos, seat.Row, seat.SeatNum, seat.SeatType, price)
		if err := s.repo.CreateEventSeat(ctx, item); err != nil {
			s.log.WarnWithContext(ctx, "event seat creation failed", map[string]interface{}{
				"event_id": event.EventID,
				"seat_pos": seat.SeatPos,
			})
			continue
		}
		created++
	}
	return created, nil
}

func (s *service) GetEvents(ctx context.Context, query ListEventsQuery) ([]EventResponse, error) {
	var result []EventResponse
	err := s.cache.GetOrSet(ctx, constants.BuildEventListKey(queryHash(query)), constants.TTL_EVENT_LIST,
		func() (interface{}, error) {
			return s.listEvents(ctx, query)
		}, &result)
	if err != nil {
		return nil, unwrapFetcher(err)
	}
	return result, nil
}

func (s *service) listEvents(ctx context.Context, query ListEventsQuery) ([]EventResponse, error) {
	events, err := s.repo.GetEvents(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if query.StartDate != "" {
		events = filterByDate(events, query.StartDate, "after")
	}
	if query.EndDate != "" {
		events = filterByDate(events, query.EndDate, "before")
	}
	if query.City != "" {
		cities, err := s.venueCities(ctx)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		events = filterByCity(events, query.City, cities)
	}
	if query.Search != "" {
		events = searchEvents(events, query.Search)
	}

	sortByStartTimeDesc(events)
	events = paginate(events, query.Offset, query.Limit)

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, toEventResponse(&events[i]))
	}
	return responses, nil
}

func (s *service) GetEventByID(ctx context.Context, eventID string) (*EventResponse, error) {
	var result EventResponse
	err := s.cache.GetOrSet(ctx, constants.BuildEventDetailKey(eventID), constants.TTL_EVENT_DETAIL,
		func() (interface{}, error) {
			event, err := s.repo.GetEventByID(ctx, eventID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil, apperrors.NotFoundf("Event with ID %s not found", eventID)
				}
				return nil, apperrors.Internal(err)
			}
			return toEventResponse(event), nil
		}, &result)
	if err != nil {
		return nil, unwrapFetcher(err)
	}
	return &result, nil
}

// venueCities maps venue id to city for the city filter.
func (s *service) venueCities(ctx context.Context) (map[string]string, error) {
	allVenues, err := s.venueRepo.GetVenues(ctx, "")
	if err != nil {
		return nil, err
	}
	cities := make(map[string]string, len(allVenues))
	for _, venue := range allVenues {
		cities[venue.VenueID] = venue.City
	}
	return cities, nil
}

// queryHash condenses the filter set into a stable cache-key suffix. An empty
// filter set hashes to the empty string so the listing shares the ":all" key.
func queryHash(query ListEventsQuery) string {
	if query.City == "" && query.StartDate == "" && query.EndDate == "" &&
		query.Search == "" && query.Offset == 0 && (query.Limit == 0 || query.Limit == 50) {
		return ""
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d|%d",
		query.City, query.StartDate, query.EndDate, query.Search, query.Limit, query.Offset)
	return fmt.Sprintf("%x", h.Sum64())
}

// unwrapFetcher recovers the typed error a cache fetcher returned so the
// controller maps the right status instead of a blanket 500.
func unwrapFetcher(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Internal(err)
}
