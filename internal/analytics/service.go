package analytics

import (
	"context"
	"errors"
	"math"
	"sort"

	"evently/internal/bookings"
	"evently/internal/seats"
	"evently/internal/shared/apperrors"
	"evently/internal/shared/constants"
	"evently/internal/shared/store"
	"evently/pkg/cache"
	"evently/pkg/logger"

	"github.com/shopspring/decimal"
)

type Service interface {
	// GetEventAnalytics aggregates seat tallies, booking tallies, revenue,
	// and rate metrics for one event.
	GetEventAnalytics(ctx context.Context, eventID string) (*EventAnalytics, error)

	// GetSeatAnalytics lists seat rows with optional type and state filters.
	GetSeatAnalytics(ctx context.Context, eventID string, query SeatAnalyticsQuery) ([]SeatAnalytics, error)

	// GetBookingAnalytics lists booking rows with amounts, filtered by state
	// and paged in memory, most recent first.
	GetBookingAnalytics(ctx context.Context, eventID string, query BookingAnalyticsQuery) ([]BookingAnalytics, error)
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

func (s *service) GetEventAnalytics(ctx context.Context, eventID string) (*EventAnalytics, error) {
	var result EventAnalytics
	err := s.cache.GetOrSet(ctx, constants.BuildAnalyticsEventKey(eventID), constants.TTL_ANALYTICS_EVENT,
		func() (interface{}, error) {
			return s.buildEventAnalytics(ctx, eventID)
		}, &result)
	if err != nil {
		return nil, unwrapFetcher(err)
	}
	return &result, nil
}

func (s *service) buildEventAnalytics(ctx context.Context, eventID string) (*EventAnalytics, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("Event with ID %s not found", eventID)
		}
		return nil, apperrors.Internal(err)
	}

	venueName, err := s.repo.GetVenueName(ctx, event.String("venue_id"))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	seatRows, err := s.repo.GetEventSeats(ctx, eventID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var available, held, booked int
	revenue := decimal.Zero
	revenueByType := make(map[string]decimal.Decimal)
	for _, seat := range seatRows {
		switch seat.SeatState {
		case seats.StateAvailable:
			available++
		case seats.StateHeld:
			held++
		case seats.StateBooked:
			booked++
			revenue = revenue.Add(seat.Price)
			revenueByType[seat.SeatType] = revenueByType[seat.SeatType].Add(seat.Price)
		}
	}

	bookingRows, err := s.repo.GetEventBookings(ctx, eventID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var successful, cancelled int
	lastBookingTime := ""
	for _, booking := range bookingRows {
		switch booking.State {
		case bookings.StateConfirmed:
			successful++
		case bookings.StateCancelled:
			cancelled++
		}
		if booking.BookingDate > lastBookingTime {
			lastBookingTime = booking.BookingDate
		}
	}

	holdAttempts := event.Int("hold_attempts")
	failedHolds := holdAttempts - successful
	if failedHolds < 0 {
		failedHolds = 0
	}

	totalSeats := len(seatRows)
	utilization := 0.0
	if totalSeats > 0 {
		utilization = float64(booked) / float64(totalSeats) * 100
	}

	avgBookingValue := decimal.Zero
	if successful > 0 {
		avgBookingValue = revenue.Div(decimal.NewFromInt(int64(successful)))
	}

	revenueBySeatType := make(map[string]float64, len(revenueByType))
	for seatType, amount := range revenueByType {
		revenueBySeatType[seatType] = amount.Round(2).InexactFloat64()
	}

	totalBookings := len(bookingRows)
	bookingSuccessRate := 0.0
	cancellationRate := 0.0
	if totalBookings > 0 {
		bookingSuccessRate = float64(successful) / float64(totalBookings) * 100
		cancellationRate = float64(cancelled) / float64(totalBookings) * 100
	}
	holdSuccessRate := 0.0
	if holdAttempts > 0 {
		holdSuccessRate = float64(successful) / float64(holdAttempts) * 100
	}

	return &EventAnalytics{
		EventID:   eventID,
		EventName: event.String("name"),
		VenueID:   event.String("venue_id"),
		VenueName: venueName,

		TotalSeats:          totalSeats,
		SeatsAvailable:      available,
		SeatsHeld:           held,
		SeatsBooked:         booked,
		SeatsSold:           booked,
		CapacityUtilization: round2(utilization),

		TotalBookings:      totalBookings,
		SuccessfulBookings: successful,
		CancelledBookings:  cancelled,
		HoldAttempts:       holdAttempts,
		FailedHolds:        failedHolds,

		RevenueGenerated:    revenue.Round(2).InexactFloat64(),
		AverageBookingValue: avgBookingValue.Round(2).InexactFloat64(),
		RevenueBySeatType:   revenueBySeatType,

		BookingSuccessRate: round2(bookingSuccessRate),
		HoldSuccessRate:    round2(holdSuccessRate),
		CancellationRate:   round2(cancellationRate),

		LastBookingTime: lastBookingTime,
		CreatedAt:       event.String("created_at"),
		StartTime:       event.String("start_time"),
		Duration:        event.Int("duration"),
		Artists:         event.StringSlice("artists"),
		Tags:            event.StringSlice("tags"),
	}, nil
}

func (s *service) GetSeatAnalytics(ctx context.Context, eventID string, query SeatAnalyticsQuery) ([]SeatAnalytics, error) {
	// The unfiltered view is the hot path; filtered views skip the cache
	if query.SeatType == "" && query.SeatState == "" {
		var result []SeatAnalytics
		err := s.cache.GetOrSet(ctx, constants.BuildAnalyticsSeatsKey(eventID), constants.TTL_ANALYTICS_SEATS,
			func() (interface{}, error) {
				return s.buildSeatAnalytics(ctx, eventID, query)
			}, &result)
		if err != nil {
			return nil, unwrapFetcher(err)
		}
		return result, nil
	}
	return s.buildSeatAnalytics(ctx, eventID, query)
}

func (s *service) buildSeatAnalytics(ctx context.Context, eventID string, query SeatAnalyticsQuery) ([]SeatAnalytics, error) {
	if err := s.eventExists(ctx, eventID); err != nil {
		return nil, err
	}

	seatRows, err := s.repo.GetEventSeats(ctx, eventID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	result := make([]SeatAnalytics, 0, len(seatRows))
	for _, seat := range seatRows {
		if query.SeatType != "" && seat.SeatType != query.SeatType {
			continue
		}
		if query.SeatState != "" && seat.SeatState != query.SeatState {
			continue
		}
		result = append(result, SeatAnalytics{
			SeatPos:     seat.SeatPos,
			Row:         seat.Row,
			SeatNum:     seat.SeatNum,
			SeatType:    seat.SeatType,
			SeatState:   seat.SeatState,
			Price:       seat.Price.InexactFloat64(),
			BookingID:   seat.BookingID,
			HoldingID:   seat.HoldingID,
			LastUpdated: seat.UpdatedAt,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SeatPos < result[j].SeatPos })
	return result, nil
}

func (s *service) GetBookingAnalytics(ctx context.Context, eventID string, query BookingAnalyticsQuery) ([]BookingAnalytics, error) {
	if query.State == "" && query.Offset == 0 && (query.Limit == 0 || query.Limit == 100) {
		var result []BookingAnalytics
		err := s.cache.GetOrSet(ctx, constants.BuildAnalyticsBookingsKey(eventID), constants.TTL_ANALYTICS_BOOKINGS,
			func() (interface{}, error) {
				return s.buildBookingAnalytics(ctx, eventID, query)
			}, &result)
		if err != nil {
			return nil, unwrapFetcher(err)
		}
		return result, nil
	}
	return s.buildBookingAnalytics(ctx, eventID, query)
}

func (s *service) buildBookingAnalytics(ctx context.Context, eventID string, query BookingAnalyticsQuery) ([]BookingAnalytics, error) {
	if err := s.eventExists(ctx, eventID); err != nil {
		return nil, err
	}

	bookingRows, err := s.repo.GetEventBookings(ctx, eventID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if query.State != "" {
		filtered := bookingRows[:0]
		for _, booking := range bookingRows {
			if booking.State == query.State {
				filtered = append(filtered, booking)
			}
		}
		bookingRows = filtered
	}

	sort.Slice(bookingRows, func(i, j int) bool {
		return bookingRows[i].BookingDate > bookingRows[j].BookingDate
	})

	offset, limit := query.Offset, query.Limit
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}
	if offset >= len(bookingRows) {
		bookingRows = nil
	} else if offset+limit < len(bookingRows) {
		bookingRows = bookingRows[offset : offset+limit]
	} else {
		bookingRows = bookingRows[offset:]
	}

	seatRows, err := s.repo.GetEventSeats(ctx, eventID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	seatPrices := make(map[string]decimal.Decimal, len(seatRows))
	for _, seat := range seatRows {
		seatPrices[seat.SeatPos] = seat.Price
	}

	result := make([]BookingAnalytics, 0, len(bookingRows))
	for _, booking := range bookingRows {
		amount := decimal.Zero
		for _, seatPos := range booking.Seats {
			amount = amount.Add(seatPrices[seatPos])
		}
		result = append(result, BookingAnalytics{
			BookingID:     booking.BookingID,
			UserID:        booking.UserID,
			Seats:         booking.Seats,
			BookingDate:   booking.BookingDate,
			State:         booking.State,
			PaymentStatus: booking.PaymentStatus,
			TotalAmount:   amount.Round(2).InexactFloat64(),
			SeatCount:     len(booking.Seats),
		})
	}
	return result, nil
}

func (s *service) eventExists(ctx context.Context, eventID string) error {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFoundf("Event with ID %s not found", eventID)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func unwrapFetcher(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Internal(err)
}
