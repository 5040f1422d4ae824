package bookings

import (
	"context"
	"errors"
	"fmt"

	"evently/internal/notifications"
	"evently/internal/seats"
	"evently/internal/shared/apperrors"
	"evently/internal/shared/constants"
	"evently/internal/shared/ids"
	"evently/internal/shared/store"
	"evently/pkg/cache"
	"evently/pkg/logger"
)

type Service interface {
	// ConfirmBooking promotes a live hold into a booking in one atomic
	// transaction, guarded by the per-seat tenancy predicates.
	ConfirmBooking(ctx context.Context, holdingID string, req ConfirmRequest) (*BookingResponse, error)

	// CancelBooking releases a confirmed booking's seats and marks the
	// booking record cancelled, atomically.
	CancelBooking(ctx context.Context, bookingID string) (*CancelResponse, error)
}

type service struct {
	repo     Repository
	seatRepo seats.Repository
	cache    cache.Service
	producer notifications.Producer
	log      *logger.Logger
}

func NewService(repo Repository, seatRepo seats.Repository, cacheService cache.Service, producer notifications.Producer) Service {
	return &service{
		repo:     repo,
		seatRepo: seatRepo,
		cache:    cacheService,
		producer: producer,
		log:      logger.GetDefault(),
	}
}

func (s *service) ConfirmBooking(ctx context.Context, holdingID string, req ConfirmRequest) (*BookingResponse, error) {
	if req.PaymentStatus != PaymentSuccessful && req.PaymentStatus != PaymentFailed {
		return nil, apperrors.Validationf("Payment status must be 'successful' or 'failed'")
	}
	// A failed payment leaves the hold alone; it lapses on its own
	if req.PaymentStatus == PaymentFailed {
		return nil, apperrors.Validationf("Payment failed. Booking not confirmed.")
	}

	holds, err := s.seatRepo.FindHoldByID(ctx, holdingID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(holds) == 0 {
		return nil, apperrors.NotFoundf("Holding with ID %s not found", holdingID)
	}
	if len(holds) > 1 {
		s.log.WarnWithContext(ctx, "multiple holdings found, using the first one", map[string]interface{}{
			"holding_id": holdingID,
			"count":      len(holds),
		})
	}
	hold := holds[0]

	snap, err := s.seatRepo.Snapshot(ctx, hold.EventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("Event no longer exists. Booking cannot be confirmed.")
		}
		return nil, apperrors.Internal(err)
	}

	exists, err := s.seatRepo.UserExists(ctx, hold.UserID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !exists {
		return nil, apperrors.NotFoundf("User no longer exists. Booking cannot be confirmed.")
	}

	if ids.IsExpired(hold.CreatedAt, hold.TTL) {
		return nil, apperrors.Gonef("Holding has expired. Please try holding seats again.")
	}

	// Pre-validate every seat so the caller gets a precise conflict message
	// instead of a bare transaction failure. The transaction predicates
	// remain the real gate.
	var invalid []string
	for _, seatPos := range hold.Seats {
		seat, ok := snap.Seats[seatPos]
		if !ok {
			invalid = append(invalid, fmt.Sprintf("%s (seat not found)", seatPos))
			continue
		}
		if seat.SeatState != seats.StateHeld {
			invalid = append(invalid, fmt.Sprintf("%s (state: %s)", seatPos, seat.SeatState))
		} else if seat.HoldingID != holdingID {
			invalid = append(invalid, fmt.Sprintf("%s (held by different holding)", seatPos))
		}
	}
	if len(invalid) > 0 {
		return nil, apperrors.Conflictf("Seats are no longer available for confirmation: %v", invalid)
	}

	now := ids.NowISO()
	booking := &Booking{
		BookingID:     ids.NewBookingID(),
		EventID:       hold.EventID,
		UserID:        hold.UserID,
		Seats:         hold.Seats,
		BookingDate:   now,
		State:         StateConfirmed,
		PaymentStatus: req.PaymentStatus,
		SK:            now,
	}

	ops := make([]store.WriteOp, 0, len(hold.Seats)+2)
	ops = append(ops, NewBookingPutOp(booking))
	for _, seatPos := range hold.Seats {
		ops = append(ops, seats.ConfirmSeatOp(hold.EventID, seatPos, holdingID, booking.BookingID, now))
	}
	ops = append(ops, seats.DeleteHoldOp(hold.EventID, holdingID))

	if err := s.repo.TransactWrite(ctx, ops); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, apperrors.Conflictf("One or more seats are no longer held by this holding. Please try holding seats again.")
		}
		if errors.Is(err, store.ErrTransactionCanceled) {
			return nil, apperrors.Conflictf("Transaction was cancelled due to concurrent modifications. Please try again.")
		}
		return nil, apperrors.Internal(fmt.Errorf("confirm transaction: %w", err))
	}

	// Counter bumps are fire-and-forget: their failure never fails the booking
	go func() {
		if err := s.seatRepo.AddEventCounters(context.Background(), hold.EventID, map[string]int{
			"successful_bookings": 1,
			"seats_sold":          len(hold.Seats),
		}); err != nil {
			s.log.WithError(err).Warn("booking counter update failed", "event_id", hold.EventID)
		}
	}()

	s.invalidateAfterTransition(ctx, hold.EventID, hold.UserID)
	s.publish(&notifications.BookingEvent{
		Type:      notifications.EventBookingConfirmed,
		EventID:   hold.EventID,
		UserID:    hold.UserID,
		HoldingID: holdingID,
		BookingID: booking.BookingID,
		Seats:     hold.Seats,
		Timestamp: now,
	})
	s.log.LogBookingConfirmed(ctx, booking.BookingID, hold.EventID, hold.UserID)

	return &BookingResponse{
		BookingID:     booking.BookingID,
		EventID:       booking.EventID,
		UserID:        booking.UserID,
		Seats:         booking.Seats,
		BookingDate:   booking.BookingDate,
		State:         booking.State,
		PaymentStatus: booking.PaymentStatus,
	}, nil
}

func (s *service) CancelBooking(ctx context.Context, bookingID string) (*CancelResponse, error) {
	bookings, err := s.repo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(bookings) == 0 {
		return nil, apperrors.NotFoundf("Booking with ID %s not found", bookingID)
	}
	if len(bookings) > 1 {
		s.log.WarnWithContext(ctx, "multiple bookings found, using the first one", map[string]interface{}{
			"booking_id": bookingID,
			"count":      len(bookings),
		})
	}
	booking := bookings[0]

	snap, err := s.seatRepo.Snapshot(ctx, booking.EventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("Event no longer exists. Booking cannot be cancelled.")
		}
		return nil, apperrors.Internal(err)
	}

	if booking.State == StateCancelled {
		return nil, apperrors.Validationf("Booking is already cancelled")
	}

	var invalid []string
	for _, seatPos := range booking.Seats {
		seat, ok := snap.Seats[seatPos]
		if !ok {
			invalid = append(invalid, fmt.Sprintf("%s (seat not found)", seatPos))
			continue
		}
		if seat.SeatState != seats.StateBooked {
			invalid = append(invalid, fmt.Sprintf("%s (state: %s)", seatPos, seat.SeatState))
		} else if seat.BookingID != bookingID {
			invalid = append(invalid, fmt.Sprintf("%s (booked by different booking)", seatPos))
		}
	}
	if len(invalid) > 0 {
		return nil, apperrors.Conflictf("Seats are no longer available for cancellation: %v", invalid)
	}

	now := ids.NowISO()
	ops := make([]store.WriteOp, 0, len(booking.Seats)+1)
	for _, seatPos := range booking.Seats {
		ops = append(ops, seats.ReleaseSeatOp(booking.EventID, seatPos, bookingID, now))
	}
	ops = append(ops, CancelBookingOp(booking.EventID, booking.SK, bookingID, now))

	if err := s.repo.TransactWrite(ctx, ops); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, apperrors.Conflictf("One or more seats are no longer booked by this booking. Booking may have already been cancelled.")
		}
		if errors.Is(err, store.ErrTransactionCanceled) {
			return nil, apperrors.Conflictf("Transaction was cancelled due to concurrent modifications. Please try again.")
		}
		return nil, apperrors.Internal(fmt.Errorf("cancel transaction: %w", err))
	}

	go func() {
		if err := s.seatRepo.AddEventCounters(context.Background(), booking.EventID, map[string]int{
			"cancellations": 1,
			"seats_sold":    -len(booking.Seats),
		}); err != nil {
			s.log.WithError(err).Warn("cancellation counter update failed", "event_id", booking.EventID)
		}
	}()

	s.invalidateAfterTransition(ctx, booking.EventID, booking.UserID)
	s.publish(&notifications.BookingEvent{
		Type:      notifications.EventBookingCancelled,
		EventID:   booking.EventID,
		UserID:    booking.UserID,
		BookingID: bookingID,
		Seats:     booking.Seats,
		Timestamp: now,
	})
	s.log.LogBookingCancelled(ctx, bookingID, booking.EventID, booking.UserID)

	return &CancelResponse{
		Message:     "Booking cancelled successfully",
		BookingID:   bookingID,
		EventID:     booking.EventID,
		UserID:      booking.UserID,
		SeatsFreed:  booking.Seats,
		CancelledAt: now,
	}, nil
}

// invalidateAfterTransition drops every cached view a seat transition makes
// stale: the live seat map, the event's analytics, and the user's booking
// pages.
func (s *service) invalidateAfterTransition(ctx context.Context, eventID, userID string) {
	keys := []string{
		constants.BuildSeatMapKey(eventID),
		constants.BuildAnalyticsEventKey(eventID),
		constants.BuildAnalyticsSeatsKey(eventID),
		constants.BuildAnalyticsBookingsKey(eventID),
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.log.WarnWithContext(ctx, "cache invalidation failed", map[string]interface{}{"key": key})
		}
	}
	if err := s.cache.DeletePattern(ctx, constants.CACHE_KEY_USER_BOOKINGS+userID+":*"); err != nil {
		s.log.WarnWithContext(ctx, "user bookings cache invalidation failed", map[string]interface{}{"user_id": userID})
	}
}

// publish sends the lifecycle event without blocking the request path.
func (s *service) publish(event *notifications.BookingEvent) {
	go func() {
		if err := s.producer.PublishBookingEvent(context.Background(), event); err != nil {
			s.log.WithError(err).Warn("booking event publish failed",
				"type", string(event.Type), "event_id", event.EventID)
		}
	}()
}
