package seats

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"evently/internal/notifications"
	"evently/internal/shared/apperrors"
	"evently/internal/shared/constants"
	"evently/internal/shared/ids"
	"evently/internal/shared/store"
	"evently/pkg/cache"
	"evently/pkg/logger"
)

type Service interface {
	// HoldSeats places a time-bounded claim over a set of seats in one
	// atomic transaction.
	HoldSeats(ctx context.Context, eventID string, req HoldRequest) (*HoldResponse, error)

	// GetEventSeats lists every seat of an event with its stored state.
	GetEventSeats(ctx context.Context, eventID string) ([]SeatResponse, error)
}

type service struct {
	repo     Repository
	cache    cache.Service
	producer notifications.Producer
	log      *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, producer notifications.Producer) Service {
	return &service{
		repo:     repo,
		cache:    cacheService,
		producer: producer,
		log:      logger.GetDefault(),
	}
}

func (s *service) HoldSeats(ctx context.Context, eventID string, req HoldRequest) (*HoldResponse, error) {
	snap, err := s.repo.Snapshot(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("Event with ID %s not found", eventID)
		}
		return nil, apperrors.Internal(err)
	}

	exists, err := s.repo.UserExists(ctx, req.UserID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !exists {
		return nil, apperrors.NotFoundf("User with ID %s not found", req.UserID)
	}

	// Classify every requested seat before touching anything. Held seats
	// whose hold record is gone, expired, or unparseable count as expired
	// and are reclaimable.
	var unavailable, expired []string
	for _, seatPos := range req.Seats {
		seat, ok := snap.Seats[seatPos]
		if !ok {
			return nil, apperrors.Validationf("Seat %s does not exist for this event", seatPos)
		}

		switch seat.SeatState {
		case StateAvailable:
		case StateBooked:
			unavailable = append(unavailable, seatPos)
		case StateHeld:
			if s.holdIsExpired(snap, seat) {
				expired = append(expired, seatPos)
			} else {
				unavailable = append(unavailable, seatPos)
			}
		default:
			unavailable = append(unavailable, seatPos)
		}
	}
	if len(unavailable) > 0 {
		return nil, apperrors.Conflictf("Seats are not available: %v", unavailable)
	}

	// Empty seat list is a legal no-op
	if len(req.Seats) == 0 {
		return &HoldResponse{
			HoldingID: "",
			SeatsHeld: []string{},
			HoldTTL:   HoldTTLSeconds,
			ExpiresAt: ids.ExpiryISO(HoldTTLSeconds),
		}, nil
	}

	// Deduplicate preserving first-seen order
	uniqueSeats := make([]string, 0, len(req.Seats))
	seen := make(map[string]bool, len(req.Seats))
	for _, seatPos := range req.Seats {
		if !seen[seatPos] {
			uniqueSeats = append(uniqueSeats, seatPos)
			seen[seatPos] = true
		}
	}

	// Best-effort reclaim of expired holds so the available predicate in
	// the main transaction can succeed. A racing hold may still win; the
	// transaction below is the real arbiter.
	for _, seatPos := range expired {
		stale := snap.Seats[seatPos].HoldingID
		if err := s.repo.ReclaimSeat(ctx, eventID, seatPos, stale); err != nil {
			s.log.WarnWithContext(ctx, "expired hold reclaim failed", map[string]interface{}{
				"event_id": eventID,
				"seat_pos": seatPos,
			})
		} else {
			s.log.LogHoldExpired(ctx, stale, eventID)
		}
	}

	hold := &Hold{
		HoldingID: ids.NewHoldingID(),
		EventID:   eventID,
		UserID:    req.UserID,
		Seats:     uniqueSeats,
		CreatedAt: ids.NowISO(),
		ExpiresAt: ids.ExpiryISO(HoldTTLSeconds),
		TTL:       HoldTTLSeconds,
	}

	ops := make([]store.WriteOp, 0, len(uniqueSeats)+1)
	ops = append(ops, HoldPutOp(hold))
	for _, seatPos := range uniqueSeats {
		ops = append(ops, HoldSeatOp(eventID, seatPos, hold.HoldingID, HoldTTLSeconds))
	}

	if err := s.repo.TransactWrite(ctx, ops); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, apperrors.Conflictf("One or more seats became unavailable during the hold process. Please try again.")
		}
		return nil, apperrors.Internal(fmt.Errorf("hold transaction: %w", err))
	}

	// Counter bump is fire-and-forget: its failure never fails the hold
	go func() {
		if err := s.repo.AddEventCounters(context.Background(), eventID, map[string]int{"hold_attempts": 1}); err != nil {
			s.log.WithError(err).Warn("hold_attempts counter update failed", "event_id", eventID)
		}
	}()

	s.invalidateSeatMap(ctx, eventID)
	s.publish(&notifications.BookingEvent{
		Type:      notifications.EventHoldCreated,
		EventID:   eventID,
		UserID:    req.UserID,
		HoldingID: hold.HoldingID,
		Seats:     uniqueSeats,
		Timestamp: hold.CreatedAt,
	})
	s.log.LogHoldCreated(ctx, hold.HoldingID, eventID, req.UserID, len(uniqueSeats))

	return &HoldResponse{
		HoldingID: hold.HoldingID,
		SeatsHeld: uniqueSeats,
		HoldTTL:   HoldTTLSeconds,
		ExpiresAt: hold.ExpiresAt,
	}, nil
}

func (s *service) GetEventSeats(ctx context.Context, eventID string) ([]SeatResponse, error) {
	var seats []SeatResponse
	err := s.cache.GetOrSet(ctx, constants.BuildSeatMapKey(eventID), constants.TTL_SEAT_MAP,
		func() (interface{}, error) {
			snap, err := s.repo.Snapshot(ctx, eventID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil, apperrors.NotFoundf("Event with ID %s not found", eventID)
				}
				return nil, apperrors.Internal(err)
			}

			list := make([]SeatResponse, 0, len(snap.Seats))
			for _, seat := range snap.Seats {
				list = append(list, toSeatResponse(seat))
			}
			sort.Slice(list, func(i, j int) bool { return list[i].SeatPos < list[j].SeatPos })
			return list, nil
		}, &seats)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Internal(err)
	}
	return seats, nil
}

// holdIsExpired decides whether a held seat is reclaimable. The hold record
// is the authority on freshness; a held seat without a resolvable hold has
// corrupt hold data and counts as expired.
func (s *service) holdIsExpired(snap *Snapshot, seat EventSeat) bool {
	if seat.HoldingID == "" {
		return true
	}
	hold, ok := snap.Holds[seat.HoldingID]
	if !ok {
		return true
	}
	return ids.IsExpired(hold.CreatedAt, hold.TTL)
}

// publish sends the lifecycle event without blocking the request path.
func (s *service) publish(event *notifications.BookingEvent) {
	go func() {
		if err := s.producer.PublishBookingEvent(context.Background(), event); err != nil {
			s.log.WithError(err).Warn("hold event publish failed", "event_id", event.EventID)
		}
	}()
}

func (s *service) invalidateSeatMap(ctx context.Context, eventID string) {
	if err := s.cache.Delete(ctx, constants.BuildSeatMapKey(eventID)); err != nil {
		s.log.WarnWithContext(ctx, "seat map cache invalidation failed", map[string]interface{}{"event_id": eventID})
	}
}
