package seats

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"evently/internal/shared/store"
)

// Snapshot is one consistent-enough read of an event partition, split into
// the event record, the seat rows, and the live hold records. It backs the
// availability checks in hold, confirm, and cancel.
type Snapshot struct {
	Event store.Item
	Seats map[string]EventSeat
	Holds map[string]Hold
}

// Repository gives the reservation core its store access. Bookings reuse it
// for seat re-validation and counter updates.
type Repository interface {
	// Snapshot reads the whole event partition. Returns store.ErrNotFound
	// when the event record itself is absent.
	Snapshot(ctx context.Context, eventID string) (*Snapshot, error)

	// UserExists checks the (user_id, "USER") record.
	UserExists(ctx context.Context, userID string) (bool, error)

	// FindHoldByID locates a hold across partitions. More than one match is
	// impossible under the ID scheme; callers get the first.
	FindHoldByID(ctx context.Context, holdingID string) ([]Hold, error)

	// ReclaimSeat resets one expired held seat to available, best-effort.
	ReclaimSeat(ctx context.Context, eventID, seatPos, staleHoldingID string) error

	// TransactWrite applies a reservation transaction.
	TransactWrite(ctx context.Context, ops []store.WriteOp) error

	// AddEventCounters bumps the analytics counters on the event record.
	AddEventCounters(ctx context.Context, eventID string, add map[string]int) error
}

type repository struct {
	store store.Store
}

func NewRepository(st store.Store) Repository {
	return &repository{store: st}
}

func (r *repository) Snapshot(ctx context.Context, eventID string) (*Snapshot, error) {
	items, err := r.store.Query(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("query event partition: %w", err)
	}

	snap := &Snapshot{
		Seats: make(map[string]EventSeat),
		Holds: make(map[string]Hold),
	}
	for _, item := range items {
		switch {
		case item.SK() == EventSK:
			snap.Event = item
		case IsSeatRow(item):
			seat := SeatFromItem(item)
			snap.Seats[seat.SeatPos] = seat
		case strings.HasPrefix(item.SK(), HoldingPrefix):
			hold := HoldFromItem(item)
			snap.Holds[hold.HoldingID] = hold
		}
	}

	if snap.Event == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, store.ErrNotFound)
	}
	return snap, nil
}

func (r *repository) UserExists(ctx context.Context, userID string) (bool, error) {
	_, err := r.store.Get(ctx, userID, "USER")
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *repository) FindHoldByID(ctx context.Context, holdingID string) ([]Hold, error) {
	items, err := r.store.Scan(ctx, store.ScanFilter{
		Equals:   map[string]interface{}{"holding_id": holdingID},
		SKPrefix: HoldingPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("scan holds: %w", err)
	}

	holds := make([]Hold, 0, len(items))
	for _, item := range items {
		holds = append(holds, HoldFromItem(item))
	}
	return holds, nil
}

func (r *repository) ReclaimSeat(ctx context.Context, eventID, seatPos, staleHoldingID string) error {
	upd, cond := reclaimUpdate(staleHoldingID)
	return r.store.UpdateConditional(ctx, eventID, seatPos, upd, cond)
}

func (r *repository) TransactWrite(ctx context.Context, ops []store.WriteOp) error {
	return r.store.TransactWrite(ctx, ops)
}

func (r *repository) AddEventCounters(ctx context.Context, eventID string, add map[string]int) error {
	return r.store.UpdateConditional(ctx, eventID, EventSK,
		store.Update{Add: add},
		&store.Condition{Exists: []string{"pk"}})
}
