package seats

import (
	"evently/internal/shared/store"
)

// Conditional-write builders for the seat state machine. Every transition is
// guarded by a predicate on the current seat row; composing these into one
// TransactWrite is what makes double-booking impossible.

// HoldPutOp writes the hold record.
func HoldPutOp(h *Hold) store.WriteOp {
	return store.WriteOp{Put: &store.PutOp{Item: h.toItem()}}
}

// HoldSeatOp flips one seat available -> held. Fails if the seat is not
// currently available, which serializes racing holds.
func HoldSeatOp(eventID, seatPos, holdingID string, ttl int) store.WriteOp {
	return store.WriteOp{Update: &store.UpdateOp{
		PK: eventID,
		SK: seatPos,
		Update: store.Update{Set: map[string]interface{}{
			"seat_state": StateHeld,
			"holding_id": holdingID,
			"hold_ttl":   ttl,
		}},
		Condition: &store.Condition{
			Equals: map[string]interface{}{"seat_state": StateAvailable},
		},
	}}
}

// ConfirmSeatOp flips one seat held -> booked under the tenancy predicate:
// only the holding that placed the hold may promote it.
func ConfirmSeatOp(eventID, seatPos, holdingID, bookingID, nowISO string) store.WriteOp {
	return store.WriteOp{Update: &store.UpdateOp{
		PK: eventID,
		SK: seatPos,
		Update: store.Update{Set: map[string]interface{}{
			"seat_state": StateBooked,
			"booking_id": bookingID,
			"holding_id": nil,
			"hold_ttl":   nil,
			"updated_at": nowISO,
		}},
		Condition: &store.Condition{
			Equals: map[string]interface{}{
				"seat_state": StateHeld,
				"holding_id": holdingID,
			},
			Exists: []string{"pk"},
		},
	}}
}

// ReleaseSeatOp flips one seat booked -> available on cancellation. Only the
// booking that owns the seat may release it.
func ReleaseSeatOp(eventID, seatPos, bookingID, nowISO string) store.WriteOp {
	return store.WriteOp{Update: &store.UpdateOp{
		PK: eventID,
		SK: seatPos,
		Update: store.Update{Set: map[string]interface{}{
			"seat_state": StateAvailable,
			"booking_id": nil,
			"holding_id": nil,
			"hold_ttl":   nil,
			"updated_at": nowISO,
		}},
		Condition: &store.Condition{
			Equals: map[string]interface{}{
				"seat_state": StateBooked,
				"booking_id": bookingID,
			},
			Exists: []string{"pk"},
		},
	}}
}

// DeleteHoldOp removes the hold record so the holding id can never be
// replayed after a confirm.
func DeleteHoldOp(eventID, holdingID string) store.WriteOp {
	return store.WriteOp{Delete: &store.DeleteOp{
		PK: eventID,
		SK: holdingID,
		Condition: &store.Condition{
			Equals: map[string]interface{}{"holding_id": holdingID},
		},
	}}
}

// reclaimUpdate resets an expired held seat to available, guarded against
// the hold having moved on. Used only by the best-effort pre-step; the real
// serialization point is the available predicate in HoldSeatOp.
func reclaimUpdate(staleHoldingID string) (store.Update, *store.Condition) {
	upd := store.Update{Set: map[string]interface{}{
		"seat_state": StateAvailable,
		"holding_id": nil,
		"hold_ttl":   nil,
	}}
	cond := &store.Condition{Equals: map[string]interface{}{
		"seat_state": StateHeld,
	}}
	// Seats with corrupt hold data have no holding_id to pin the predicate on
	if staleHoldingID != "" {
		cond.Equals["holding_id"] = staleHoldingID
	}
	return upd, cond
}
