package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPutGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	item := Item{"pk": "event-1", "sk": "A-1", "seat_state": "available"}
	require.NoError(t, m.Put(ctx, item))

	got, err := m.Get(ctx, "event-1", "A-1")
	require.NoError(t, err)
	assert.Equal(t, "available", got.String("seat_state"))

	_, err = m.Get(ctx, "event-1", "A-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, Item{"pk": "event-1", "sk": "A-1", "seat_state": "available"}))

	got, err := m.Get(ctx, "event-1", "A-1")
	require.NoError(t, err)
	got["seat_state"] = "booked"

	again, err := m.Get(ctx, "event-1", "A-1")
	require.NoError(t, err)
	assert.Equal(t, "available", again.String("seat_state"))
}

func TestMemoryQueryPrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, sk := range []string{"EVENT", "A-1", "A-2", "holding-abc"} {
		require.NoError(t, m.Put(ctx, Item{"pk": "event-1", "sk": sk}))
	}
	require.NoError(t, m.Put(ctx, Item{"pk": "event-2", "sk": "A-1"}))

	all, err := m.Query(ctx, "event-1")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	holds, err := m.QueryPrefix(ctx, "event-1", "holding-")
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, "holding-abc", holds[0].SK())
}

func TestMemoryQuerySortsBySortKey(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, sk := range []string{"C-1", "A-1", "B-1"} {
		require.NoError(t, m.Put(ctx, Item{"pk": "event-1", "sk": sk}))
	}

	items, err := m.Query(ctx, "event-1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "A-1", items[0].SK())
	assert.Equal(t, "B-1", items[1].SK())
	assert.Equal(t, "C-1", items[2].SK())
}

func TestMemoryScan(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, Item{"pk": "event-1", "sk": "holding-abc", "holding_id": "holding-abc"}))
	require.NoError(t, m.Put(ctx, Item{"pk": "event-2", "sk": "holding-def", "holding_id": "holding-def"}))
	require.NoError(t, m.Put(ctx, Item{"pk": "event-2", "sk": "A-1", "holding_id": "holding-abc"}))

	items, err := m.Scan(ctx, ScanFilter{
		Equals:   map[string]interface{}{"holding_id": "holding-abc"},
		SKPrefix: "holding-",
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "event-1", items[0].PK())
}

func TestMemoryScanMatchesNumericAcrossTypes(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, Item{"pk": "event-1", "sk": "A-1", "price": decimal.NewFromFloat(250.50)}))

	items, err := m.Scan(ctx, ScanFilter{Equals: map[string]interface{}{"price": 250.50}})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestMemoryUpdateConditional(t *testing.T) {
	ctx := context.Background()

	t.Run("equals predicate gates the write", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.Put(ctx, Item{"pk": "event-1", "sk": "A-1", "seat_state": "available"}))

		err := m.UpdateConditional(ctx, "event-1", "A-1",
			Update{Set: map[string]interface{}{"seat_state": "held"}},
			&Condition{Equals: map[string]interface{}{"seat_state": "available"}})
		require.NoError(t, err)

		err = m.UpdateConditional(ctx, "event-1", "A-1",
			Update{Set: map[string]interface{}{"seat_state": "booked"}},
			&Condition{Equals: map[string]interface{}{"seat_state": "available"}})
		assert.ErrorIs(t, err, ErrConditionFailed)

		got, err := m.Get(ctx, "event-1", "A-1")
		require.NoError(t, err)
		assert.Equal(t, "held", got.String("seat_state"))
	})

	t.Run("equals fails against an absent item", func(t *testing.T) {
		m := NewMemory()
		err := m.UpdateConditional(ctx, "event-1", "A-1",
			Update{Set: map[string]interface{}{"seat_state": "held"}},
			&Condition{Equals: map[string]interface{}{"seat_state": "available"}})
		assert.ErrorIs(t, err, ErrConditionFailed)
	})

	t.Run("exists fails on a nulled attribute", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.Put(ctx, Item{"pk": "event-1", "sk": "A-1", "holding_id": nil}))

		err := m.UpdateConditional(ctx, "event-1", "A-1",
			Update{Set: map[string]interface{}{"seat_state": "held"}},
			&Condition{Exists: []string{"holding_id"}})
		assert.ErrorIs(t, err, ErrConditionFailed)
	})

	t.Run("not-exists passes on an absent item and creates it", func(t *testing.T) {
		m := NewMemory()
		err := m.UpdateConditional(ctx, "event-1", "EVENT",
			Update{Add: map[string]int{"hold_attempts": 1}},
			&Condition{NotExists: []string{"booking_id"}})
		require.NoError(t, err)

		got, err := m.Get(ctx, "event-1", "EVENT")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Int("hold_attempts"))
	})

	t.Run("add increments and can go negative", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.Put(ctx, Item{"pk": "event-1", "sk": "EVENT", "seats_sold": 3}))

		require.NoError(t, m.UpdateConditional(ctx, "event-1", "EVENT",
			Update{Add: map[string]int{"seats_sold": -2}}, nil))

		got, err := m.Get(ctx, "event-1", "EVENT")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Int("seats_sold"))
	})
}

func TestMemoryTransactWriteAllOrNothing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, Item{"pk": "event-1", "sk": "A-1", "seat_state": "available"}))
	require.NoError(t, m.Put(ctx, Item{"pk": "event-1", "sk": "A-2", "seat_state": "booked"}))

	hold := func(sk string) WriteOp {
		return WriteOp{Update: &UpdateOp{
			PK: "event-1", SK: sk,
			Update:    Update{Set: map[string]interface{}{"seat_state": "held"}},
			Condition: &Condition{Equals: map[string]interface{}{"seat_state": "available"}},
		}}
	}

	err := m.TransactWrite(ctx, []WriteOp{hold("A-1"), hold("A-2")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransactionCanceled)
	assert.ErrorIs(t, err, ErrConditionFailed)

	// The passing op must not have applied
	got, err := m.Get(ctx, "event-1", "A-1")
	require.NoError(t, err)
	assert.Equal(t, "available", got.String("seat_state"))
}

func TestMemoryTransactWriteApplies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, Item{"pk": "event-1", "sk": "A-1", "seat_state": "held", "holding_id": "holding-abc"}))
	require.NoError(t, m.Put(ctx, Item{"pk": "event-1", "sk": "holding-abc", "holding_id": "holding-abc"}))

	err := m.TransactWrite(ctx, []WriteOp{
		{Put: &PutOp{
			Item:      Item{"pk": "event-1", "sk": "2026-01-01T00:00:00.000000", "booking_id": "booking-1"},
			Condition: &Condition{NotExists: []string{"booking_id"}},
		}},
		{Update: &UpdateOp{
			PK: "event-1", SK: "A-1",
			Update: Update{Set: map[string]interface{}{"seat_state": "booked", "booking_id": "booking-1", "holding_id": nil}},
			Condition: &Condition{Equals: map[string]interface{}{
				"seat_state": "held",
				"holding_id": "holding-abc",
			}},
		}},
		{Delete: &DeleteOp{
			PK: "event-1", SK: "holding-abc",
			Condition: &Condition{Equals: map[string]interface{}{"holding_id": "holding-abc"}},
		}},
	})
	require.NoError(t, err)

	seat, err := m.Get(ctx, "event-1", "A-1")
	require.NoError(t, err)
	assert.Equal(t, "booked", seat.String("seat_state"))
	assert.Equal(t, "booking-1", seat.String("booking_id"))
	assert.False(t, seat.Has("holding_id"))

	_, err = m.Get(ctx, "event-1", "holding-abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTransactWriteRejectsEmptyOp(t *testing.T) {
	m := NewMemory()
	err := m.TransactWrite(context.Background(), []WriteOp{{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransactionCanceled)
	assert.False(t, errors.Is(err, ErrConditionFailed))
}
