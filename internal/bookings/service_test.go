package bookings

import (
	"context"
	"testing"
	"time"

	"evently/internal/notifications"
	"evently/internal/seats"
	"evently/internal/shared/apperrors"
	"evently/internal/shared/config"
	"evently/internal/shared/ids"
	"evently/internal/shared/store"
	"evently/pkg/cache"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventID = "event-11111111"
	testUserID  = "user-22222222"
)

type testEnv struct {
	svc     Service
	seatSvc seats.Service
	st      *store.Memory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.NewMemory()
	cacheService := cache.NewService(nil)
	seatRepo := seats.NewRepository(st)

	producer, err := notifications.NewProducer(config.KafkaConfig{Enabled: false})
	require.NoError(t, err)
	t.Cleanup(func() { producer.Close() })

	return &testEnv{
		svc:     NewService(NewRepository(st), seatRepo, cacheService, producer),
		seatSvc: seats.NewService(seatRepo, cacheService, producer),
		st:      st,
	}
}

func (e *testEnv) seed(t *testing.T, seatPositions ...string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, e.st.Put(ctx, store.Item{
		"pk": testEventID, "sk": "EVENT",
		"event_id": testEventID, "name": "Test Event",
		"hold_attempts": 0, "successful_bookings": 0, "cancellations": 0, "seats_sold": 0,
	}))
	require.NoError(t, e.st.Put(ctx, store.Item{
		"pk": testUserID, "sk": "USER", "user_id": testUserID, "email": "a@b.c",
	}))

	for i, pos := range seatPositions {
		item := seats.NewEventSeatItem(testEventID, pos, "A", i+1, "regular", decimal.NewFromFloat(150.50))
		require.NoError(t, e.st.Put(ctx, item))
	}
}

func (e *testEnv) hold(t *testing.T, seatPositions ...string) string {
	t.Helper()
	resp, err := e.seatSvc.HoldSeats(context.Background(), testEventID,
		seats.HoldRequest{UserID: testUserID, Seats: seatPositions})
	require.NoError(t, err)
	return resp.HoldingID
}

func frozenClock(t *testing.T, at time.Time) {
	t.Helper()
	orig := ids.Now
	ids.Now = func() time.Time { return at }
	t.Cleanup(func() { ids.Now = orig })
}

func TestConfirmBooking(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, "A-1", "A-2")
	holdingID := env.hold(t, "A-1", "A-2")

	resp, err := env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.NoError(t, err)

	assert.Contains(t, resp.BookingID, "booking-")
	assert.Equal(t, testEventID, resp.EventID)
	assert.Equal(t, testUserID, resp.UserID)
	assert.Equal(t, []string{"A-1", "A-2"}, resp.Seats)
	assert.Equal(t, StateConfirmed, resp.State)
	assert.Equal(t, PaymentSuccessful, resp.PaymentStatus)

	for _, pos := range []string{"A-1", "A-2"} {
		seat, err := env.st.Get(ctx, testEventID, pos)
		require.NoError(t, err)
		assert.Equal(t, seats.StateBooked, seat.String("seat_state"))
		assert.Equal(t, resp.BookingID, seat.String("booking_id"))
		assert.False(t, seat.Has("holding_id"))
	}

	// The hold record is gone so the holding id cannot be replayed
	_, err = env.st.Get(ctx, testEventID, holdingID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Eventually(t, func() bool {
		event, err := env.st.Get(context.Background(), testEventID, "EVENT")
		return err == nil && event.Int("successful_bookings") == 1 && event.Int("seats_sold") == 2
	}, time.Second, 10*time.Millisecond)
}

func TestConfirmBookingPaymentValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, "A-1")
	holdingID := env.hold(t, "A-1")

	for _, status := range []string{"", "refunded", "SUCCESS"} {
		_, err := env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: status})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		assert.Contains(t, apperrors.Detail(err), "Payment status must be 'successful' or 'failed'")
	}
}

func TestConfirmBookingPaymentFailedLeavesHold(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, "A-1")
	holdingID := env.hold(t, "A-1")

	_, err := env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: PaymentFailed})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "Payment failed. Booking not confirmed.")

	// The hold stays in place and lapses on its own
	seat, err := env.st.Get(ctx, testEventID, "A-1")
	require.NoError(t, err)
	assert.Equal(t, seats.StateHeld, seat.String("seat_state"))
	_, err = env.st.Get(ctx, testEventID, holdingID)
	assert.NoError(t, err)
}

func TestConfirmBookingHoldingNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "A-1")

	_, err := env.svc.ConfirmBooking(context.Background(), "holding-missing", ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "Holding with ID holding-missing not found")
}

func TestConfirmBookingExpiredHold(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, "A-1")

	frozenClock(t, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC))
	holdingID := env.hold(t, "A-1")

	frozenClock(t, time.Date(2026, 3, 15, 10, 3, 1, 0, time.UTC))
	_, err := env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindGone, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "Holding has expired")
}

func TestConfirmBookingTwice(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, "A-1")
	holdingID := env.hold(t, "A-1")

	_, err := env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.NoError(t, err)

	// The hold record was deleted by the first confirm
	_, err = env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestConfirmBookingSeatStateMoved(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, "A-1")
	holdingID := env.hold(t, "A-1")

	// Simulate a concurrent transition stealing the seat
	require.NoError(t, env.st.UpdateConditional(ctx, testEventID, "A-1",
		store.Update{Set: map[string]interface{}{
			"seat_state": seats.StateBooked,
			"booking_id": "booking-other",
			"holding_id": nil,
		}}, nil))

	_, err := env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "Seats are no longer available for confirmation")
}

func TestConfirmBookingWrongHoldingTenancy(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, "A-1")
	holdingID := env.hold(t, "A-1")

	// Seat re-pinned to a different holding between snapshot and transaction
	require.NoError(t, env.st.UpdateConditional(ctx, testEventID, "A-1",
		store.Update{Set: map[string]interface{}{"holding_id": "holding-other"}}, nil))

	_, err := env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "held by different holding")
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, "A-1", "A-2")
	holdingID := env.hold(t, "A-1", "A-2")

	confirmed, err := env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.NoError(t, err)

	resp, err := env.svc.CancelBooking(ctx, confirmed.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "Booking cancelled successfully", resp.Message)
	assert.Equal(t, confirmed.BookingID, resp.BookingID)
	assert.Equal(t, []string{"A-1", "A-2"}, resp.SeatsFreed)
	assert.NotEmpty(t, resp.CancelledAt)

	for _, pos := range []string{"A-1", "A-2"} {
		seat, err := env.st.Get(ctx, testEventID, pos)
		require.NoError(t, err)
		assert.Equal(t, seats.StateAvailable, seat.String("seat_state"))
		assert.False(t, seat.Has("booking_id"))
	}

	records, err := NewRepository(env.st).FindBookingByID(ctx, confirmed.BookingID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, StateCancelled, records[0].State)
	assert.NotEmpty(t, records[0].CancelledAt)

	assert.Eventually(t, func() bool {
		event, err := env.st.Get(context.Background(), testEventID, "EVENT")
		return err == nil && event.Int("cancellations") == 1 && event.Int("seats_sold") == 0
	}, time.Second, 10*time.Millisecond)
}

func TestFindBookingIgnoresBookedSeatRows(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, "2026-1")
	holdingID := env.hold(t, "2026-1")

	confirmed, err := env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.NoError(t, err)

	// The booked seat row carries the same booking_id and a sort key that
	// shares a prefix with booking timestamps; only the booking record may
	// come back
	records, err := NewRepository(env.st).FindBookingByID(ctx, confirmed.BookingID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"2026-1"}, records[0].Seats)

	resp, err := env.svc.CancelBooking(ctx, confirmed.BookingID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-1"}, resp.SeatsFreed)
}

func TestCancelBookingNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "A-1")

	_, err := env.svc.CancelBooking(context.Background(), "booking-missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "Booking with ID booking-missing not found")
}

func TestCancelBookingTwice(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, "A-1")
	holdingID := env.hold(t, "A-1")

	confirmed, err := env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.NoError(t, err)

	_, err = env.svc.CancelBooking(ctx, confirmed.BookingID)
	require.NoError(t, err)

	_, err = env.svc.CancelBooking(ctx, confirmed.BookingID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "Booking is already cancelled")
}

func TestCancelBookingSeatRebooked(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, "A-1")
	holdingID := env.hold(t, "A-1")

	confirmed, err := env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.NoError(t, err)

	// Seat handed to another booking out from under this one
	require.NoError(t, env.st.UpdateConditional(ctx, testEventID, "A-1",
		store.Update{Set: map[string]interface{}{"booking_id": "booking-other"}}, nil))

	_, err = env.svc.CancelBooking(ctx, confirmed.BookingID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "booked by different booking")
}

func TestSeatCanBeRebookedAfterCancel(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seed(t, "A-1")

	holdingID := env.hold(t, "A-1")
	confirmed, err := env.svc.ConfirmBooking(ctx, holdingID, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.NoError(t, err)

	_, err = env.svc.CancelBooking(ctx, confirmed.BookingID)
	require.NoError(t, err)

	// Full second cycle over the same seat
	secondHolding := env.hold(t, "A-1")
	second, err := env.svc.ConfirmBooking(ctx, secondHolding, ConfirmRequest{PaymentStatus: PaymentSuccessful})
	require.NoError(t, err)
	assert.NotEqual(t, confirmed.BookingID, second.BookingID)

	seat, err := env.st.Get(ctx, testEventID, "A-1")
	require.NoError(t, err)
	assert.Equal(t, seats.StateBooked, seat.String("seat_state"))
	assert.Equal(t, second.BookingID, seat.String("booking_id"))
}
