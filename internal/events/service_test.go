package events

import (
	"context"
	"testing"

	"evently/internal/shared/apperrors"
	"evently/internal/shared/store"
	"evently/internal/venues"
	"evently/pkg/cache"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, Repository, venues.Repository, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	repo := NewRepository(st)
	venueRepo := venues.NewRepository(st)
	svc := NewService(repo, venueRepo, cache.NewService(nil))
	return svc, repo, venueRepo, st
}

type seatBlock struct {
	seatType string
	count    int
}

func seedVenue(t *testing.T, venueRepo venues.Repository, venueID, city string, seatTypes []string, blocks []seatBlock) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, venueRepo.CreateVenue(ctx, &venues.Venue{
		VenueID:   venueID,
		Name:      "Test Hall",
		City:      city,
		SeatTypes: seatTypes,
	}))

	row := 'A'
	for _, block := range blocks {
		for i := 1; i <= block.count; i++ {
			require.NoError(t, venueRepo.CreateSeat(ctx, &venues.VenueSeat{
				VenueID:  venueID,
				Row:      string(row),
				SeatNum:  i,
				SeatType: block.seatType,
				SeatPos:  venues.SeatPos(string(row), i),
			}))
		}
		row++
	}
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()
	svc, _, venueRepo, st := newTestService(t)
	seedVenue(t, venueRepo, "venue-1", "Mumbai", []string{"regular", "vip"},
		[]seatBlock{{"regular", 3}, {"vip", 2}})

	resp, err := svc.CreateEvent(ctx, CreateEventRequest{
		VenueID:        "venue-1",
		Name:           "Rock Night",
		StartTime:      "2026-06-01T19:00:00",
		Duration:       120,
		Artists:        []string{"The Strings"},
		SeatTypePrices: map[string]float64{"regular": 150.50, "vip": 500},
	})
	require.NoError(t, err)

	assert.Contains(t, resp.EventID, "event-")
	assert.Equal(t, 5, resp.SeatsCreated)
	assert.Equal(t, 150.50, resp.SeatTypePrices["regular"])

	// Event record carries zeroed counters
	event, err := st.Get(ctx, resp.EventID, "EVENT")
	require.NoError(t, err)
	assert.Equal(t, 0, event.Int("hold_attempts"))
	assert.Equal(t, 0, event.Int("seats_sold"))

	// Every venue seat became an available event seat at its type's price
	items, err := st.Query(ctx, resp.EventID)
	require.NoError(t, err)
	assert.Len(t, items, 6) // event record + 5 seats

	seat, err := st.Get(ctx, resp.EventID, "A-1")
	require.NoError(t, err)
	assert.Equal(t, "available", seat.String("seat_state"))
	assert.True(t, seat.Decimal("price").Equal(decimal.NewFromFloat(150.50)))
}

func TestCreateEventVenueNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		VenueID:        "venue-missing",
		Name:           "Rock Night",
		StartTime:      "2026-06-01T19:00:00",
		Duration:       120,
		SeatTypePrices: map[string]float64{"regular": 100},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "Venue with ID venue-missing not found")
}

func TestCreateEventMissingPrice(t *testing.T) {
	svc, _, venueRepo, _ := newTestService(t)
	seedVenue(t, venueRepo, "venue-1", "Mumbai", []string{"regular", "vip"},
		[]seatBlock{{"regular", 2}, {"vip", 1}})

	_, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		VenueID:        "venue-1",
		Name:           "Rock Night",
		StartTime:      "2026-06-01T19:00:00",
		Duration:       120,
		SeatTypePrices: map[string]float64{"regular": 100},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "Price not provided for seat type 'vip'")
}

func TestCreateEventNoSeatsInVenue(t *testing.T) {
	svc, _, venueRepo, _ := newTestService(t)
	seedVenue(t, venueRepo, "venue-1", "Mumbai", []string{"regular"}, nil)

	_, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		VenueID:        "venue-1",
		Name:           "Rock Night",
		StartTime:      "2026-06-01T19:00:00",
		Duration:       120,
		SeatTypePrices: map[string]float64{"regular": 100},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "No valid seats found in venue")
}

func TestGetEventByID(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newTestService(t)

	require.NoError(t, repo.CreateEvent(ctx, &Event{
		EventID:   "event-abc",
		VenueID:   "venue-1",
		Name:      "Jazz Evening",
		StartTime: "2026-06-01T19:00:00",
		Duration:  90,
		SeatTypePrices: map[string]decimal.Decimal{
			"regular": decimal.NewFromInt(200),
		},
	}))

	got, err := svc.GetEventByID(ctx, "event-abc")
	require.NoError(t, err)
	assert.Equal(t, "Jazz Evening", got.Name)
	assert.Equal(t, 200.0, got.SeatTypePrices["regular"])
	assert.NotNil(t, got.Artists)

	_, err = svc.GetEventByID(ctx, "event-missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestGetEvents(t *testing.T) {
	ctx := context.Background()
	svc, repo, venueRepo, _ := newTestService(t)

	require.NoError(t, venueRepo.CreateVenue(ctx, &venues.Venue{VenueID: "venue-mum", City: "Mumbai"}))
	require.NoError(t, venueRepo.CreateVenue(ctx, &venues.Venue{VenueID: "venue-blr", City: "Bengaluru"}))

	seed := []Event{
		{EventID: "event-1", VenueID: "venue-mum", Name: "Rock Night", StartTime: "2026-05-01T19:00:00"},
		{EventID: "event-2", VenueID: "venue-blr", Name: "Jazz Evening", StartTime: "2026-06-15T19:00:00"},
		{EventID: "event-3", VenueID: "venue-mum", Name: "Comedy Show", StartTime: "2026-07-30T19:00:00"},
	}
	for i := range seed {
		require.NoError(t, repo.CreateEvent(ctx, &seed[i]))
	}

	t.Run("lists newest first", func(t *testing.T) {
		list, err := svc.GetEvents(ctx, ListEventsQuery{})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "event-3", list[0].EventID)
		assert.Equal(t, "event-1", list[2].EventID)
	})

	t.Run("date range", func(t *testing.T) {
		list, err := svc.GetEvents(ctx, ListEventsQuery{StartDate: "2026-06-01", EndDate: "2026-07-01"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "event-2", list[0].EventID)
	})

	t.Run("city filter", func(t *testing.T) {
		list, err := svc.GetEvents(ctx, ListEventsQuery{City: "mumbai"})
		require.NoError(t, err)
		require.Len(t, list, 2)
	})

	t.Run("search", func(t *testing.T) {
		list, err := svc.GetEvents(ctx, ListEventsQuery{Search: "jazz"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "event-2", list[0].EventID)
	})

	t.Run("pagination", func(t *testing.T) {
		list, err := svc.GetEvents(ctx, ListEventsQuery{Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "event-1", list[0].EventID)
	})
}

func TestQueryHash(t *testing.T) {
	assert.Empty(t, queryHash(ListEventsQuery{}))
	assert.Empty(t, queryHash(ListEventsQuery{Limit: 50}))

	filtered := queryHash(ListEventsQuery{City: "Mumbai"})
	assert.NotEmpty(t, filtered)
	assert.Equal(t, filtered, queryHash(ListEventsQuery{City: "Mumbai"}))
	assert.NotEqual(t, filtered, queryHash(ListEventsQuery{City: "Pune"}))
}
