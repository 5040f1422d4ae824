package venues

import (
	"context"
	"testing"

	"evently/internal/shared/apperrors"
	"evently/internal/shared/store"
	"evently/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	svc := NewService(NewRepository(st), cache.NewService(nil))
	return svc, st
}

func createVenue(t *testing.T, svc Service) *Venue {
	t.Helper()
	venue, err := svc.CreateVenue(context.Background(), CreateVenueRequest{
		Name:      "Grand Hall",
		City:      "Mumbai",
		SeatTypes: []string{"regular", "vip"},
	})
	require.NoError(t, err)
	return venue
}

func TestCreateVenue(t *testing.T) {
	svc, _ := newTestService(t)

	venue := createVenue(t, svc)
	assert.Contains(t, venue.VenueID, "venue-")
	assert.Equal(t, "Grand Hall", venue.Name)
	assert.Equal(t, []string{"regular", "vip"}, venue.SeatTypes)
	assert.NotEmpty(t, venue.CreatedAt)

	got, err := svc.GetVenueByID(context.Background(), venue.VenueID)
	require.NoError(t, err)
	assert.Equal(t, venue.VenueID, got.VenueID)
	assert.Equal(t, "Mumbai", got.City)
}

func TestGetVenueByIDNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetVenueByID(context.Background(), "venue-missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "Venue with ID venue-missing not found")
}

func TestGetVenuesCityFilter(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateVenue(ctx, CreateVenueRequest{Name: "Hall A", City: "Mumbai", SeatTypes: []string{"regular"}})
	require.NoError(t, err)
	_, err = svc.CreateVenue(ctx, CreateVenueRequest{Name: "Hall B", City: "Pune", SeatTypes: []string{"regular"}})
	require.NoError(t, err)

	all, err := svc.GetVenues(ctx, VenueFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pune, err := svc.GetVenues(ctx, VenueFilters{City: "Pune"})
	require.NoError(t, err)
	require.Len(t, pune, 1)
	assert.Equal(t, "Hall B", pune[0].Name)
}

func TestCreateSeats(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	venue := createVenue(t, svc)

	created, err := svc.CreateSeats(ctx, venue.VenueID, CreateSeatsRequest{Seats: []SeatInput{
		{Row: "A", SeatNum: 1, SeatType: "regular"},
		{Row: "A", SeatNum: 2, SeatType: "vip"},
	}})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "A-1", created[0].SeatPos)
	assert.Equal(t, "A-2", created[1].SeatPos)

	item, err := st.Get(ctx, venue.VenueID, "A-1")
	require.NoError(t, err)
	assert.Equal(t, "regular", item.String("seat_type"))
}

func TestCreateSeatsInvalidType(t *testing.T) {
	svc, _ := newTestService(t)
	venue := createVenue(t, svc)

	_, err := svc.CreateSeats(context.Background(), venue.VenueID, CreateSeatsRequest{Seats: []SeatInput{
		{Row: "A", SeatNum: 1, SeatType: "balcony"},
	}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "Seat type 'balcony' not valid for this venue")
}

func TestCreateSeatsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	venue := createVenue(t, svc)

	_, err := svc.CreateSeats(ctx, venue.VenueID, CreateSeatsRequest{Seats: []SeatInput{
		{Row: "A", SeatNum: 1, SeatType: "regular"},
	}})
	require.NoError(t, err)

	_, err = svc.CreateSeats(ctx, venue.VenueID, CreateSeatsRequest{Seats: []SeatInput{
		{Row: "A", SeatNum: 1, SeatType: "vip"},
	}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Contains(t, apperrors.Detail(err), "Seat A-1 already exists")
}

func TestCreateSeatsVenueNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateSeats(context.Background(), "venue-missing", CreateSeatsRequest{Seats: []SeatInput{
		{Row: "A", SeatNum: 1, SeatType: "regular"},
	}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestGetSeatsByVenueID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	venue := createVenue(t, svc)

	seats, err := svc.GetSeatsByVenueID(ctx, venue.VenueID)
	require.NoError(t, err)
	assert.Empty(t, seats)

	_, err = svc.CreateSeats(ctx, venue.VenueID, CreateSeatsRequest{Seats: []SeatInput{
		{Row: "A", SeatNum: 1, SeatType: "regular"},
		{Row: "B", SeatNum: 1, SeatType: "vip"},
	}})
	require.NoError(t, err)

	seats, err = svc.GetSeatsByVenueID(ctx, venue.VenueID)
	require.NoError(t, err)
	assert.Len(t, seats, 2)

	_, err = svc.GetSeatsByVenueID(ctx, "venue-missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestDeleteVenue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	t.Run("unknown venue", func(t *testing.T) {
		err := svc.DeleteVenue(ctx, "venue-missing")
		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	t.Run("refuses while seats exist", func(t *testing.T) {
		venue := createVenue(t, svc)
		_, err := svc.CreateSeats(ctx, venue.VenueID, CreateSeatsRequest{Seats: []SeatInput{
			{Row: "A", SeatNum: 1, SeatType: "regular"},
		}})
		require.NoError(t, err)

		err = svc.DeleteVenue(ctx, venue.VenueID)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		assert.Contains(t, apperrors.Detail(err), "Cannot delete venue with existing seats")
	})

	t.Run("empty venue deletes", func(t *testing.T) {
		venue := createVenue(t, svc)
		assert.NoError(t, svc.DeleteVenue(ctx, venue.VenueID))
	})
}
