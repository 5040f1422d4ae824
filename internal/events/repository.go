package events

import (
	"context"
	"fmt"

	"evently/internal/shared/store"
)

type Repository interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEventByID(ctx context.Context, eventID string) (*Event, error)
	GetEvents(ctx context.Context) ([]Event, error)
	CreateEventSeat(ctx context.Context, item store.Item) error
}

type repository struct {
	store store.Store
}

func NewRepository(st store.Store) Repository {
	return &repository{store: st}
}

func (r *repository) CreateEvent(ctx context.Context, event *Event) error {
	return r.store.Put(ctx, event.toItem())
}

func (r *repository) GetEventByID(ctx context.Context, eventID string) (*Event, error) {
	item, err := r.store.Get(ctx, eventID, eventSK)
	if err != nil {
		return nil, err
	}
	return eventFromItem(item), nil
}

func (r *repository) GetEvents(ctx context.Context) ([]Event, error) {
	items, err := r.store.Scan(ctx, store.ScanFilter{
		Equals: map[string]interface{}{"sk": eventSK},
	})
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}

	events := make([]Event, 0, len(items))
	for _, item := range items {
		events = append(events, *eventFromItem(item))
	}
	return events, nil
}

func (r *repository) CreateEventSeat(ctx context.Context, item store.Item) error {
	return r.store.Put(ctx, item)
}
