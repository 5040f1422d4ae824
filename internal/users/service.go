package users

import (
	"context"
	"errors"

	"evently/internal/shared/apperrors"
	"evently/internal/shared/constants"
	"evently/internal/shared/ids"
	"evently/internal/shared/store"
	"evently/pkg/cache"
	"evently/pkg/logger"
)

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserBookings(ctx context.Context, userID string) ([]UserBooking, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService, log: logger.GetDefault()}
}

func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	user := &User{
		UserID:    ids.NewUserID(),
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: ids.NowISO(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.InfoWithContext(ctx, "User Created", map[string]interface{}{"user_id": user.UserID})
	return user, nil
}

func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("User with ID %s not found", userID)
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// GetUserBookings lists a user's bookings, most recent first. The listing is
// cached briefly; confirm and cancel invalidate it by pattern.
func (s *service) GetUserBookings(ctx context.Context, userID string) ([]UserBooking, error) {
	var bookings []UserBooking
	err := s.cache.GetOrSet(ctx, constants.BuildUserBookingsKey(userID), constants.TTL_USER_BOOKINGS,
		func() (interface{}, error) {
			if _, err := s.GetUserByID(ctx, userID); err != nil {
				return nil, err
			}

			list, err := s.repo.GetBookingsByUserID(ctx, userID)
			if err != nil {
				return nil, apperrors.Internal(err)
			}
			return list, nil
		}, &bookings)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Internal(err)
	}
	return bookings, nil
}
