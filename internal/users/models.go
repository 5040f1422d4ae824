package users

import "evently/internal/shared/store"

// User is the (user_id, "USER") record.
type User struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

// UserBooking is the booking shape returned from the per-user listing. It is
// a projection of the booking record, kept local to avoid coupling to the
// bookings package.
type UserBooking struct {
	BookingID   string   `json:"booking_id"`
	EventID     string   `json:"event_id"`
	Seats       []string `json:"seats"`
	BookingDate string   `json:"booking_date"`
	State       string   `json:"state"`
}

const userSK = "USER"

func (u *User) toItem() store.Item {
	return store.Item{
		"pk":         u.UserID,
		"sk":         userSK,
		"user_id":    u.UserID,
		"email":      u.Email,
		"phone":      u.Phone,
		"created_at": u.CreatedAt,
	}
}

func userFromItem(item store.Item) *User {
	return &User{
		UserID:    item.String("user_id"),
		Email:     item.String("email"),
		Phone:     item.String("phone"),
		CreatedAt: item.String("created_at"),
	}
}

func bookingFromItem(item store.Item) UserBooking {
	return UserBooking{
		BookingID:   item.String("booking_id"),
		EventID:     item.String("event_id"),
		Seats:       item.StringSlice("seats"),
		BookingDate: item.String("booking_date"),
		State:       item.String("state"),
	}
}
