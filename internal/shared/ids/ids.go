// Package ids centralizes identifier generation and the UTC clock used for
// hold/booking timestamps and expiry arithmetic.
package ids

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ISOFormat is the timestamp layout used everywhere a timestamp is persisted.
// Fixed-width fractional seconds keep lexicographic order identical to
// chronological order, which the booking sort key relies on.
const ISOFormat = "2006-01-02T15:04:05.000000"

// Now returns the current UTC time. Tests may swap it out to control expiry.
var Now = func() time.Time { return time.Now().UTC() }

func shortID(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// NewEventID returns "event-" plus 8 hex chars of a fresh UUID.
func NewEventID() string { return shortID("event") }

// NewVenueID returns "venue-" plus 8 hex chars of a fresh UUID.
func NewVenueID() string { return shortID("venue") }

// NewUserID returns "user-" plus 8 hex chars of a fresh UUID.
func NewUserID() string { return shortID("user") }

// NewHoldingID returns "holding-" plus a full UUID. Holding IDs double as
// sort keys, so the full UUID keeps them collision-free.
func NewHoldingID() string { return "holding-" + uuid.New().String() }

// NewBookingID returns "booking-" plus a full UUID.
func NewBookingID() string { return "booking-" + uuid.New().String() }

// NowISO returns the current UTC timestamp in ISOFormat.
func NowISO() string {
	return Now().Format(ISOFormat)
}

// ExpiryISO returns the timestamp ttlSeconds from now in ISOFormat.
func ExpiryISO(ttlSeconds int) string {
	return Now().Add(time.Duration(ttlSeconds) * time.Second).Format(ISOFormat)
}

// ParseISO parses a persisted timestamp, tolerating a trailing "Z" and a
// missing fractional part.
func ParseISO(value string) (time.Time, error) {
	trimmed := strings.TrimSuffix(value, "Z")
	if t, err := time.Parse(ISOFormat, trimmed); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999999", trimmed); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", trimmed)
}

// IsExpired reports whether a hold created at createdAt with the given TTL
// has lapsed. Unparseable timestamps count as expired: a hold we cannot
// reason about must never block a seat.
func IsExpired(createdAt string, ttlSeconds int) bool {
	created, err := ParseISO(createdAt)
	if err != nil {
		return true
	}
	expiry := created.Add(time.Duration(ttlSeconds) * time.Second)
	return Now().After(expiry)
}
