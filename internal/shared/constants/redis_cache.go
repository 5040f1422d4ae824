package constants

import (
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the Evently application
// Pattern: evently:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_LONG  = 4 * time.Hour    // 4 hours - for venue layouts
	TTL_SEMI_STATIC_SHORT = 1 * time.Hour    // 1 hour - for event listings
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute // 15 minutes - for filtered searches
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes
)

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_REALTIME_MEDIUM = 1 * time.Minute  // 1 minute - for analytics
	TTL_REALTIME_SHORT  = 30 * time.Second // 30 seconds - for live seat maps
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "evently"
)

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENTS_LIST   = CACHE_PREFIX + ":events:list"         // + :filter-hash
	CACHE_KEY_EVENT_DETAIL  = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
	CACHE_KEY_VENUE_DETAIL  = CACHE_PREFIX + ":venues:detail:uuid:" // + venue-id
	CACHE_KEY_VENUE_SEATS   = CACHE_PREFIX + ":venues:seats:uuid:"  // + venue-id
)

const (
	TTL_EVENT_LIST   = TTL_SEMI_STATIC_QUICK // 15 minutes
	TTL_EVENT_DETAIL = TTL_SEMI_STATIC_SHORT // 1 hour
	TTL_VENUE_DETAIL = TTL_SEMI_STATIC_LONG  // 4 hours
	TTL_VENUE_SEATS  = TTL_SEMI_STATIC_LONG  // 4 hours
)

// ================== SEATS MODULE ==================

const (
	// Live seat map for an event, invalidated on every hold/confirm/cancel
	CACHE_KEY_SEAT_MAP = CACHE_PREFIX + ":seats:map:event:" // + event-id
)

const (
	TTL_SEAT_MAP = TTL_REALTIME_SHORT // 30 seconds
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_ANALYTICS_EVENT    = CACHE_PREFIX + ":analytics:event:uuid:" // + event-id
	CACHE_KEY_ANALYTICS_SEATS    = CACHE_PREFIX + ":analytics:seats:uuid:" // + event-id
	CACHE_KEY_ANALYTICS_BOOKINGS = CACHE_PREFIX + ":analytics:bookings:uuid:" // + event-id
)

const (
	TTL_ANALYTICS_EVENT    = TTL_REALTIME_MEDIUM // 1 minute
	TTL_ANALYTICS_SEATS    = TTL_REALTIME_MEDIUM // 1 minute
	TTL_ANALYTICS_BOOKINGS = TTL_REALTIME_MEDIUM // 1 minute
)

// ================== BOOKINGS MODULE ==================

const (
	CACHE_KEY_USER_BOOKINGS = CACHE_PREFIX + ":bookings:user:uuid:" // + user-id
)

const (
	TTL_USER_BOOKINGS = TTL_DYNAMIC_SHORT // 5 minutes
)

// ================== CACHE INVALIDATION PATTERNS ==================

// Patterns for cache invalidation (used with Redis SCAN or manual invalidation)
const (
	PATTERN_INVALIDATE_EVENT_ALL = CACHE_PREFIX + ":events:*"
	PATTERN_INVALIDATE_ANALYTICS = CACHE_PREFIX + ":analytics:*"
	PATTERN_INVALIDATE_SEATS     = CACHE_PREFIX + ":seats:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildEventListKey(filterHash string) string {
	if filterHash == "" {
		return CACHE_KEY_EVENTS_LIST + ":all"
	}
	return CACHE_KEY_EVENTS_LIST + ":" + filterHash
}

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildVenueDetailKey(venueID string) string {
	return CACHE_KEY_VENUE_DETAIL + venueID
}

func BuildVenueSeatsKey(venueID string) string {
	return CACHE_KEY_VENUE_SEATS + venueID
}

func BuildSeatMapKey(eventID string) string {
	return CACHE_KEY_SEAT_MAP + eventID
}

func BuildAnalyticsEventKey(eventID string) string {
	return CACHE_KEY_ANALYTICS_EVENT + eventID
}

func BuildAnalyticsSeatsKey(eventID string) string {
	return CACHE_KEY_ANALYTICS_SEATS + eventID
}

func BuildAnalyticsBookingsKey(eventID string) string {
	return CACHE_KEY_ANALYTICS_BOOKINGS + eventID
}

// BuildUserBookingsKey keys the full booking listing of one user. The
// trailing segment keeps the key under the userID+":*" invalidation pattern.
func BuildUserBookingsKey(userID string) string {
	return CACHE_KEY_USER_BOOKINGS + userID + ":all"
}
