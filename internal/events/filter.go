package events

import (
	"sort"
	"strings"
	"time"
)

// matchThreshold is the minimum similarity score for a fuzzy filter hit.
const matchThreshold = 0.3

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"02/01/2006",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05.999999Z07:00",
}

// parseDateFilter accepts the date formats clients actually send. Returns the
// zero time when nothing matches.
func parseDateFilter(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// similarityScore rates how close two strings are on a 0..1 scale. Exact
// match scores 1.0, containment 0.8, anything else the match ratio of the
// two strings.
func similarityScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == b {
		return 1.0
	}
	if strings.Contains(b, a) || strings.Contains(a, b) {
		return 0.8
	}
	return matchRatio(a, b)
}

// matchRatio is the Ratcliff/Obershelp similarity: twice the number of
// matching characters over the total length, with matches found by
// recursively taking the longest common substring.
func matchRatio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return 2 * float64(matchingChars(a, b)) / float64(total)
}

func matchingChars(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

func longestCommonSubstring(a, b string) (ai, bi, size int) {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
		for j := range cur {
			cur[j] = 0
		}
	}
	return ai, bi, size
}

// filterByDate keeps events whose start_time falls on the right side of the
// filter date. Events with unparseable start times are dropped; an
// unparseable filter leaves the list untouched.
func filterByDate(events []Event, dateFilter, direction string) []Event {
	filterDate, ok := parseDateFilter(dateFilter)
	if !ok {
		return events
	}

	filtered := make([]Event, 0, len(events))
	for _, event := range events {
		eventDate, ok := parseDateFilter(event.StartTime)
		if !ok {
			continue
		}
		switch direction {
		case "after":
			if !eventDate.Before(filterDate) {
				filtered = append(filtered, event)
			}
		case "before":
			if !eventDate.After(filterDate) {
				filtered = append(filtered, event)
			}
		}
	}
	return filtered
}

// filterByCity keeps events whose venue city matches the query, by
// containment or similarity. Events whose venue is missing from the lookup
// are dropped.
func filterByCity(events []Event, city string, venueCities map[string]string) []Event {
	filtered := make([]Event, 0, len(events))
	query := strings.ToLower(city)
	for _, event := range events {
		venueCity, ok := venueCities[event.VenueID]
		if !ok {
			continue
		}
		venueCity = strings.ToLower(venueCity)
		if strings.Contains(venueCity, query) || similarityScore(city, venueCity) >= matchThreshold {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// searchEvents matches the query against name, description, artists, and tags
// combined into one haystack.
func searchEvents(events []Event, query string) []Event {
	filtered := make([]Event, 0, len(events))
	for _, event := range events {
		haystack := strings.ToLower(strings.Join([]string{
			event.Name,
			event.Description,
			strings.Join(event.Artists, " "),
			strings.Join(event.Tags, " "),
		}, " "))
		if similarityScore(query, haystack) >= matchThreshold {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// sortByStartTimeDesc orders newest first. ISO timestamps sort correctly as
// strings.
func sortByStartTimeDesc(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime > events[j].StartTime
	})
}

// paginate slices events by offset and limit, clamped to the list bounds.
func paginate(events []Event, offset, limit int) []Event {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 50
	}
	if offset >= len(events) {
		return []Event{}
	}
	end := offset + limit
	if end > len(events) {
		end = len(events)
	}
	return events[offset:end]
}
