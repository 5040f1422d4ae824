package venues

import "evently/internal/shared/store"

// Venue is the (venue_id, "VENUE") record. SeatTypes is the ordered list of
// labels seats in this venue may carry; event pricing is validated against it.
type Venue struct {
	VenueID     string   `json:"venue_id"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Description string   `json:"description"`
	SeatTypes   []string `json:"seat_types"`
	CreatedAt   string   `json:"created_at"`
}

// VenueSeat is the (venue_id, seat_pos) record, seat_pos = row + "-" + seat_num.
type VenueSeat struct {
	VenueID  string `json:"venue_id"`
	Row      string `json:"row"`
	SeatNum  int    `json:"seat_num"`
	SeatType string `json:"seat_type"`
	SeatPos  string `json:"seat_pos"`
}

const venueSK = "VENUE"

func (v *Venue) toItem() store.Item {
	return store.Item{
		"pk":          v.VenueID,
		"sk":          venueSK,
		"venue_id":    v.VenueID,
		"name":        v.Name,
		"city":        v.City,
		"description": v.Description,
		"seat_types":  v.SeatTypes,
		"created_at":  v.CreatedAt,
	}
}

func venueFromItem(item store.Item) *Venue {
	return &Venue{
		VenueID:     item.String("venue_id"),
		Name:        item.String("name"),
		City:        item.String("city"),
		Description: item.String("description"),
		SeatTypes:   item.StringSlice("seat_types"),
		CreatedAt:   item.String("created_at"),
	}
}

func (s *VenueSeat) toItem() store.Item {
	return store.Item{
		"pk":        s.VenueID,
		"sk":        s.SeatPos,
		"venue_id":  s.VenueID,
		"row":       s.Row,
		"seat_num":  s.SeatNum,
		"seat_type": s.SeatType,
		"seat_pos":  s.SeatPos,
	}
}

func seatFromItem(item store.Item) VenueSeat {
	return VenueSeat{
		VenueID:  item.String("venue_id"),
		Row:      item.String("row"),
		SeatNum:  item.Int("seat_num"),
		SeatType: item.String("seat_type"),
		SeatPos:  item.String("seat_pos"),
	}
}
