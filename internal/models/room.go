// Package models contains the domain models for the application.
package models

import "time"

// Room is the cached snapshot of a room as served by the remote
// Room/Booking service, including its current booking intervals.
type Room struct {
	ID              string              `json:"room_id"`
	LegacyID        string              `json:"id,omitempty"`
	Name            string              `json:"name"`
	Price           float64             `json:"price"`
	Capacity        int                 `json:"capacity"`
	Persons         int                 `json:"persons,omitempty"`
	Description     string              `json:"description"`
	Amenities       []string            `json:"amenities"`
	Promotion       *Promotion          `json:"promotion,omitempty"`
	ICalURL         string              `json:"icalUrl,omitempty"`
	LastICalSync    *time.Time          `json:"lastIcalSync,omitempty"`
	Images          map[string][]string `json:"images,omitempty"`
	BookedIntervals []BookingInterval   `json:"bookedIntervals"`
}

// Normalize resolves the legacy field variants the remote service may emit:
// older documents identify rooms by "id" instead of "room_id" and carry
// capacity in a "persons" field. All business code downstream relies on
// ID and Capacity only.
func (r *Room) Normalize() {
	if r.ID == "" {
		r.ID = r.LegacyID
	}
	if r.Capacity == 0 {
		r.Capacity = r.Persons
	}
}

// Promotion is an optional discounted nightly rate on a room.
type Promotion struct {
	Active        bool    `json:"active"`
	DiscountPrice float64 `json:"discountPrice"`
}

// BookingInterval is a guest's stay on one room, defined by the half-open
// date range [CheckIn, CheckOut). Dates are local calendar dates in
// "YYYY-MM-DD" form; the guest departs on the check-out day, so that date
// itself is not occupied.
type BookingInterval struct {
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	GuestName  string `json:"guestName"`
	GuestPhone string `json:"guestPhone,omitempty"`
	GuestEmail string `json:"guestEmail,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Contains reports whether the given date string falls inside the interval.
// Zero-padded ISO dates compare correctly as strings.
func (iv BookingInterval) Contains(date string) bool {
	return iv.CheckIn <= date && date < iv.CheckOut
}
