package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/homestay-console/backend/internal/models"
)

func TestBookedDatesHalfOpen(t *testing.T) {
	room := models.Room{
		ID: "0101",
		BookedIntervals: []models.BookingInterval{
			{CheckIn: "2025-03-10", CheckOut: "2025-03-13", GuestName: "Ana"},
		},
	}

	booked := BookedDates(room)
	assert.Len(t, booked, 3)
	assert.True(t, booked.Contains("2025-03-10"))
	assert.True(t, booked.Contains("2025-03-11"))
	assert.True(t, booked.Contains("2025-03-12"))
	// Check-out day stays free for the next guest's check-in.
	assert.False(t, booked.Contains("2025-03-13"))
	assert.False(t, booked.Contains("2025-03-09"))
}

func TestBookedDatesUnion(t *testing.T) {
	room := models.Room{
		BookedIntervals: []models.BookingInterval{
			{CheckIn: "2025-03-10", CheckOut: "2025-03-12"},
			{CheckIn: "2025-03-12", CheckOut: "2025-03-14"},
		},
	}

	booked := BookedDates(room)
	assert.Len(t, booked, 4)
	for _, d := range []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13"} {
		assert.True(t, booked.Contains(d), d)
	}
}

func TestBookedDatesSkipsMalformedIntervals(t *testing.T) {
	room := models.Room{
		BookedIntervals: []models.BookingInterval{
			{CheckIn: "not-a-date", CheckOut: "2025-03-13"},
			{CheckIn: "2025-03-20", CheckOut: "2025-03-21"},
		},
	}

	booked := BookedDates(room)
	assert.Len(t, booked, 1)
	assert.True(t, booked.Contains("2025-03-20"))
}

func TestFind(t *testing.T) {
	intervals := []models.BookingInterval{
		{CheckIn: "2025-03-10", CheckOut: "2025-03-13", GuestName: "Ana"},
		{CheckIn: "2025-03-15", CheckOut: "2025-03-17", GuestName: "Boris"},
	}

	iv, ok := Find(intervals, "2025-03-11")
	assert.True(t, ok)
	assert.Equal(t, "Ana", iv.GuestName)

	iv, ok = Find(intervals, "2025-03-15")
	assert.True(t, ok)
	assert.Equal(t, "Boris", iv.GuestName)

	// Check-out days belong to no interval.
	_, ok = Find(intervals, "2025-03-13")
	assert.False(t, ok)

	_, ok = Find(intervals, "2025-03-14")
	assert.False(t, ok)

	_, ok = Find(nil, "2025-03-14")
	assert.False(t, ok)
}
