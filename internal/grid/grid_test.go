package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestay-console/backend/internal/interval"
	"github.com/homestay-console/backend/internal/models"
)

var now = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.Local)

func testRoom() models.Room {
	return models.Room{
		ID: "0101",
		BookedIntervals: []models.BookingInterval{
			{CheckIn: "2025-03-20", CheckOut: "2025-03-23", GuestName: "Ana"},
		},
	}
}

// cellFor returns the grid cell for the given day of the month.
func cellFor(t *testing.T, m Month, day int) Cell {
	t.Helper()
	idx := m.StartWeekday + day - 1
	require.Less(t, idx, len(m.Cells))
	cell := m.Cells[idx]
	require.Equal(t, day, cell.Day)
	return cell
}

func TestBuildShape(t *testing.T) {
	m := Build(testRoom(), 2025, time.March, Options{Now: now})

	assert.Equal(t, "0101", m.RoomID)
	assert.Equal(t, 31, m.DaysInMonth)
	// March 2025 starts on a Saturday.
	assert.Equal(t, 6, m.StartWeekday)
	require.Len(t, m.Cells, 6+31)

	for i := 0; i < 6; i++ {
		assert.True(t, m.Cells[i].Blank, "cell %d should be blank", i)
	}
	assert.Equal(t, 1, m.Cells[6].Day)
	assert.Equal(t, "2025-03-01", m.Cells[6].Date)
	assert.Equal(t, 31, m.Cells[len(m.Cells)-1].Day)
}

func TestBuildTodayAndPast(t *testing.T) {
	m := Build(testRoom(), 2025, time.March, Options{Now: now})

	past := cellFor(t, m, 14)
	assert.True(t, past.Past)
	assert.False(t, past.Selectable)
	assert.False(t, past.Available)

	today := cellFor(t, m, 15)
	assert.True(t, today.Today)
	assert.False(t, today.Past)
	assert.True(t, today.Selectable)

	future := cellFor(t, m, 16)
	assert.False(t, future.Today)
	assert.True(t, future.Available)
}

func TestBuildBookedPrecedence(t *testing.T) {
	m := Build(testRoom(), 2025, time.March, Options{
		Now:          now,
		TempCheckIn:  "2025-03-19",
		TempCheckOut: "2025-03-22",
	})

	booked := cellFor(t, m, 20)
	assert.True(t, booked.Booked)
	// A booked cell is never selectable or temp-highlighted.
	assert.False(t, booked.Selectable)
	assert.False(t, booked.Available)
	assert.False(t, booked.TempSelected)
	require.NotNil(t, booked.Interval)
	assert.Equal(t, "Ana", booked.Interval.GuestName)
	require.NotNil(t, booked.Layout)
	assert.Equal(t, interval.PositionRowStart, booked.Layout.Position)

	// Check-out day stays free.
	free := cellFor(t, m, 23)
	assert.False(t, free.Booked)
	assert.True(t, free.Selectable)

	// The unbooked night in the preview range is highlighted.
	preview := cellFor(t, m, 19)
	assert.True(t, preview.TempSelected)
}

func TestBuildSelectionOverlay(t *testing.T) {
	m := Build(testRoom(), 2025, time.March, Options{
		Now: now,
		SelectedDates: map[string]struct{}{
			"2025-03-18": {},
			"2025-03-19": {},
		},
	})

	assert.True(t, cellFor(t, m, 18).Selected)
	assert.True(t, cellFor(t, m, 19).Selected)
	assert.False(t, cellFor(t, m, 17).Selected)
}

func TestBuildInvertedTempRangeIgnored(t *testing.T) {
	m := Build(testRoom(), 2025, time.March, Options{
		Now:          now,
		TempCheckIn:  "2025-03-22",
		TempCheckOut: "2025-03-19",
	})

	for _, cell := range m.Cells {
		assert.False(t, cell.TempSelected)
	}
}

func TestBuildOtherMonthUnaffected(t *testing.T) {
	m := Build(testRoom(), 2025, time.April, Options{Now: now})

	assert.Equal(t, 30, m.DaysInMonth)
	for _, cell := range m.Cells {
		assert.False(t, cell.Booked)
	}
	// Every April day is in the future relative to March 15.
	assert.True(t, cellFor(t, m, 1).Available)
}
