// Package grid builds the per-room month grid the calendar view renders:
// leading blanks, then one cell per day annotated with occupancy, selection
// and interaction state.
package grid

import (
	"time"

	"github.com/homestay-console/backend/internal/dateutil"
	"github.com/homestay-console/backend/internal/interval"
	"github.com/homestay-console/backend/internal/models"
)

// Cell is one day slot in the month grid. Blank cells pad the first week so
// day 1 lands on its weekday column. Every real cell keeps its
// (RoomID, Date) key so click handlers and highlight passes can address it
// without re-deriving state.
type Cell struct {
	RoomID string `json:"room_id,omitempty"`
	Date   string `json:"date,omitempty"`
	Day    int    `json:"day,omitempty"`
	Blank  bool   `json:"blank,omitempty"`

	Today        bool `json:"today,omitempty"`
	Past         bool `json:"past,omitempty"`
	Booked       bool `json:"booked,omitempty"`
	Available    bool `json:"available,omitempty"`
	Selectable   bool `json:"selectable,omitempty"`
	Selected     bool `json:"selected,omitempty"`
	TempSelected bool `json:"temp_selected,omitempty"`

	Interval *models.BookingInterval `json:"interval,omitempty"`
	Layout   *interval.LayoutInfo    `json:"layout,omitempty"`
}

// Month is a fully built month grid for one room.
type Month struct {
	RoomID       string     `json:"room_id"`
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	DaysInMonth  int        `json:"days_in_month"`
	StartWeekday int        `json:"start_weekday"` // 0 = Sunday
	Cells        []Cell     `json:"cells"`
}

// Options carries the session overlays applied while building the grid.
type Options struct {
	// Now anchors the today/past classification; the zero value means
	// time.Now().
	Now time.Time
	// SelectedDates marks the operator's in-progress selection.
	SelectedDates map[string]struct{}
	// TempCheckIn/TempCheckOut preview the availability-filter range on
	// unbooked cells without touching selection state.
	TempCheckIn  string
	TempCheckOut string
}

// Build constructs the month grid for a room. Booked takes precedence over
// selectable for interaction purposes: clicking a booked cell opens the edit
// flow, never toggles selection.
func Build(room models.Room, year int, month time.Month, opts Options) Month {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := dateutil.FormatDateString(now)

	booked := interval.BookedDates(room)
	layout := interval.BuildMonthLayout(room.BookedIntervals, year, month)

	startWeekday := dateutil.FirstWeekday(year, month)
	daysInMonth := dateutil.DaysInMonth(year, month)

	var tempDates map[string]struct{}
	if opts.TempCheckIn != "" && opts.TempCheckOut != "" && opts.TempCheckIn < opts.TempCheckOut {
		if dates, err := dateutil.ExpandRangeStrings(opts.TempCheckIn, opts.TempCheckOut); err == nil {
			tempDates = make(map[string]struct{}, len(dates))
			for _, d := range dates {
				tempDates[d] = struct{}{}
			}
		}
	}

	cells := make([]Cell, 0, startWeekday+daysInMonth)
	for i := 0; i < startWeekday; i++ {
		cells = append(cells, Cell{Blank: true})
	}

	for day := 1; day <= daysInMonth; day++ {
		date := dateutil.FormatDateString(time.Date(year, month, day, 0, 0, 0, 0, time.Local))
		cell := Cell{
			RoomID: room.ID,
			Date:   date,
			Day:    day,
			Today:  date == today,
			Past:   date < today,
		}

		if booked.Contains(date) {
			cell.Booked = true
			if iv, ok := interval.Find(room.BookedIntervals, date); ok {
				cell.Interval = &iv
			}
			if info, ok := layout[date]; ok {
				cell.Layout = &info
			}
		} else if !cell.Past {
			cell.Available = true
			cell.Selectable = true
			if _, ok := opts.SelectedDates[date]; ok {
				cell.Selected = true
			}
		}

		if !cell.Booked && tempDates != nil {
			if _, ok := tempDates[date]; ok {
				cell.TempSelected = true
			}
		}

		cells = append(cells, cell)
	}

	return Month{
		RoomID:       room.ID,
		Year:         year,
		Month:        month,
		DaysInMonth:  daysInMonth,
		StartWeekday: startWeekday,
		Cells:        cells,
	}
}
