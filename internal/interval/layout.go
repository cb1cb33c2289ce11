package interval

import (
	"time"

	"github.com/homestay-console/backend/internal/dateutil"
	"github.com/homestay-console/backend/internal/models"
)

// Position describes where a booked day sits within its week row.
type Position string

const (
	PositionSingle   Position = "single"
	PositionRowStart Position = "row-start"
	PositionRowEnd   Position = "row-end"
	PositionMiddle   Position = "middle"
)

// BarStyle describes how the booking bar is drawn on a booked day. A
// multi-week booking renders as one bar per row; continue-start/continue-end
// mark the row-break edges so the bars visually connect, while start/end mark
// the true first and last night of the whole booking.
type BarStyle string

const (
	BarSingle        BarStyle = "single"
	BarStart         BarStyle = "start"
	BarEnd           BarStyle = "end"
	BarContinueStart BarStyle = "continue-start"
	BarContinueEnd   BarStyle = "continue-end"
	BarMiddle        BarStyle = "middle"
)

// LayoutInfo annotates one booked day for rendering.
type LayoutInfo struct {
	Interval models.BookingInterval `json:"interval"`
	Position Position               `json:"position"`
	BarStyle BarStyle               `json:"bar_style"`
	Label    string                 `json:"label,omitempty"`
}

// maxLabelRunes caps guest-name labels regardless of segment width.
const maxLabelRunes = 20

// BuildMonthLayout computes per-day layout info for every booked night that
// falls inside the visible month, grouping nights into week-row segments of a
// standard 7-column grid. The guest name label is emitted once per segment,
// on its first day.
func BuildMonthLayout(intervals []models.BookingInterval, year int, month time.Month) map[string]LayoutInfo {
	layout := make(map[string]LayoutInfo)
	startWeekday := dateutil.FirstWeekday(year, month)

	for _, iv := range intervals {
		start, err := dateutil.ParseDateString(iv.CheckIn)
		if err != nil {
			continue
		}
		end, err := dateutil.ParseDateString(iv.CheckOut)
		if err != nil {
			continue
		}
		lastNight := dateutil.FormatDateString(end.AddDate(0, 0, -1))

		// Collect the interval's nights that fall inside the visible month,
		// bucketed by week row.
		type night struct {
			date string
			day  int
		}
		segments := make(map[int][]night)
		for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
			if day.Year() != year || day.Month() != month {
				continue
			}
			row := (startWeekday + day.Day() - 1) / 7
			segments[row] = append(segments[row], night{date: dateutil.FormatDateString(day), day: day.Day()})
		}

		for _, seg := range segments {
			label := truncateLabel(iv.GuestName, len(seg))
			for i, n := range seg {
				info := LayoutInfo{Interval: iv}

				switch {
				case len(seg) == 1:
					info.Position = PositionSingle
				case i == 0:
					info.Position = PositionRowStart
				case i == len(seg)-1:
					info.Position = PositionRowEnd
				default:
					info.Position = PositionMiddle
				}

				first := n.date == iv.CheckIn
				last := n.date == lastNight
				switch {
				case first && last:
					info.BarStyle = BarSingle
				case i == 0 && first:
					info.BarStyle = BarStart
				case i == len(seg)-1 && last:
					info.BarStyle = BarEnd
				case i == 0:
					info.BarStyle = BarContinueStart
				case i == len(seg)-1:
					info.BarStyle = BarContinueEnd
				default:
					info.BarStyle = BarMiddle
				}

				if info.Position == PositionSingle || info.Position == PositionRowStart {
					info.Label = label
				}
				layout[n.date] = info
			}
		}
	}

	return layout
}

// truncateLabel fits a guest name into a row segment: at most 8 characters
// per day, never more than maxLabelRunes, with an ellipsis when cut.
func truncateLabel(name string, segmentDays int) string {
	limit := segmentDays * 8
	if limit > maxLabelRunes {
		limit = maxLabelRunes
	}
	runes := []rune(name)
	if len(runes) <= limit {
		return name
	}
	return string(runes[:limit]) + "…"
}
