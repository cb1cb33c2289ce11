// Package availability filters and sorts the cached room list by capacity,
// price and a check-in/check-out availability predicate.
package availability

import (
	"sort"
	"strings"

	"github.com/homestay-console/backend/internal/dateutil"
	"github.com/homestay-console/backend/internal/interval"
	"github.com/homestay-console/backend/internal/models"
)

// CapacityBand is an inclusive guest-count range. Empty means no filter.
type CapacityBand string

const (
	CapacityAny  CapacityBand = ""
	Capacity1to2 CapacityBand = "1-2"
	Capacity3to4 CapacityBand = "3-4"
	Capacity5to6 CapacityBand = "5-6"
	Capacity7Up  CapacityBand = "7+"
)

// PriceBand is an inclusive nightly-price range in USD. Empty means no filter.
type PriceBand string

const (
	PriceAny     PriceBand = ""
	Price0to50   PriceBand = "0-50"
	Price50to75  PriceBand = "50-75"
	Price75to100 PriceBand = "75-100"
	Price100Up   PriceBand = "100+"
)

// SortKey selects the room list ordering.
type SortKey string

const (
	SortRoomID       SortKey = "room_id"
	SortName         SortKey = "name"
	SortPriceAsc     SortKey = "price_asc"
	SortPriceDesc    SortKey = "price_desc"
	SortCapacityAsc  SortKey = "capacity_asc"
	SortCapacityDesc SortKey = "capacity_desc"
)

// Filter is the complete filter configuration applied to the room list.
// CheckIn/CheckOut are canonical date strings; an inverted range disables the
// availability predicate entirely so transient states during date entry never
// blank out the list.
type Filter struct {
	Capacity CapacityBand
	Price    PriceBand
	CheckIn  string
	CheckOut string
	Sort     SortKey
}

// Result is the filtered, sorted room list plus the count pair for display.
type Result struct {
	Rooms         []models.Room `json:"rooms"`
	FilteredCount int           `json:"filtered_count"`
	TotalCount    int           `json:"total_count"`
}

// Apply runs the filter over the room list. The input slice is not modified.
func Apply(rooms []models.Room, f Filter) Result {
	filtered := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if !matchCapacity(room, f.Capacity) {
			continue
		}
		if !matchPrice(room, f.Price) {
			continue
		}
		if !matchAvailability(room, f.CheckIn, f.CheckOut) {
			continue
		}
		filtered = append(filtered, room)
	}

	sortRooms(filtered, f.Sort)

	return Result{
		Rooms:         filtered,
		FilteredCount: len(filtered),
		TotalCount:    len(rooms),
	}
}

func matchCapacity(room models.Room, band CapacityBand) bool {
	c := room.Capacity
	if c == 0 {
		c = room.Persons
	}
	switch band {
	case Capacity1to2:
		return c >= 1 && c <= 2
	case Capacity3to4:
		return c >= 3 && c <= 4
	case Capacity5to6:
		return c >= 5 && c <= 6
	case Capacity7Up:
		return c >= 7
	default:
		return true
	}
}

func matchPrice(room models.Room, band PriceBand) bool {
	p := room.Price
	switch band {
	case Price0to50:
		return p >= 0 && p <= 50
	case Price50to75:
		return p >= 50 && p <= 75
	case Price75to100:
		return p >= 75 && p <= 100
	case Price100Up:
		return p >= 100
	default:
		return true
	}
}

// matchAvailability passes a room when none of the requested nights are
// already booked. With only a check-in date it checks that single night; an
// inverted range is treated as "no filter".
func matchAvailability(room models.Room, checkIn, checkOut string) bool {
	if checkIn == "" {
		return true
	}
	booked := interval.BookedDates(room)
	if checkOut == "" {
		return !booked.Contains(checkIn)
	}
	if checkIn >= checkOut {
		return true
	}
	nights, err := dateutil.ExpandRangeStrings(checkIn, checkOut)
	if err != nil {
		return true
	}
	for _, d := range nights {
		if booked.Contains(d) {
			return false
		}
	}
	return true
}

func sortRooms(rooms []models.Room, key SortKey) {
	less := func(a, b models.Room) bool {
		return compareFold(a.ID, b.ID) < 0
	}
	switch key {
	case SortName:
		less = func(a, b models.Room) bool { return compareFold(a.Name, b.Name) < 0 }
	case SortPriceAsc:
		less = func(a, b models.Room) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b models.Room) bool { return a.Price > b.Price }
	case SortCapacityAsc:
		less = func(a, b models.Room) bool { return capacityOf(a) < capacityOf(b) }
	case SortCapacityDesc:
		less = func(a, b models.Room) bool { return capacityOf(a) > capacityOf(b) }
	}
	sort.SliceStable(rooms, func(i, j int) bool { return less(rooms[i], rooms[j]) })
}

func capacityOf(room models.Room) int {
	if room.Capacity != 0 {
		return room.Capacity
	}
	return room.Persons
}

// compareFold orders strings case-insensitively, falling back to a
// case-sensitive comparison to keep the order total.
func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
