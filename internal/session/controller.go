// Package session owns the operator's transient console state: the
// in-progress date selection, the single active booking or edit form, the
// calendar view month and the single-flight guard around mutating calls.
// State transitions are explicit methods so they can be tested without any
// rendering layer.
package session

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/homestay-console/backend/internal/dateutil"
	"github.com/homestay-console/backend/internal/interval"
	"github.com/homestay-console/backend/internal/models"
)

// State is the controller's position in the selection/booking flow.
type State string

const (
	StateIdle           State = "idle"
	StateSelecting      State = "selecting"
	StateConfirmPending State = "confirm_pending"
	StateEditing        State = "editing_booking"
)

// BookingService is the slice of the remote client the controller mutates
// bookings through.
type BookingService interface {
	CreateBooking(ctx context.Context, roomID string, iv models.BookingInterval) error
	UpdateBooking(ctx context.Context, roomID string, iv models.BookingInterval) error
	CancelBooking(ctx context.Context, roomID, checkIn, checkOut string) error
}

// SnapshotProvider supplies cached rooms for validation.
type SnapshotProvider interface {
	Room(id string) (models.Room, bool)
}

// GuestDetails carries the form fields for a new or edited booking.
type GuestDetails struct {
	Name  string `json:"guestName"`
	Phone string `json:"guestPhone,omitempty"`
	Email string `json:"guestEmail,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Draft is a pending new booking derived from the date selection.
type Draft struct {
	RoomID   string `json:"room_id"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Nights   int    `json:"nights"`
}

// BookingRef identifies the booking a mutating call acted on. Confirm,
// SaveEdit and CancelBooking return it because the session state resets on
// success; callers must not re-read the session to learn what was submitted.
type BookingRef struct {
	RoomID   string
	CheckIn  string
	CheckOut string
}

// Controller is the session state machine. One controller exists per
// operator session; the guard token is scoped to the instance so parallel
// controllers (tests, future multi-session support) never share locks.
type Controller struct {
	remote BookingService
	rooms  SnapshotProvider
	now    func() time.Time

	mu       sync.Mutex
	state    State
	roomID   string
	selected map[string]struct{}
	draft    *Draft

	editRoomID string
	editing    *models.BookingInterval

	inFlight bool

	year  int
	month time.Month
}

// NewController creates a controller in the Idle state with the calendar
// view on the current month.
func NewController(remote BookingService, rooms SnapshotProvider) *Controller {
	c := &Controller{
		remote:   remote,
		rooms:    rooms,
		now:      time.Now,
		state:    StateIdle,
		selected: make(map[string]struct{}),
	}
	c.year, c.month = c.now().Year(), c.now().Month()
	return c
}

// ToggleDate adds or removes a date from the selection. Selecting a date on
// a different room clears the prior selection first; an active edit form is
// discarded. Past and booked dates are rejected.
func (c *Controller) ToggleDate(roomID, date string) error {
	if _, err := dateutil.ParseDateString(date); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return ErrOperationInFlight
	}

	room, ok := c.rooms.Room(roomID)
	if !ok {
		return ErrUnknownRoom
	}
	if date < dateutil.FormatDateString(c.now()) {
		return ErrDateInPast
	}
	if _, booked := interval.Find(room.BookedIntervals, date); booked {
		return ErrDateBooked
	}

	// Entering selection discards an active edit or pending form.
	c.editing = nil
	c.editRoomID = ""
	c.draft = nil

	if roomID != c.roomID {
		c.selected = make(map[string]struct{})
		c.roomID = roomID
	}

	if _, ok := c.selected[date]; ok {
		delete(c.selected, date)
	} else {
		c.selected[date] = struct{}{}
	}

	if len(c.selected) == 0 {
		c.state = StateIdle
		c.roomID = ""
	} else {
		c.state = StateSelecting
	}
	return nil
}

// OpenForm derives the booking draft from the selection: check-in is the
// earliest selected date, check-out the day after the latest. Gaps in the
// selection are rejected rather than silently booked over. On success the
// controller moves to ConfirmPending.
func (c *Controller) OpenForm() (Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSelecting || len(c.selected) == 0 {
		return Draft{}, ErrNoSelection
	}

	dates := make([]string, 0, len(c.selected))
	for d := range c.selected {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	start, err := dateutil.ParseDateString(dates[0])
	if err != nil {
		return Draft{}, err
	}
	for i := 1; i < len(dates); i++ {
		if dates[i] != dateutil.FormatDateString(start.AddDate(0, 0, i)) {
			return Draft{}, ErrNonContiguous
		}
	}

	checkIn := dates[0]
	end, err := dateutil.ParseDateString(dates[len(dates)-1])
	if err != nil {
		return Draft{}, err
	}
	checkOut := dateutil.FormatDateString(end.AddDate(0, 0, 1))

	if _, err := dateutil.ExpandRangeStrict(start, end.AddDate(0, 0, 1)); err != nil {
		return Draft{}, err
	}

	// Conflicts already visible in the snapshot are reported without a
	// network call. The remote service remains authoritative for races.
	if room, ok := c.rooms.Room(c.roomID); ok {
		booked := interval.BookedDates(room)
		for _, d := range dates {
			if booked.Contains(d) {
				return Draft{}, ErrDatesConflict
			}
		}
	}

	c.draft = &Draft{
		RoomID:   c.roomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Nights:   len(dates),
	}
	c.state = StateConfirmPending
	return *c.draft, nil
}

// Confirm submits the pending booking. Validation failures leave the form
// open; transport failures release the guard and keep the form populated so
// the operator can retry. On success the submitted draft is returned, copied
// under the lock, so callers never race a concurrent session mutation to
// learn what was booked.
func (c *Controller) Confirm(ctx context.Context, guest GuestDetails) (Draft, error) {
	c.mu.Lock()
	if c.state != StateConfirmPending || c.draft == nil {
		c.mu.Unlock()
		return Draft{}, ErrInvalidState
	}
	name := strings.TrimSpace(guest.Name)
	if name == "" {
		c.mu.Unlock()
		return Draft{}, ErrGuestNameRequired
	}
	if c.inFlight {
		c.mu.Unlock()
		return Draft{}, ErrOperationInFlight
	}
	c.inFlight = true
	draft := *c.draft
	iv := models.BookingInterval{
		CheckIn:    draft.CheckIn,
		CheckOut:   draft.CheckOut,
		GuestName:  name,
		GuestPhone: strings.TrimSpace(guest.Phone),
		GuestEmail: strings.TrimSpace(guest.Email),
		Notes:      strings.TrimSpace(guest.Notes),
	}
	c.mu.Unlock()

	err := c.remote.CreateBooking(ctx, draft.RoomID, iv)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		return Draft{}, fmt.Errorf("creating booking: %w", err)
	}
	c.resetLocked()
	return draft, nil
}

// OpenEdit loads an existing interval into the edit form. The original
// (checkIn, checkOut) pair stays as the immutable identity key for the
// update; any in-progress selection is discarded.
func (c *Controller) OpenEdit(roomID, checkIn, checkOut string) (models.BookingInterval, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return models.BookingInterval{}, ErrOperationInFlight
	}

	room, ok := c.rooms.Room(roomID)
	if !ok {
		return models.BookingInterval{}, ErrUnknownRoom
	}

	for _, iv := range room.BookedIntervals {
		if iv.CheckIn == checkIn && iv.CheckOut == checkOut {
			c.selected = make(map[string]struct{})
			c.roomID = ""
			c.draft = nil
			c.editRoomID = roomID
			edit := iv
			c.editing = &edit
			c.state = StateEditing
			return iv, nil
		}
	}
	return models.BookingInterval{}, ErrBookingNotFound
}

// SaveEdit submits the edited guest fields keyed by the original
// (checkIn, checkOut) pair. On success the identity of the updated booking
// is returned, copied under the lock.
func (c *Controller) SaveEdit(ctx context.Context, guest GuestDetails) (BookingRef, error) {
	c.mu.Lock()
	if c.state != StateEditing || c.editing == nil {
		c.mu.Unlock()
		return BookingRef{}, ErrInvalidState
	}
	name := strings.TrimSpace(guest.Name)
	if name == "" {
		c.mu.Unlock()
		return BookingRef{}, ErrGuestNameRequired
	}
	if c.inFlight {
		c.mu.Unlock()
		return BookingRef{}, ErrOperationInFlight
	}
	c.inFlight = true
	ref := BookingRef{
		RoomID:   c.editRoomID,
		CheckIn:  c.editing.CheckIn,
		CheckOut: c.editing.CheckOut,
	}
	iv := models.BookingInterval{
		CheckIn:    ref.CheckIn,
		CheckOut:   ref.CheckOut,
		GuestName:  name,
		GuestPhone: strings.TrimSpace(guest.Phone),
		GuestEmail: strings.TrimSpace(guest.Email),
		Notes:      strings.TrimSpace(guest.Notes),
	}
	c.mu.Unlock()

	err := c.remote.UpdateBooking(ctx, ref.RoomID, iv)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		return BookingRef{}, fmt.Errorf("updating booking: %w", err)
	}
	c.resetLocked()
	return ref, nil
}

// CancelBooking removes the interval currently open in the edit form. On
// success the identity of the cancelled booking is returned, copied under
// the lock.
func (c *Controller) CancelBooking(ctx context.Context) (BookingRef, error) {
	c.mu.Lock()
	if c.state != StateEditing || c.editing == nil {
		c.mu.Unlock()
		return BookingRef{}, ErrInvalidState
	}
	if c.inFlight {
		c.mu.Unlock()
		return BookingRef{}, ErrOperationInFlight
	}
	c.inFlight = true
	ref := BookingRef{
		RoomID:   c.editRoomID,
		CheckIn:  c.editing.CheckIn,
		CheckOut: c.editing.CheckOut,
	}
	c.mu.Unlock()

	err := c.remote.CancelBooking(ctx, ref.RoomID, ref.CheckIn, ref.CheckOut)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		return BookingRef{}, fmt.Errorf("cancelling booking: %w", err)
	}
	c.resetLocked()
	return ref, nil
}

// Abandon clears all transient state unconditionally: selection, forms and
// the in-flight guard. Closing the modal must never leave the UI locked.
func (c *Controller) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.state = StateIdle
	c.roomID = ""
	c.selected = make(map[string]struct{})
	c.draft = nil
	c.editing = nil
	c.editRoomID = ""
}

// Navigate moves the calendar view by delta months, rolling over years.
func (c *Controller) Navigate(delta int) (int, time.Month) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := time.Date(c.year, c.month+time.Month(delta), 1, 0, 0, 0, 0, time.Local)
	c.year, c.month = t.Year(), t.Month()
	return c.year, c.month
}

// SetMonth jumps the calendar view to an explicit year/month.
func (c *Controller) SetMonth(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("invalid month %d", month)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.year, c.month = year, month
	return nil
}

// JumpToDate moves the calendar view to the month containing the given date,
// typically a chosen check-in date.
func (c *Controller) JumpToDate(date string) error {
	t, err := dateutil.ParseDateString(date)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.year, c.month = t.Year(), t.Month()
	return nil
}

// Month returns the calendar view position.
func (c *Controller) Month() (int, time.Month) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.year, c.month
}

// View is a read-only copy of the session state for the API layer.
type View struct {
	State         State                   `json:"state"`
	RoomID        string                  `json:"room_id,omitempty"`
	SelectedDates []string                `json:"selected_dates,omitempty"`
	Draft         *Draft                  `json:"draft,omitempty"`
	EditingRoomID string                  `json:"editing_room_id,omitempty"`
	Editing       *models.BookingInterval `json:"editing,omitempty"`
	InFlight      bool                    `json:"in_flight"`
	Year          int                     `json:"year"`
	Month         int                     `json:"month"`
}

// View snapshots the session state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	dates := make([]string, 0, len(c.selected))
	for d := range c.selected {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	v := View{
		State:         c.state,
		RoomID:        c.roomID,
		SelectedDates: dates,
		EditingRoomID: c.editRoomID,
		InFlight:      c.inFlight,
		Year:          c.year,
		Month:         int(c.month),
	}
	if c.draft != nil {
		draft := *c.draft
		v.Draft = &draft
	}
	if c.editing != nil {
		editing := *c.editing
		v.Editing = &editing
	}
	return v
}

// SelectedDates returns the selection as a set for grid overlays.
func (c *Controller) SelectedDates(roomID string) map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if roomID != c.roomID {
		return nil
	}
	out := make(map[string]struct{}, len(c.selected))
	for d := range c.selected {
		out[d] = struct{}{}
	}
	return out
}
