package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/homestay-console/backend/internal/models"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, roomID string, iv models.BookingInterval) error {
	args := m.Called(ctx, roomID, iv)
	return args.Error(0)
}

func (m *MockBookingService) UpdateBooking(ctx context.Context, roomID string, iv models.BookingInterval) error {
	args := m.Called(ctx, roomID, iv)
	return args.Error(0)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, roomID, checkIn, checkOut string) error {
	args := m.Called(ctx, roomID, checkIn, checkOut)
	return args.Error(0)
}

// fakeSnapshot is a mutable in-memory SnapshotProvider.
type fakeSnapshot struct {
	rooms map[string]models.Room
}

func (f *fakeSnapshot) Room(id string) (models.Room, bool) {
	room, ok := f.rooms[id]
	return room, ok
}

func newTestController(remote BookingService) (*Controller, *fakeSnapshot) {
	snapshot := &fakeSnapshot{rooms: map[string]models.Room{
		"0101": {ID: "0101", Name: "Garden View"},
		"0102": {ID: "0102", Name: "Family Suite",
			BookedIntervals: []models.BookingInterval{
				{CheckIn: "2025-03-10", CheckOut: "2025-03-13", GuestName: "Ana"},
			}},
	}}
	c := NewController(remote, snapshot)
	c.now = func() time.Time {
		return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.Local)
	}
	return c, snapshot
}

func TestToggleDateSelectsAndDeselects(t *testing.T) {
	c, _ := newTestController(nil)

	require.NoError(t, c.ToggleDate("0101", "2025-03-15"))
	v := c.View()
	assert.Equal(t, StateSelecting, v.State)
	assert.Equal(t, "0101", v.RoomID)
	assert.Equal(t, []string{"2025-03-15"}, v.SelectedDates)

	// Toggling the same date again clears the selection and returns to idle.
	require.NoError(t, c.ToggleDate("0101", "2025-03-15"))
	v = c.View()
	assert.Equal(t, StateIdle, v.State)
	assert.Empty(t, v.SelectedDates)
	assert.Empty(t, v.RoomID)
}

func TestToggleDateRejections(t *testing.T) {
	c, _ := newTestController(nil)

	assert.ErrorIs(t, c.ToggleDate("9999", "2025-03-15"), ErrUnknownRoom)
	assert.ErrorIs(t, c.ToggleDate("0101", "2025-02-20"), ErrDateInPast)
	assert.ErrorIs(t, c.ToggleDate("0102", "2025-03-11"), ErrDateBooked)
	assert.Error(t, c.ToggleDate("0101", "not-a-date"))

	// None of the rejections leave residue.
	assert.Equal(t, StateIdle, c.View().State)
}

func TestToggleDateSwitchingRoomsClearsSelection(t *testing.T) {
	c, _ := newTestController(nil)

	require.NoError(t, c.ToggleDate("0101", "2025-03-15"))
	require.NoError(t, c.ToggleDate("0101", "2025-03-16"))
	require.NoError(t, c.ToggleDate("0102", "2025-03-20"))

	v := c.View()
	assert.Equal(t, "0102", v.RoomID)
	assert.Equal(t, []string{"2025-03-20"}, v.SelectedDates)
}

func TestOpenFormBuildsDraft(t *testing.T) {
	c, _ := newTestController(nil)

	// Dates toggled out of order still produce an ordered range.
	require.NoError(t, c.ToggleDate("0101", "2025-03-16"))
	require.NoError(t, c.ToggleDate("0101", "2025-03-15"))
	require.NoError(t, c.ToggleDate("0101", "2025-03-17"))

	draft, err := c.OpenForm()
	require.NoError(t, err)
	assert.Equal(t, "0101", draft.RoomID)
	assert.Equal(t, "2025-03-15", draft.CheckIn)
	// Check-out is the morning after the last selected night.
	assert.Equal(t, "2025-03-18", draft.CheckOut)
	assert.Equal(t, 3, draft.Nights)
	assert.Equal(t, StateConfirmPending, c.View().State)
}

func TestOpenFormRejectsGaps(t *testing.T) {
	c, _ := newTestController(nil)

	require.NoError(t, c.ToggleDate("0101", "2025-03-15"))
	require.NoError(t, c.ToggleDate("0101", "2025-03-17"))

	_, err := c.OpenForm()
	assert.ErrorIs(t, err, ErrNonContiguous)
	// The selection survives so the operator can fill the gap.
	assert.Equal(t, StateSelecting, c.View().State)
}

func TestOpenFormWithoutSelection(t *testing.T) {
	c, _ := newTestController(nil)
	_, err := c.OpenForm()
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestOpenFormDetectsSnapshotConflict(t *testing.T) {
	c, snapshot := newTestController(nil)

	require.NoError(t, c.ToggleDate("0101", "2025-03-15"))
	require.NoError(t, c.ToggleDate("0101", "2025-03-16"))

	// A sync pass lands a booking over the selection before the form opens.
	room := snapshot.rooms["0101"]
	room.BookedIntervals = []models.BookingInterval{
		{CheckIn: "2025-03-16", CheckOut: "2025-03-18"},
	}
	snapshot.rooms["0101"] = room

	_, err := c.OpenForm()
	assert.ErrorIs(t, err, ErrDatesConflict)
}

func TestConfirmCreatesBookingAndResets(t *testing.T) {
	remote := new(MockBookingService)
	c, _ := newTestController(remote)

	require.NoError(t, c.ToggleDate("0101", "2025-03-15"))
	_, err := c.OpenForm()
	require.NoError(t, err)

	expected := models.BookingInterval{
		CheckIn:   "2025-03-15",
		CheckOut:  "2025-03-16",
		GuestName: "Boris",
	}
	remote.On("CreateBooking", mock.Anything, "0101", expected).Return(nil)

	draft, err := c.Confirm(context.Background(), GuestDetails{Name: "  Boris  "})
	require.NoError(t, err)
	// The submitted draft comes back even though the session has reset.
	assert.Equal(t, "0101", draft.RoomID)
	assert.Equal(t, "2025-03-15", draft.CheckIn)
	assert.Equal(t, "2025-03-16", draft.CheckOut)

	v := c.View()
	assert.Equal(t, StateIdle, v.State)
	assert.Nil(t, v.Draft)
	assert.Empty(t, v.SelectedDates)
	remote.AssertExpectations(t)
}

func TestConfirmRequiresGuestName(t *testing.T) {
	remote := new(MockBookingService)
	c, _ := newTestController(remote)

	require.NoError(t, c.ToggleDate("0101", "2025-03-15"))
	_, err := c.OpenForm()
	require.NoError(t, err)

	_, err = c.Confirm(context.Background(), GuestDetails{Name: "   "})
	assert.ErrorIs(t, err, ErrGuestNameRequired)
	// The form stays open and no request went out.
	assert.Equal(t, StateConfirmPending, c.View().State)
	remote.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmKeepsFormOnRemoteFailure(t *testing.T) {
	remote := new(MockBookingService)
	c, _ := newTestController(remote)

	require.NoError(t, c.ToggleDate("0101", "2025-03-15"))
	_, err := c.OpenForm()
	require.NoError(t, err)

	remote.On("CreateBooking", mock.Anything, "0101", mock.Anything).Return(errors.New("remote down"))

	_, err = c.Confirm(context.Background(), GuestDetails{Name: "Boris"})
	assert.Error(t, err)

	v := c.View()
	assert.Equal(t, StateConfirmPending, v.State)
	assert.NotNil(t, v.Draft)
	assert.False(t, v.InFlight)
}

func TestConfirmOutsideFormState(t *testing.T) {
	c, _ := newTestController(nil)
	_, err := c.Confirm(context.Background(), GuestDetails{Name: "Boris"})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestEditFlow(t *testing.T) {
	remote := new(MockBookingService)
	c, _ := newTestController(remote)

	iv, err := c.OpenEdit("0102", "2025-03-10", "2025-03-13")
	require.NoError(t, err)
	assert.Equal(t, "Ana", iv.GuestName)
	assert.Equal(t, StateEditing, c.View().State)

	expected := models.BookingInterval{
		CheckIn:   "2025-03-10",
		CheckOut:  "2025-03-13",
		GuestName: "Ana Petrova",
		Notes:     "late arrival",
	}
	remote.On("UpdateBooking", mock.Anything, "0102", expected).Return(nil)

	ref, err := c.SaveEdit(context.Background(), GuestDetails{Name: "Ana Petrova", Notes: "late arrival"})
	require.NoError(t, err)
	assert.Equal(t, BookingRef{RoomID: "0102", CheckIn: "2025-03-10", CheckOut: "2025-03-13"}, ref)
	assert.Equal(t, StateIdle, c.View().State)
	remote.AssertExpectations(t)
}

func TestOpenEditUnknownBooking(t *testing.T) {
	c, _ := newTestController(nil)

	_, err := c.OpenEdit("0102", "2025-03-10", "2025-03-14")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = c.OpenEdit("9999", "2025-03-10", "2025-03-13")
	assert.ErrorIs(t, err, ErrUnknownRoom)
}

func TestCancelBooking(t *testing.T) {
	remote := new(MockBookingService)
	c, _ := newTestController(remote)

	_, err := c.OpenEdit("0102", "2025-03-10", "2025-03-13")
	require.NoError(t, err)

	remote.On("CancelBooking", mock.Anything, "0102", "2025-03-10", "2025-03-13").Return(nil)

	ref, err := c.CancelBooking(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BookingRef{RoomID: "0102", CheckIn: "2025-03-10", CheckOut: "2025-03-13"}, ref)
	assert.Equal(t, StateIdle, c.View().State)
	remote.AssertExpectations(t)
}

func TestCancelBookingGuardsDoubleSubmit(t *testing.T) {
	remote := new(MockBookingService)
	c, _ := newTestController(remote)

	_, err := c.OpenEdit("0102", "2025-03-10", "2025-03-13")
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	remote.On("CancelBooking", mock.Anything, "0102", "2025-03-10", "2025-03-13").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := c.CancelBooking(context.Background())
		done <- err
	}()

	// Second click while the first request is on the wire.
	<-started
	_, err = c.CancelBooking(context.Background())
	assert.ErrorIs(t, err, ErrOperationInFlight)

	close(release)
	require.NoError(t, <-done)
	remote.AssertNumberOfCalls(t, "CancelBooking", 1)
}

func TestAbandonClearsEverything(t *testing.T) {
	c, _ := newTestController(nil)

	require.NoError(t, c.ToggleDate("0101", "2025-03-15"))
	_, err := c.OpenForm()
	require.NoError(t, err)

	c.Abandon()

	v := c.View()
	assert.Equal(t, StateIdle, v.State)
	assert.Nil(t, v.Draft)
	assert.Empty(t, v.SelectedDates)
	assert.False(t, v.InFlight)
}

func TestNavigateRollsOverYears(t *testing.T) {
	c, _ := newTestController(nil)
	require.NoError(t, c.SetMonth(2025, time.December))

	year, month := c.Navigate(1)
	assert.Equal(t, 2026, year)
	assert.Equal(t, time.January, month)

	year, month = c.Navigate(-2)
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.November, month)
}

func TestSetMonthValidates(t *testing.T) {
	c, _ := newTestController(nil)
	assert.Error(t, c.SetMonth(2025, time.Month(0)))
	assert.Error(t, c.SetMonth(2025, time.Month(13)))
	assert.NoError(t, c.SetMonth(2025, time.June))
}

func TestJumpToDate(t *testing.T) {
	c, _ := newTestController(nil)

	require.NoError(t, c.JumpToDate("2026-07-04"))
	year, month := c.Month()
	assert.Equal(t, 2026, year)
	assert.Equal(t, time.July, month)

	assert.Error(t, c.JumpToDate("bad"))
}

func TestSelectedDatesScopedToRoom(t *testing.T) {
	c, _ := newTestController(nil)
	require.NoError(t, c.ToggleDate("0101", "2025-03-15"))

	assert.Contains(t, c.SelectedDates("0101"), "2025-03-15")
	assert.Nil(t, c.SelectedDates("0102"))
}
