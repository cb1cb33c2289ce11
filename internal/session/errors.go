package session

import "errors"

// Validation and state errors. All of these are caught before any network
// call and leave the session state untouched.
var (
	ErrUnknownRoom       = errors.New("room not found in snapshot")
	ErrDateInPast        = errors.New("date is in the past")
	ErrDateBooked        = errors.New("date is already booked")
	ErrNoSelection       = errors.New("no dates selected")
	ErrNonContiguous     = errors.New("selected dates are not contiguous")
	ErrGuestNameRequired = errors.New("guest name is required")
	ErrInvalidState      = errors.New("operation not valid in current state")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrDatesConflict     = errors.New("selected dates overlap an existing booking")

	// ErrOperationInFlight is the cooperative single-flight guard: a second
	// create/edit/cancel while one is already running is a no-op.
	ErrOperationInFlight = errors.New("another booking operation is in progress")
)
