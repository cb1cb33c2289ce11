// Package handlers implements the console's HTTP handlers.
package handlers

import (
	"errors"
	"net/http"

	"github.com/homestay-console/backend/internal/api/middleware"
	"github.com/homestay-console/backend/internal/dateutil"
	"github.com/homestay-console/backend/internal/remote"
	"github.com/homestay-console/backend/internal/session"
)

// writeOperationError maps domain errors onto HTTP statuses. Validation
// failures are 400s, known conflicts and busy guards 409s, missing entities
// 404s; remote envelope failures keep the remote's status where it is a
// client error, otherwise they surface as 502.
func writeOperationError(w http.ResponseWriter, err error) {
	var apiErr *remote.APIError

	switch {
	case errors.Is(err, session.ErrUnknownRoom),
		errors.Is(err, session.ErrBookingNotFound):
		middleware.WriteError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, session.ErrDateBooked),
		errors.Is(err, session.ErrDatesConflict),
		errors.Is(err, session.ErrOperationInFlight):
		middleware.WriteError(w, http.StatusConflict, err.Error())

	case errors.Is(err, session.ErrDateInPast),
		errors.Is(err, session.ErrNoSelection),
		errors.Is(err, session.ErrNonContiguous),
		errors.Is(err, session.ErrGuestNameRequired),
		errors.Is(err, session.ErrInvalidState),
		errors.Is(err, dateutil.ErrInvalidRange):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())

	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		middleware.WriteError(w, status, apiErr.Message)

	default:
		middleware.WriteError(w, http.StatusBadGateway, err.Error())
	}
}
