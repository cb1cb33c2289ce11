package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/homestay-console/backend/internal/api/middleware"
	"github.com/homestay-console/backend/internal/rooms"
	"github.com/homestay-console/backend/internal/session"
	"github.com/homestay-console/backend/internal/websocket"
)

// GetSession returns the current session state.
func GetSession(ctrl *session.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, ctrl.View())
	}
}

// ToggleDate adds or removes a calendar date from the selection.
func ToggleDate(ctrl *session.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			RoomID string `json:"room_id"`
			Date   string `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := ctrl.ToggleDate(req.RoomID, req.Date); err != nil {
			writeOperationError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, ctrl.View())
	}
}

// OpenBookingForm converts the selection into a booking draft.
func OpenBookingForm(ctrl *session.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draft, err := ctrl.OpenForm()
		if err != nil {
			writeOperationError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, draft)
	}
}

// ConfirmBooking submits the pending draft with the guest details.
func ConfirmBooking(ctrl *session.Controller, store *rooms.Store, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var guest session.GuestDetails
		if err := json.NewDecoder(r.Body).Decode(&guest); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		draft, err := ctrl.Confirm(r.Context(), guest)
		if err != nil {
			writeOperationError(w, err)
			return
		}

		reloadSnapshot(r.Context(), store, broadcaster)
		if broadcaster != nil {
			broadcaster.BroadcastBookingCreated(draft.RoomID, draft.CheckIn, draft.CheckOut, strings.TrimSpace(guest.Name))
		}
		middleware.WriteJSON(w, http.StatusCreated, ctrl.View())
	}
}

// OpenEditBooking loads an existing booking into the edit form.
func OpenEditBooking(ctrl *session.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			RoomID   string `json:"room_id"`
			CheckIn  string `json:"checkIn"`
			CheckOut string `json:"checkOut"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		iv, err := ctrl.OpenEdit(req.RoomID, req.CheckIn, req.CheckOut)
		if err != nil {
			writeOperationError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, iv)
	}
}

// SaveEditBooking submits edited guest details for the open booking.
func SaveEditBooking(ctrl *session.Controller, store *rooms.Store, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var guest session.GuestDetails
		if err := json.NewDecoder(r.Body).Decode(&guest); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		ref, err := ctrl.SaveEdit(r.Context(), guest)
		if err != nil {
			writeOperationError(w, err)
			return
		}

		reloadSnapshot(r.Context(), store, broadcaster)
		if broadcaster != nil {
			broadcaster.BroadcastBookingUpdated(ref.RoomID, ref.CheckIn, ref.CheckOut, strings.TrimSpace(guest.Name))
		}
		middleware.WriteJSON(w, http.StatusOK, ctrl.View())
	}
}

// CancelBooking removes the booking open in the edit form.
func CancelBooking(ctrl *session.Controller, store *rooms.Store, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := ctrl.CancelBooking(r.Context())
		if err != nil {
			writeOperationError(w, err)
			return
		}

		reloadSnapshot(r.Context(), store, broadcaster)
		if broadcaster != nil {
			broadcaster.BroadcastBookingCancelled(ref.RoomID, ref.CheckIn, ref.CheckOut)
		}
		middleware.WriteJSON(w, http.StatusOK, ctrl.View())
	}
}

// AbandonSession discards the selection and any open form.
func AbandonSession(ctrl *session.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl.Abandon()
		middleware.WriteJSON(w, http.StatusOK, ctrl.View())
	}
}

// NavigateMonth moves or jumps the calendar view. One of delta, year+month or
// date must be given.
func NavigateMonth(ctrl *session.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Delta *int   `json:"delta,omitempty"`
			Year  int    `json:"year,omitempty"`
			Month int    `json:"month,omitempty"`
			Date  string `json:"date,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		switch {
		case req.Delta != nil:
			ctrl.Navigate(*req.Delta)
		case req.Date != "":
			if err := ctrl.JumpToDate(req.Date); err != nil {
				writeOperationError(w, err)
				return
			}
		case req.Year != 0 && req.Month != 0:
			if err := ctrl.SetMonth(req.Year, time.Month(req.Month)); err != nil {
				middleware.WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
		default:
			middleware.WriteError(w, http.StatusBadRequest, "delta, date, or year and month required")
			return
		}

		year, month := ctrl.Month()
		middleware.WriteJSON(w, http.StatusOK, map[string]int{
			"year":  year,
			"month": int(month),
		})
	}
}
