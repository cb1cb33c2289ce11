package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/homestay-console/backend/internal/api/middleware"
	"github.com/homestay-console/backend/internal/availability"
	"github.com/homestay-console/backend/internal/grid"
	"github.com/homestay-console/backend/internal/models"
	"github.com/homestay-console/backend/internal/remote"
	"github.com/homestay-console/backend/internal/rooms"
	"github.com/homestay-console/backend/internal/session"
	"github.com/homestay-console/backend/internal/websocket"
)

// roomCodePattern is the operator-chosen room code format, e.g. "0101".
var roomCodePattern = regexp.MustCompile(`^[0-9]{4}$`)

// RoomListResponse is the filtered room list plus display counts.
type RoomListResponse struct {
	Rooms         []models.Room `json:"rooms"`
	FilteredCount int           `json:"filtered_count"`
	TotalCount    int           `json:"total_count"`
	Source        string        `json:"source"`
}

// ListRooms returns the cached room list, filtered and sorted per query
// parameters.
func ListRooms(store *rooms.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := availability.Filter{
			Capacity: availability.CapacityBand(q.Get("capacity")),
			Price:    availability.PriceBand(q.Get("price")),
			CheckIn:  q.Get("checkIn"),
			CheckOut: q.Get("checkOut"),
			Sort:     availability.SortKey(q.Get("sort")),
		}

		result := availability.Apply(store.Rooms(), filter)
		middleware.WriteJSON(w, http.StatusOK, RoomListResponse{
			Rooms:         result.Rooms,
			FilteredCount: result.FilteredCount,
			TotalCount:    result.TotalCount,
			Source:        string(store.Source()),
		})
	}
}

// CreateRoom forwards a room creation to the remote service after validating
// the optional operator-chosen room code.
func CreateRoom(client *remote.Client, store *rooms.Store, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req remote.RoomCreate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, "room name is required")
			return
		}
		if req.CustomID != "" {
			if !roomCodePattern.MatchString(req.CustomID) {
				middleware.WriteError(w, http.StatusBadRequest, "room code must be exactly 4 digits")
				return
			}
			if store.IsRoomIDTaken(req.CustomID) {
				middleware.WriteError(w, http.StatusConflict, "room code is already taken")
				return
			}
		}

		room, err := client.CreateRoom(r.Context(), req)
		if err != nil {
			writeOperationError(w, err)
			return
		}

		reloadSnapshot(r.Context(), store, broadcaster)
		middleware.WriteJSON(w, http.StatusCreated, room)
	}
}

// UpdateRoom forwards a partial room update to the remote service.
func UpdateRoom(client *remote.Client, store *rooms.Store, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		room, err := client.UpdateRoom(r.Context(), id, fields)
		if err != nil {
			writeOperationError(w, err)
			return
		}

		reloadSnapshot(r.Context(), store, broadcaster)
		middleware.WriteJSON(w, http.StatusOK, room)
	}
}

// DeleteRoom forwards a room deletion to the remote service.
func DeleteRoom(client *remote.Client, store *rooms.Store, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if err := client.DeleteRoom(r.Context(), id); err != nil {
			writeOperationError(w, err)
			return
		}

		reloadSnapshot(r.Context(), store, broadcaster)
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

// RoomCalendar builds the month grid for one room, overlaying the session's
// selection and an optional check-in/check-out preview range.
func RoomCalendar(store *rooms.Store, ctrl *session.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		room, ok := store.Room(id)
		if !ok {
			middleware.WriteError(w, http.StatusNotFound, "room not found")
			return
		}

		year, month := ctrl.Month()
		q := r.URL.Query()
		if y := q.Get("year"); y != "" {
			parsed, err := strconv.Atoi(y)
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, "invalid year")
				return
			}
			year = parsed
		}
		if m := q.Get("month"); m != "" {
			parsed, err := strconv.Atoi(m)
			if err != nil || parsed < 1 || parsed > 12 {
				middleware.WriteError(w, http.StatusBadRequest, "invalid month")
				return
			}
			month = time.Month(parsed)
		}

		built := grid.Build(room, year, month, grid.Options{
			SelectedDates: ctrl.SelectedDates(id),
			TempCheckIn:   q.Get("tempCheckIn"),
			TempCheckOut:  q.Get("tempCheckOut"),
		})
		middleware.WriteJSON(w, http.StatusOK, built)
	}
}

// Stats returns dashboard counts derived from the snapshot.
func Stats(store *rooms.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, store.Stats(time.Now()))
	}
}

// reloadSnapshot refreshes the cached room list after a mutation and
// announces the new snapshot. Reload failures are logged, not fatal: the
// mutation itself already succeeded.
func reloadSnapshot(ctx context.Context, store *rooms.Store, broadcaster *websocket.EventBroadcaster) {
	if err := store.ReloadIfIdle(ctx); err != nil {
		log.Printf("Snapshot reload failed: %v", err)
		return
	}
	if broadcaster != nil {
		broadcaster.BroadcastSnapshotReloaded(len(store.Rooms()), string(store.Source()))
	}
}
