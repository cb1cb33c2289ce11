package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/homestay-console/backend/internal/api/middleware"
	"github.com/homestay-console/backend/internal/ical"
	"github.com/homestay-console/backend/internal/remote"
	"github.com/homestay-console/backend/internal/rooms"
	"github.com/homestay-console/backend/internal/websocket"
)

// SyncAllICal triggers a sync pass over every configured feed. A pass already
// running, or one skipped because an image upload holds the snapshot, is
// reported as a conflict rather than claimed as synced.
func SyncAllICal(syncer *ical.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := syncer.SyncAll(r.Context()); err != nil {
			if errors.Is(err, ical.ErrSyncInProgress) || errors.Is(err, ical.ErrUploadInFlight) {
				middleware.WriteError(w, http.StatusConflict, err.Error())
				return
			}
			writeOperationError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "synced"})
	}
}

// SyncRoomICal triggers a sync pass for one room's feed.
func SyncRoomICal(syncer *ical.Syncer, store *rooms.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if _, ok := store.Room(id); !ok {
			middleware.WriteError(w, http.StatusNotFound, "room not found")
			return
		}

		if err := syncer.SyncRoom(r.Context(), id); err != nil {
			if errors.Is(err, ical.ErrSyncInProgress) {
				middleware.WriteError(w, http.StatusConflict, err.Error())
				return
			}
			writeOperationError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "synced", "room_id": id})
	}
}

// SetICalURL stores a room's iCal feed URL on the remote service. An empty
// URL clears the feed.
func SetICalURL(client *remote.Client, store *rooms.Store, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req struct {
			ICalURL string `json:"icalUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ICalURL != "" {
			parsed, err := url.Parse(req.ICalURL)
			if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
				middleware.WriteError(w, http.StatusBadRequest, "icalUrl must be an http(s) URL")
				return
			}
		}

		if err := client.SetICalURL(r.Context(), id, req.ICalURL); err != nil {
			writeOperationError(w, err)
			return
		}

		reloadSnapshot(r.Context(), store, broadcaster)
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"room_id": id, "icalUrl": req.ICalURL})
	}
}
