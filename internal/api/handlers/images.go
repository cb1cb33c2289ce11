package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/homestay-console/backend/internal/api/middleware"
	"github.com/homestay-console/backend/internal/remote"
	"github.com/homestay-console/backend/internal/rooms"
	"github.com/homestay-console/backend/internal/websocket"
)

// maxUploadBytes caps one gallery image upload.
const maxUploadBytes = 10 << 20

// UploadImage streams a gallery image through to the remote service. The
// store's uploading flag is held for the duration so a concurrently
// scheduled sync pass does not reload the snapshot mid-upload.
func UploadImage(client *remote.Client, store *rooms.Store, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if _, ok := store.Room(id); !ok {
			middleware.WriteError(w, http.StatusNotFound, "room not found")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		category := r.FormValue("category")
		if category == "" {
			category = "gallery"
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "image file is required")
			return
		}
		defer file.Close()

		store.BeginUpload()
		err = client.UploadImage(r.Context(), id, category, header.Filename, file)
		store.EndUpload()
		if err != nil {
			writeOperationError(w, err)
			return
		}

		reloadSnapshot(r.Context(), store, broadcaster)
		middleware.WriteJSON(w, http.StatusCreated, map[string]string{
			"room_id":  id,
			"category": category,
			"filename": header.Filename,
		})
	}
}

// DeleteImage removes one gallery image via the remote service.
func DeleteImage(client *remote.Client, store *rooms.Store, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		store.BeginUpload()
		err := client.DeleteImage(r.Context(), vars["id"], vars["imageId"])
		store.EndUpload()
		if err != nil {
			writeOperationError(w, err)
			return
		}

		reloadSnapshot(r.Context(), store, broadcaster)
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"deleted": vars["imageId"]})
	}
}

// ReorderImages persists a new ordering for one gallery category.
func ReorderImages(client *remote.Client, store *rooms.Store, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req struct {
			Category string   `json:"category"`
			Order    []string `json:"order"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Category == "" || len(req.Order) == 0 {
			middleware.WriteError(w, http.StatusBadRequest, "category and order are required")
			return
		}

		if err := client.ReorderImages(r.Context(), id, req.Category, req.Order); err != nil {
			writeOperationError(w, err)
			return
		}

		reloadSnapshot(r.Context(), store, broadcaster)
		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"room_id":  id,
			"category": req.Category,
			"order":    req.Order,
		})
	}
}
