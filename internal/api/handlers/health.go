package handlers

import (
	"net/http"
	"time"

	"github.com/homestay-console/backend/internal/api/middleware"
	"github.com/homestay-console/backend/internal/rooms"
	"github.com/homestay-console/backend/internal/storage"
)

// HealthResponse reports the console's dependency health.
type HealthResponse struct {
	Status         string `json:"status"`
	DBConnected    bool   `json:"db_connected"`
	SnapshotSource string `json:"snapshot_source"`
	SnapshotAge    string `json:"snapshot_age,omitempty"`
	Rooms          int    `json:"rooms"`
}

// HealthCheck reports database connectivity and snapshot freshness. A
// fallback snapshot or unreachable database degrades the status without
// taking the console down.
func HealthCheck(db *storage.DB, store *rooms.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil
		source := store.Source()

		status := "healthy"
		if !dbConnected || source != rooms.SourceRemote {
			status = "degraded"
		}

		response := HealthResponse{
			Status:         status,
			DBConnected:    dbConnected,
			SnapshotSource: string(source),
			Rooms:          len(store.Rooms()),
		}
		if fetched := store.FetchedAt(); !fetched.IsZero() {
			response.SnapshotAge = time.Since(fetched).Round(time.Second).String()
		}

		code := http.StatusOK
		if status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		middleware.WriteJSON(w, code, response)
	}
}
