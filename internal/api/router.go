// Package api provides HTTP routing for the console REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/homestay-console/backend/internal/api/handlers"
	"github.com/homestay-console/backend/internal/api/middleware"
	"github.com/homestay-console/backend/internal/ical"
	"github.com/homestay-console/backend/internal/remote"
	"github.com/homestay-console/backend/internal/rooms"
	"github.com/homestay-console/backend/internal/session"
	"github.com/homestay-console/backend/internal/storage"
	"github.com/homestay-console/backend/internal/websocket"
)

// Deps bundles the services the router wires into handlers.
type Deps struct {
	DB        *storage.DB
	Hub       *websocket.Hub
	Remote    *remote.Client
	Store     *rooms.Store
	Session   *session.Controller
	Syncer    *ical.Syncer
	Ledger    *storage.LedgerRepository
	Users     *storage.UserRepository
	StaticDir string
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(deps Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	broadcaster := websocket.NewEventBroadcaster(deps.Hub)

	api := r.PathPrefix("/api").Subrouter()

	// Health endpoint
	api.HandleFunc("/health", handlers.HealthCheck(deps.DB, deps.Store)).Methods("GET")

	// WebSocket event stream
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(deps.Hub)).Methods("GET")

	// Room endpoints
	api.HandleFunc("/rooms", handlers.ListRooms(deps.Store)).Methods("GET")
	api.HandleFunc("/rooms", handlers.CreateRoom(deps.Remote, deps.Store, broadcaster)).Methods("POST")
	api.HandleFunc("/rooms/stats", handlers.Stats(deps.Store)).Methods("GET")
	api.HandleFunc("/rooms/sync-ical", handlers.SyncAllICal(deps.Syncer)).Methods("POST")
	api.HandleFunc("/rooms/{id}", handlers.UpdateRoom(deps.Remote, deps.Store, broadcaster)).Methods("PUT")
	api.HandleFunc("/rooms/{id}", handlers.DeleteRoom(deps.Remote, deps.Store, broadcaster)).Methods("DELETE")
	api.HandleFunc("/rooms/{id}/calendar", handlers.RoomCalendar(deps.Store, deps.Session)).Methods("GET")
	api.HandleFunc("/rooms/{id}/sync-ical", handlers.SyncRoomICal(deps.Syncer, deps.Store)).Methods("POST")
	api.HandleFunc("/rooms/{id}/ical-url", handlers.SetICalURL(deps.Remote, deps.Store, broadcaster)).Methods("PUT")

	// Room image endpoints
	api.HandleFunc("/rooms/{id}/images", handlers.UploadImage(deps.Remote, deps.Store, broadcaster)).Methods("POST")
	api.HandleFunc("/rooms/{id}/images/reorder", handlers.ReorderImages(deps.Remote, deps.Store, broadcaster)).Methods("PUT")
	api.HandleFunc("/rooms/{id}/images/{imageId}", handlers.DeleteImage(deps.Remote, deps.Store, broadcaster)).Methods("DELETE")

	// Session endpoints
	api.HandleFunc("/session", handlers.GetSession(deps.Session)).Methods("GET")
	api.HandleFunc("/session/toggle-date", handlers.ToggleDate(deps.Session)).Methods("POST")
	api.HandleFunc("/session/form", handlers.OpenBookingForm(deps.Session)).Methods("POST")
	api.HandleFunc("/session/confirm", handlers.ConfirmBooking(deps.Session, deps.Store, broadcaster)).Methods("POST")
	api.HandleFunc("/session/edit", handlers.OpenEditBooking(deps.Session)).Methods("POST")
	api.HandleFunc("/session/save-edit", handlers.SaveEditBooking(deps.Session, deps.Store, broadcaster)).Methods("POST")
	api.HandleFunc("/session/cancel-booking", handlers.CancelBooking(deps.Session, deps.Store, broadcaster)).Methods("POST")
	api.HandleFunc("/session/abandon", handlers.AbandonSession(deps.Session)).Methods("POST")
	api.HandleFunc("/session/navigate", handlers.NavigateMonth(deps.Session)).Methods("POST")

	// Finance ledger endpoints
	api.HandleFunc("/ledger", handlers.ListLedgerMonth(deps.Ledger)).Methods("GET")
	api.HandleFunc("/ledger", handlers.CreateLedgerEntry(deps.Ledger)).Methods("POST")
	api.HandleFunc("/ledger/{id}", handlers.DeleteLedgerEntry(deps.Ledger)).Methods("DELETE")

	// Operator account endpoints
	api.HandleFunc("/users", handlers.ListUsers(deps.Users)).Methods("GET")
	api.HandleFunc("/users", handlers.CreateUser(deps.Users)).Methods("POST")
	api.HandleFunc("/users/{id}/role", handlers.UpdateUserRole(deps.Users)).Methods("PUT")
	api.HandleFunc("/users/{id}", handlers.DeleteUser(deps.Users)).Methods("DELETE")

	// Serve static frontend files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(deps.StaticDir)))

	return r
}
