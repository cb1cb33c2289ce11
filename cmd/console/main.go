// Package main is the entry point for the homestay admin console server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/homestay-console/backend/internal/api"
	"github.com/homestay-console/backend/internal/ical"
	"github.com/homestay-console/backend/internal/remote"
	"github.com/homestay-console/backend/internal/rooms"
	"github.com/homestay-console/backend/internal/session"
	"github.com/homestay-console/backend/internal/storage"
	"github.com/homestay-console/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	// Parse command-line flags
	addr := flag.String("addr", ":8090", "HTTP server address")
	dataDir := flag.String("data", "./data", "Data directory for SQLite database")
	staticDir := flag.String("static", "./static", "Directory for static frontend files")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(*addr); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	// Local overrides live in .env; absence is not an error.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	remoteBaseURL := os.Getenv("REMOTE_BASE_URL")
	if remoteBaseURL == "" {
		log.Fatal("REMOTE_BASE_URL must be set")
	}
	remoteToken := os.Getenv("REMOTE_TOKEN")
	syncIntervalMin := 15
	if v := os.Getenv("SYNC_INTERVAL_MIN"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			log.Fatalf("Invalid SYNC_INTERVAL_MIN %q", v)
		}
		syncIntervalMin = parsed
	}

	log.Printf("Starting homestay admin console (version: %s)...", version)

	// Initialize database
	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory %q: %v", *dataDir, err)
	}
	dbPath := *dataDir + "/console.db"
	db, err := storage.NewDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations complete")

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	snapshotRepo := storage.NewSnapshotRepository(db)
	ledgerRepo := storage.NewLedgerRepository(db)
	userRepo := storage.NewUserRepository(db)

	// Initialize remote client and snapshot store
	client := remote.NewClient(remote.Config{
		BaseURL:   remoteBaseURL,
		AuthToken: remoteToken,
	})
	store := rooms.NewStore(client, snapshotRepo)

	// Fetch the initial snapshot; a failure here falls back to the persisted
	// copy and the console starts degraded rather than not at all.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.Reload(ctx); err != nil {
		log.Printf("Warning: Initial room snapshot fetch failed: %v", err)
	}
	cancel()
	log.Printf("Room snapshot loaded (%d rooms, source: %s)", len(store.Rooms()), store.Source())

	// Initialize session controller and iCal syncer
	ctrl := session.NewController(client, store)
	syncer := ical.NewSyncer(client, store, hub, syncIntervalMin)
	if err := syncer.Start(); err != nil {
		log.Printf("Warning: Failed to start iCal sync scheduler: %v", err)
	}

	// Initialize HTTP router
	router := api.NewRouter(api.Deps{
		DB:        db,
		Hub:       hub,
		Remote:    client,
		Store:     store,
		Session:   ctrl,
		Syncer:    syncer,
		Ledger:    ledgerRepo,
		Users:     userRepo,
		StaticDir: *staticDir,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Server listening on %s", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	syncer.Stop()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
