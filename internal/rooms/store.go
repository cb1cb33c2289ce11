// Package rooms maintains the console's cached room snapshot: the read-mostly
// copy of the remote service's room list, refreshed after every mutation and
// persisted locally so a remote outage degrades to read-only instead of a
// blank console.
package rooms

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/homestay-console/backend/internal/dateutil"
	"github.com/homestay-console/backend/internal/interval"
	"github.com/homestay-console/backend/internal/models"
	"github.com/homestay-console/backend/internal/storage"
)

// Source identifies where the current snapshot came from.
type Source string

const (
	SourceNone     Source = "none"
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"

	// SourceStale marks an in-memory snapshot that a later reload failed to
	// refresh. The data is still served, but health reporting must not call
	// it live.
	SourceStale Source = "stale"
)

// Lister is the slice of the remote client the store needs.
type Lister interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
}

// Store holds the cached room snapshot.
type Store struct {
	remote Lister
	repo   *storage.SnapshotRepository

	mu        sync.RWMutex
	rooms     []models.Room
	source    Source
	fetchedAt time.Time
	uploading bool
}

// NewStore creates a snapshot store. repo may be nil in tests.
func NewStore(remote Lister, repo *storage.SnapshotRepository) *Store {
	return &Store{
		remote: remote,
		repo:   repo,
		source: SourceNone,
	}
}

// Reload fetches a fresh snapshot from the remote service. On success the
// snapshot is persisted locally; on failure the store degrades — the
// in-memory snapshot is marked stale, or the last persisted snapshot is
// loaded when there is nothing in memory — and the error is returned so
// callers can report it.
func (s *Store) Reload(ctx context.Context) error {
	rooms, err := s.remote.ListRooms(ctx)
	if err != nil {
		if fbErr := s.degrade(ctx); fbErr != nil {
			log.Printf("Snapshot fallback unavailable: %v", fbErr)
		}
		return fmt.Errorf("reloading rooms: %w", err)
	}

	s.mu.Lock()
	s.rooms = rooms
	s.source = SourceRemote
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.Save(ctx, rooms); err != nil {
			log.Printf("Failed to persist room snapshot: %v", err)
		}
	}
	return nil
}

// ReloadIfIdle reloads unless an image operation is in flight. Optimistic UI
// around uploads must not be clobbered by a concurrent list refresh.
func (s *Store) ReloadIfIdle(ctx context.Context) error {
	s.mu.RLock()
	uploading := s.uploading
	s.mu.RUnlock()
	if uploading {
		log.Println("Skipping snapshot reload: image operation in flight")
		return nil
	}
	return s.Reload(ctx)
}

// degrade records that the remote is unreachable. An already-loaded
// in-memory snapshot is kept in preference to the disk copy but is marked
// stale so /api/health stops reporting it as live; with nothing in memory
// the persisted snapshot is loaded instead.
func (s *Store) degrade(ctx context.Context) error {
	s.mu.Lock()
	haveRooms := len(s.rooms) > 0
	if haveRooms && s.source == SourceRemote {
		s.source = SourceStale
	}
	s.mu.Unlock()
	if haveRooms || s.repo == nil {
		return nil
	}

	rooms, fetchedAt, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if rooms == nil {
		return nil
	}

	s.mu.Lock()
	s.rooms = rooms
	s.source = SourceFallback
	s.fetchedAt = fetchedAt
	s.mu.Unlock()
	log.Printf("Serving %d rooms from local fallback snapshot", len(rooms))
	return nil
}

// Rooms returns a copy of the cached room list.
func (s *Store) Rooms() []models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Room, len(s.rooms))
	copy(out, s.rooms)
	return out
}

// Room returns one room by its canonical ID.
func (s *Store) Room(id string) (models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return models.Room{}, false
}

// IsRoomIDTaken reports whether any cached room already uses the given ID.
func (s *Store) IsRoomIDTaken(id string) bool {
	_, ok := s.Room(id)
	return ok
}

// Source reports where the current snapshot came from.
func (s *Store) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// FetchedAt reports when the current snapshot was obtained.
func (s *Store) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

// BeginUpload suppresses snapshot reloads until EndUpload is called.
func (s *Store) BeginUpload() {
	s.mu.Lock()
	s.uploading = true
	s.mu.Unlock()
}

// EndUpload re-enables snapshot reloads.
func (s *Store) EndUpload() {
	s.mu.Lock()
	s.uploading = false
	s.mu.Unlock()
}

// Uploading reports whether an image operation is in flight.
func (s *Store) Uploading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploading
}

// Stats summarizes the snapshot for the dashboard.
type Stats struct {
	Total         int       `json:"total"`
	OccupiedToday int       `json:"occupied_today"`
	FreeToday     int       `json:"free_today"`
	Source        Source    `json:"source"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Stats derives dashboard counts from the cached snapshot.
func (s *Store) Stats(now time.Time) Stats {
	today := dateutil.FormatDateString(now)

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Total: len(s.rooms), Source: s.source, FetchedAt: s.fetchedAt}
	for _, room := range s.rooms {
		if _, ok := interval.Find(room.BookedIntervals, today); ok {
			stats.OccupiedToday++
		} else {
			stats.FreeToday++
		}
	}
	return stats
}
