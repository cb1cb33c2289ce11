// Package ical triggers iCal feed imports on the remote service. Feed
// parsing happens remotely; the console only schedules the passes, keeps
// them from overlapping and refreshes the snapshot afterwards.
package ical

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/homestay-console/backend/internal/rooms"
	"github.com/homestay-console/backend/internal/websocket"
)

// ErrSyncInProgress is returned when a sync pass is requested while another
// is still running.
var ErrSyncInProgress = errors.New("ical sync already in progress")

// ErrUploadInFlight is returned when a sync pass is skipped because an image
// operation holds the snapshot. Callers must not report the pass as synced.
var ErrUploadInFlight = errors.New("ical sync skipped: image operation in flight")

// SyncClient is the slice of the remote client the syncer needs.
type SyncClient interface {
	SyncAllICal(ctx context.Context) error
	SyncRoomICal(ctx context.Context, roomID string) error
}

// Syncer runs periodic sync-all passes and serves manual triggers.
type Syncer struct {
	remote      SyncClient
	store       *rooms.Store
	broadcaster *websocket.EventBroadcaster
	cron        *cron.Cron
	interval    time.Duration

	// running is the reentrancy flag: scheduled and manual passes share it
	// so two passes never overlap.
	running atomic.Bool
}

// NewSyncer creates a syncer firing every intervalMin minutes. hub may be
// nil when no event stream is wired (tests).
func NewSyncer(remote SyncClient, store *rooms.Store, hub *websocket.Hub, intervalMin int) *Syncer {
	if intervalMin <= 0 {
		intervalMin = 15
	}

	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return &Syncer{
		remote:      remote,
		store:       store,
		broadcaster: broadcaster,
		cron:        cron.New(),
		interval:    time.Duration(intervalMin) * time.Minute,
	}
}

// Start begins the periodic sync schedule.
func (s *Syncer) Start() error {
	_, err := s.cron.AddFunc("@every "+s.interval.String(), func() {
		err := s.SyncAll(context.Background())
		if err != nil && !errors.Is(err, ErrSyncInProgress) && !errors.Is(err, ErrUploadInFlight) {
			log.Printf("Scheduled iCal sync failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("iCal sync scheduler started (every %s)", s.interval)
	return nil
}

// Stop gracefully shuts down the scheduler, waiting for a running pass.
func (s *Syncer) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("iCal sync scheduler stopped")
}

// SyncAll triggers a sync of every configured feed. A pass already in
// flight, or an in-flight image upload, skips the pass with a distinct
// sentinel so callers can tell a skip from a completed sync.
func (s *Syncer) SyncAll(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer s.running.Store(false)

	if s.store.Uploading() {
		log.Println("Skipping iCal sync: image operation in flight")
		return ErrUploadInFlight
	}

	start := time.Now()
	if err := s.remote.SyncAllICal(ctx); err != nil {
		if s.broadcaster != nil {
			s.broadcaster.BroadcastSyncFailed("", err)
		}
		return err
	}

	if err := s.store.ReloadIfIdle(ctx); err != nil {
		log.Printf("Snapshot reload after sync failed: %v", err)
	}

	log.Printf("iCal sync-all completed in %s", time.Since(start).Round(time.Millisecond))
	if s.broadcaster != nil {
		s.broadcaster.BroadcastSyncCompleted("", time.Since(start))
	}
	return nil
}

// SyncRoom triggers a sync of one room's feed.
func (s *Syncer) SyncRoom(ctx context.Context, roomID string) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer s.running.Store(false)

	start := time.Now()
	if err := s.remote.SyncRoomICal(ctx, roomID); err != nil {
		if s.broadcaster != nil {
			s.broadcaster.BroadcastSyncFailed(roomID, err)
		}
		return err
	}

	if err := s.store.ReloadIfIdle(ctx); err != nil {
		log.Printf("Snapshot reload after sync failed: %v", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastSyncCompleted(roomID, time.Since(start))
	}
	return nil
}
