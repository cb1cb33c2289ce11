package rooms

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestay-console/backend/internal/models"
	"github.com/homestay-console/backend/internal/storage"
)

// fakeLister serves canned room lists and can be flipped into failure mode.
type fakeLister struct {
	rooms []models.Room
	err   error
	calls int
}

func (f *fakeLister) ListRooms(ctx context.Context) ([]models.Room, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rooms, nil
}

func newTestRepo(t *testing.T) *storage.SnapshotRepository {
	t.Helper()
	db, err := storage.NewDB(filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(db))
	return storage.NewSnapshotRepository(db)
}

func testRooms() []models.Room {
	return []models.Room{
		{ID: "0101", Name: "Garden View"},
		{ID: "0102", Name: "Family Suite",
			BookedIntervals: []models.BookingInterval{
				{CheckIn: "2025-03-10", CheckOut: "2025-03-13", GuestName: "Ana"},
			}},
	}
}

func TestReloadFromRemote(t *testing.T) {
	lister := &fakeLister{rooms: testRooms()}
	store := NewStore(lister, nil)

	require.NoError(t, store.Reload(context.Background()))
	assert.Equal(t, SourceRemote, store.Source())
	assert.Len(t, store.Rooms(), 2)
	assert.False(t, store.FetchedAt().IsZero())

	room, ok := store.Room("0102")
	assert.True(t, ok)
	assert.Equal(t, "Family Suite", room.Name)

	_, ok = store.Room("9999")
	assert.False(t, ok)

	assert.True(t, store.IsRoomIDTaken("0101"))
	assert.False(t, store.IsRoomIDTaken("0103"))
}

func TestReloadFallsBackToPersistedSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	lister := &fakeLister{rooms: testRooms()}
	ctx := context.Background()

	// First store run persists the snapshot.
	store := NewStore(lister, repo)
	require.NoError(t, store.Reload(ctx))

	// A fresh store with a dead remote serves the persisted copy.
	lister.err = errors.New("connection refused")
	restarted := NewStore(lister, repo)
	err := restarted.Reload(ctx)
	assert.Error(t, err)
	assert.Equal(t, SourceFallback, restarted.Source())
	assert.Len(t, restarted.Rooms(), 2)
}

func TestReloadFailureKeepsInMemorySnapshot(t *testing.T) {
	lister := &fakeLister{rooms: testRooms()}
	store := NewStore(lister, nil)
	ctx := context.Background()

	require.NoError(t, store.Reload(ctx))
	lister.err = errors.New("connection refused")

	assert.Error(t, store.Reload(ctx))
	// The last good snapshot keeps serving, but is no longer reported as
	// live so health checks degrade instead of claiming fresh data.
	assert.Len(t, store.Rooms(), 2)
	assert.Equal(t, SourceStale, store.Source())

	// A successful reload restores the live marker.
	lister.err = nil
	require.NoError(t, store.Reload(ctx))
	assert.Equal(t, SourceRemote, store.Source())
}

func TestReloadWithNothingAvailable(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection refused")}
	store := NewStore(lister, newTestRepo(t))

	assert.Error(t, store.Reload(context.Background()))
	assert.Equal(t, SourceNone, store.Source())
	assert.Empty(t, store.Rooms())
}

func TestReloadIfIdleSkipsDuringUpload(t *testing.T) {
	lister := &fakeLister{rooms: testRooms()}
	store := NewStore(lister, nil)
	ctx := context.Background()

	store.BeginUpload()
	assert.True(t, store.Uploading())
	require.NoError(t, store.ReloadIfIdle(ctx))
	assert.Equal(t, 0, lister.calls)

	store.EndUpload()
	require.NoError(t, store.ReloadIfIdle(ctx))
	assert.Equal(t, 1, lister.calls)
}

func TestStats(t *testing.T) {
	lister := &fakeLister{rooms: testRooms()}
	store := NewStore(lister, nil)
	require.NoError(t, store.Reload(context.Background()))

	// March 11 falls inside 0102's booking.
	stats := store.Stats(time.Date(2025, time.March, 11, 9, 0, 0, 0, time.Local))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.OccupiedToday)
	assert.Equal(t, 1, stats.FreeToday)
	assert.Equal(t, SourceRemote, stats.Source)

	// The check-out day is free again.
	stats = store.Stats(time.Date(2025, time.March, 13, 9, 0, 0, 0, time.Local))
	assert.Equal(t, 0, stats.OccupiedToday)
	assert.Equal(t, 2, stats.FreeToday)
}
