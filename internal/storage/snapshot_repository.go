package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/homestay-console/backend/internal/models"
)

// SnapshotRepository persists the last successful room snapshot so the
// console can keep serving read-only data when the remote service is down.
// Only one snapshot row ever exists.
type SnapshotRepository struct {
	BaseRepository
}

// NewSnapshotRepository creates a snapshot repository.
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{BaseRepository: NewBaseRepository(db)}
}

// Save replaces the stored snapshot with the given room list.
func (r *SnapshotRepository) Save(ctx context.Context, rooms []models.Room) error {
	payload, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	_, err = r.DB().ExecContext(ctx, `
		INSERT INTO room_snapshots (id, payload, fetched_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`, string(payload), r.Now())
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot and the time it was fetched. A missing
// snapshot returns an empty room list, not an error.
func (r *SnapshotRepository) Load(ctx context.Context) ([]models.Room, time.Time, error) {
	var payload string
	var fetchedAt time.Time
	err := r.DB().QueryRowContext(ctx, `
		SELECT payload, fetched_at FROM room_snapshots WHERE id = 1
	`).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("loading snapshot: %w", err)
	}

	var rooms []models.Room
	if err := json.Unmarshal([]byte(payload), &rooms); err != nil {
		return nil, time.Time{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return rooms, fetchedAt, nil
}
