package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestay-console/backend/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, RunMigrations(db))
	return db
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	// A second run finds everything recorded in _migrations and applies
	// nothing.
	require.NoError(t, RunMigrations(db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&count))
	assert.Greater(t, count, 0)

	// Tables from the migrations are usable afterwards.
	_, err := db.Exec("SELECT COUNT(*) FROM ledger_entries")
	assert.NoError(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))
	ctx := context.Background()

	rooms := []models.Room{
		{ID: "0101", Name: "Garden View", Price: 45,
			BookedIntervals: []models.BookingInterval{
				{CheckIn: "2025-03-10", CheckOut: "2025-03-13", GuestName: "Ana"},
			}},
	}
	require.NoError(t, repo.Save(ctx, rooms))

	loaded, fetchedAt, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, rooms, loaded)
	assert.False(t, fetchedAt.IsZero())

	// A second save replaces the single snapshot row.
	require.NoError(t, repo.Save(ctx, rooms[:0]))
	loaded, _, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSnapshotLoadEmpty(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))

	rooms, fetchedAt, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rooms)
	assert.True(t, fetchedAt.IsZero())
}

func TestLedgerCreateListDelete(t *testing.T) {
	repo := NewLedgerRepository(newTestDB(t))
	ctx := context.Background()

	entry := models.LedgerEntry{
		Date:     "2025-03-12",
		Type:     models.LedgerIncome,
		Category: "booking",
		Amount:   135,
		RoomID:   "0101",
	}
	require.NoError(t, repo.Create(ctx, &entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	entries, err := repo.ListMonth(ctx, 2025, 3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, 135.0, entries[0].Amount)

	// Other months stay empty.
	entries, err = repo.ListMonth(ctx, 2025, 4)
	require.NoError(t, err)
	assert.Empty(t, entries)

	deleted, err := repo.Delete(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, entry.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestLedgerSummarize(t *testing.T) {
	repo := NewLedgerRepository(newTestDB(t))
	ctx := context.Background()

	for _, e := range []models.LedgerEntry{
		{Date: "2025-03-01", Type: models.LedgerIncome, Category: "booking", Amount: 200},
		{Date: "2025-03-15", Type: models.LedgerIncome, Category: "booking", Amount: 90},
		{Date: "2025-03-20", Type: models.LedgerExpense, Category: "cleaning", Amount: 60},
		{Date: "2025-04-01", Type: models.LedgerIncome, Category: "booking", Amount: 500},
	} {
		entry := e
		require.NoError(t, repo.Create(ctx, &entry))
	}

	summary, err := repo.Summarize(ctx, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, 290.0, summary.Income)
	assert.Equal(t, 60.0, summary.Expense)
	assert.Equal(t, 230.0, summary.Net)
	assert.Equal(t, 3, summary.Entries)

	// An empty month sums to zero instead of erroring.
	summary, err = repo.Summarize(ctx, 2025, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.Income)
	assert.Equal(t, 0, summary.Entries)
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	admin := models.User{Username: "maria", Role: models.RoleAdmin}
	require.NoError(t, repo.Create(ctx, &admin))
	assert.NotEmpty(t, admin.ID)

	// Usernames are unique.
	dup := models.User{Username: "maria", Role: models.RoleStaff}
	assert.ErrorIs(t, repo.Create(ctx, &dup), ErrDuplicateUsername)

	staff := models.User{Username: "alex", Role: models.RoleStaff}
	require.NoError(t, repo.Create(ctx, &staff))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	// Ordered by username.
	assert.Equal(t, "alex", users[0].Username)
	assert.Equal(t, "maria", users[1].Username)

	updated, err := repo.UpdateRole(ctx, staff.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := repo.Get(ctx, staff.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleAdmin, got.Role)

	got, err = repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	deleted, err := repo.Delete(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
}
