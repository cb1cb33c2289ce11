package storage

import (
	"context"
	"fmt"

	"github.com/homestay-console/backend/internal/models"
)

// LedgerRepository stores the console's finance ledger entries.
type LedgerRepository struct {
	BaseRepository
}

// NewLedgerRepository creates a ledger repository.
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{BaseRepository: NewBaseRepository(db)}
}

// Create inserts a new ledger entry, assigning its ID and creation time.
func (r *LedgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	entry.ID = GenerateID()
	entry.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO ledger_entries (id, entry_date, entry_type, category, amount, note, room_id, guest_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Date, entry.Type, entry.Category, entry.Amount, entry.Note, entry.RoomID, entry.GuestName, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating ledger entry: %w", err)
	}
	return nil
}

// ListMonth returns the entries for one calendar month, oldest first.
func (r *LedgerRepository) ListMonth(ctx context.Context, year, month int) ([]models.LedgerEntry, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, entry_date, entry_type, category, amount, note, room_id, guest_name, created_at
		FROM ledger_entries
		WHERE entry_date LIKE ? || '%'
		ORDER BY entry_date, created_at
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Type, &e.Category, &e.Amount, &e.Note, &e.RoomID, &e.GuestName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes an entry by ID. Returns false when no row matched.
func (r *LedgerRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM ledger_entries WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting ledger entry: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// Summarize aggregates one month of entries into income/expense/net totals.
func (r *LedgerRepository) Summarize(ctx context.Context, year, month int) (models.LedgerSummary, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	summary := models.LedgerSummary{Year: year, Month: month}

	err := r.DB().QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN entry_type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN entry_type = 'expense' THEN amount ELSE 0 END), 0),
			COUNT(*)
		FROM ledger_entries
		WHERE entry_date LIKE ? || '%'
	`, prefix).Scan(&summary.Income, &summary.Expense, &summary.Entries)
	if err != nil {
		return summary, fmt.Errorf("summarizing ledger: %w", err)
	}

	summary.Net = summary.Income - summary.Expense
	return summary, nil
}
