package models

import "time"

// LedgerEntryType distinguishes income from expense entries.
type LedgerEntryType string

const (
	LedgerIncome  LedgerEntryType = "income"
	LedgerExpense LedgerEntryType = "expense"
)

// LedgerEntry is a single row in the console's finance ledger.
// Entries are local to the console and not pushed to the remote service.
type LedgerEntry struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"` // "YYYY-MM-DD"
	Type      LedgerEntryType `json:"type"`
	Category  string          `json:"category"`
	Amount    float64         `json:"amount"`
	Note      string          `json:"note,omitempty"`
	RoomID    string          `json:"room_id,omitempty"`
	GuestName string          `json:"guest_name,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// LedgerSummary aggregates one month of ledger entries.
type LedgerSummary struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
	Entries int     `json:"entries"`
}
