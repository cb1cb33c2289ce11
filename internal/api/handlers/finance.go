package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/homestay-console/backend/internal/api/middleware"
	"github.com/homestay-console/backend/internal/dateutil"
	"github.com/homestay-console/backend/internal/models"
	"github.com/homestay-console/backend/internal/storage"
)

// CreateLedgerEntry records one income or expense line.
func CreateLedgerEntry(repo *storage.LedgerRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entry models.LedgerEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if entry.Type != models.LedgerIncome && entry.Type != models.LedgerExpense {
			middleware.WriteError(w, http.StatusBadRequest, "type must be income or expense")
			return
		}
		if _, err := dateutil.ParseDateString(entry.Date); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		if entry.Amount <= 0 {
			middleware.WriteError(w, http.StatusBadRequest, "amount must be positive")
			return
		}
		if entry.Category == "" {
			middleware.WriteError(w, http.StatusBadRequest, "category is required")
			return
		}

		if err := repo.Create(r.Context(), &entry); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		middleware.WriteJSON(w, http.StatusCreated, entry)
	}
}

// ListLedgerMonth returns one month's entries plus its totals. The month
// defaults to the current one.
func ListLedgerMonth(repo *storage.LedgerRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		year, month, ok := monthParams(r, now.Year(), int(now.Month()))
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, "invalid year or month")
			return
		}

		entries, err := repo.ListMonth(r.Context(), year, month)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		summary, err := repo.Summarize(r.Context(), year, month)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}

		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"entries": entries,
			"summary": summary,
		})
	}
}

// DeleteLedgerEntry removes one ledger line.
func DeleteLedgerEntry(repo *storage.LedgerRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		deleted, err := repo.Delete(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !deleted {
			middleware.WriteError(w, http.StatusNotFound, "ledger entry not found")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

// monthParams reads year/month query parameters, falling back to defaults.
func monthParams(r *http.Request, defYear, defMonth int) (int, int, bool) {
	year, month := defYear, defMonth
	q := r.URL.Query()
	if y := q.Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			return 0, 0, false
		}
		year = parsed
	}
	if m := q.Get("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, false
		}
		month = parsed
	}
	return year, month, true
}
