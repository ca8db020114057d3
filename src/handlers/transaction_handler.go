package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	db "pennywise-server/src/db/sql"
	"pennywise-server/src/models"
)

// GetTransactions lists the household's transactions inside an
// inclusive date range. Defaults to the last 90 days.
func GetTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)

		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if to == "" {
			to = time.Now().Format("2006-01-02")
		}
		if from == "" {
			from = time.Now().AddDate(0, 0, -90).Format("2006-01-02")
		}
		if _, err := time.Parse("2006-01-02", from); err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		if _, err := time.Parse("2006-01-02", to); err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}

		txns, err := db.GetTransactionsByDateRange(r.Context(), pool, int(householdID), from, to)
		if err != nil {
			log.Printf("ERROR: Failed to get transactions for household %d: %v", householdID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(txns)
	}
}

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		var req struct {
			CategoryID  *int   `json:"category_id"`
			Date        string `json:"date"`
			Amount      string `json:"amount"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for household %d: %v", householdID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		txn := &models.Transaction{
			HouseholdID: int(householdID),
			CategoryID:  req.CategoryID,
			Date:        req.Date,
			Amount:      req.Amount,
			Description: req.Description,
		}
		created, err := db.CreateTransaction(r.Context(), pool, txn)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for household %d: %v", householdID, err)
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created transaction id %d for household %d", created.ID, householdID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func UpdateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		txnIDStr := chi.URLParam(r, "transaction_id")
		txnID, err := strconv.Atoi(txnIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", txnIDStr)
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		var req struct {
			CategoryID  *int   `json:"category_id"`
			Date        string `json:"date"`
			Amount      string `json:"amount"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for household %d: %v", householdID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		txn := &models.Transaction{
			ID:          txnID,
			HouseholdID: int(householdID),
			CategoryID:  req.CategoryID,
			Date:        req.Date,
			Amount:      req.Amount,
			Description: req.Description,
		}
		updated, err := db.UpdateTransaction(r.Context(), pool, txn)
		if err != nil {
			log.Printf("ERROR: Failed to update transaction id %d for household %d: %v", txnID, householdID, err)
			http.Error(w, "failed to update transaction", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated transaction id %d for household %d", updated.ID, householdID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		txnIDStr := chi.URLParam(r, "transaction_id")
		txnID, err := strconv.Atoi(txnIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", txnIDStr)
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		err = db.DeleteTransaction(r.Context(), pool, int(householdID), txnID)
		if err != nil {
			log.Printf("ERROR: Failed to delete transaction id %d for household %d: %v", txnID, householdID, err)
			http.Error(w, "failed to delete transaction", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted transaction id %d for household %d", txnID, householdID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "transaction deleted"})
	}
}
