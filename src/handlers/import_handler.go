package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"pennywise-server/src/csvimport"
	cache "pennywise-server/src/db"
	db "pennywise-server/src/db/sql"
	"pennywise-server/src/models"
)

// ParseStatement accepts a multipart CSV upload under the "statement"
// field, applies the file-level admission rules, and returns parsed
// transactions, per-row errors and the summary.
func ParseStatement(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)

		if err := r.ParseMultipartForm(csvimport.MaxFileSize); err != nil {
			log.Printf("ERROR: Failed to parse statement upload for household %d: %v", householdID, err)
			http.Error(w, "invalid upload", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("statement")
		if err != nil {
			log.Printf("ERROR: Missing statement file for household %d: %v", householdID, err)
			http.Error(w, "statement file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		if err := csvimport.ValidateUpload(header.Filename, header.Size); err != nil {
			log.Printf("ERROR: Statement upload rejected for household %d: %v", householdID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(io.LimitReader(file, csvimport.MaxFileSize))
		if err != nil {
			log.Printf("ERROR: Failed to read statement file for household %d: %v", householdID, err)
			http.Error(w, "failed to read file", http.StatusInternalServerError)
			return
		}

		result, err := csvimport.Parse(string(content))
		if err != nil {
			log.Printf("ERROR: Statement parse failed for household %d: %v", householdID, err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		log.Printf("INFO: Parsed statement for household %d: %d rows, %d ok, %d failed",
			householdID, result.Summary.Total, result.Summary.Success, result.Summary.Failed)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// MatchCandidates assigns a category with a confidence tier to each
// submitted description, using the household's keyword rules and
// learned merchant patterns.
func MatchCandidates(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		var req struct {
			Descriptions []string `json:"descriptions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode match request body for household %d: %v", householdID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		keywords, err := loadKeywords(r, pool, int(householdID))
		if err != nil {
			log.Printf("ERROR: Failed to load keywords for household %d: %v", householdID, err)
			http.Error(w, "failed to load keywords", http.StatusInternalServerError)
			return
		}
		patterns, err := loadPatterns(r, pool, int(householdID))
		if err != nil {
			log.Printf("ERROR: Failed to load merchant patterns for household %d: %v", householdID, err)
			http.Error(w, "failed to load merchant patterns", http.StatusInternalServerError)
			return
		}

		matches := csvimport.MatchAll(req.Descriptions, keywords, patterns)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"matches": matches})
	}
}

// CheckDuplicates compares candidates against the household's stored
// transactions inside the candidates' date window.
func CheckDuplicates(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		var req struct {
			Candidates []csvimport.ParsedTransaction `json:"candidates"`
			Threshold  int                           `json:"threshold"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode duplicate check body for household %d: %v", householdID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if len(req.Candidates) == 0 {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{"duplicates": []csvimport.DuplicateMatch{}})
			return
		}

		from, to := dateWindow(req.Candidates)
		txns, err := db.GetTransactionsByDateRange(r.Context(), pool, int(householdID), from, to)
		if err != nil {
			log.Printf("ERROR: Failed to load transactions for duplicate check, household %d: %v", householdID, err)
			http.Error(w, "failed to load transactions", http.StatusInternalServerError)
			return
		}

		existing := make([]csvimport.ExistingTransaction, 0, len(txns))
		for _, t := range txns {
			amount, err := decimal.NewFromString(t.Amount)
			if err != nil {
				continue
			}
			desc := t.Description
			existing = append(existing, csvimport.ExistingTransaction{
				ID:          t.ID,
				Date:        t.Date,
				Amount:      amount,
				Description: &desc,
			})
		}

		duplicates := csvimport.FindDuplicates(req.Candidates, existing, req.Threshold)
		log.Printf("INFO: Duplicate check for household %d: %d candidates, %d flagged", householdID, len(req.Candidates), len(duplicates))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"duplicates": duplicates})
	}
}

// CommitImport runs the all-or-nothing batch import. An optional
// Idempotency-Key header (UUID) makes a retried submission safe.
func CommitImport(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		var req struct {
			Transactions []csvimport.ImportRow `json:"transactions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode import commit body for household %d: %v", householdID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		idempotencyKey := r.Header.Get("Idempotency-Key")
		if idempotencyKey != "" {
			if _, err := uuid.Parse(idempotencyKey); err != nil {
				log.Printf("ERROR: Invalid idempotency key %q for household %d", idempotencyKey, householdID)
				http.Error(w, "idempotency key must be a UUID", http.StatusBadRequest)
				return
			}
		}

		result, err := db.BulkImportTransactions(r.Context(), pool, int(householdID), req.Transactions, idempotencyKey)
		if err != nil {
			log.Printf("ERROR: Bulk import failed for household %d: %v", householdID, err)
			http.Error(w, "import failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// dateWindow returns the min and max candidate dates. Dates are
// YYYY-MM-DD so string comparison orders correctly.
func dateWindow(candidates []csvimport.ParsedTransaction) (string, string) {
	from, to := candidates[0].Date, candidates[0].Date
	for _, c := range candidates[1:] {
		if c.Date < from {
			from = c.Date
		}
		if c.Date > to {
			to = c.Date
		}
	}
	return from, to
}

func loadKeywords(r *http.Request, pool *pgxpool.Pool, householdID int) ([]csvimport.CategoryKeywords, error) {
	cacheKey := fmt.Sprintf("keywords:%d", householdID)
	if cached, found := cache.Cache.Get(cacheKey); found {
		if keywords, ok := cached.([]csvimport.CategoryKeywords); ok {
			return keywords, nil
		}
	}
	rows, err := db.GetAllCategoryKeywords(r.Context(), pool, householdID)
	if err != nil {
		return nil, err
	}
	keywords := csvimport.GroupKeywords(rows)
	cache.SetKeywordCache(cacheKey, keywords)
	return keywords, nil
}

func loadPatterns(r *http.Request, pool *pgxpool.Pool, householdID int) ([]models.MerchantPattern, error) {
	cacheKey := fmt.Sprintf("patterns:%d", householdID)
	if cached, found := cache.Cache.Get(cacheKey); found {
		if patterns, ok := cached.([]models.MerchantPattern); ok {
			return patterns, nil
		}
	}
	patterns, err := db.GetAllMerchantPatterns(r.Context(), pool, householdID)
	if err != nil {
		return nil, err
	}
	cache.SetPatternCache(cacheKey, patterns)
	return patterns, nil
}
