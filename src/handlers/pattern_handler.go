package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	cache "pennywise-server/src/db"
	db "pennywise-server/src/db/sql"
)

func GetAllMerchantPatterns(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		patterns, err := db.GetAllMerchantPatterns(r.Context(), pool, int(householdID))
		if err != nil {
			log.Printf("ERROR: Failed to get merchant patterns for household %d: %v", householdID, err)
			http.Error(w, "failed to get merchant patterns", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(patterns)
	}
}

func DeleteMerchantPattern(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		patternIDStr := chi.URLParam(r, "pattern_id")
		patternID, err := strconv.Atoi(patternIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid pattern id param: %s", patternIDStr)
			http.Error(w, "invalid pattern id", http.StatusBadRequest)
			return
		}
		err = db.DeleteMerchantPattern(r.Context(), pool, int(householdID), patternID)
		if err != nil {
			log.Printf("ERROR: Failed to delete merchant pattern id %d for household %d: %v", patternID, householdID, err)
			http.Error(w, "failed to delete merchant pattern", http.StatusInternalServerError)
			return
		}
		cache.ClearAllPatternCaches()
		log.Printf("INFO: Deleted merchant pattern id %d for household %d", patternID, householdID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "merchant pattern deleted"})
	}
}
