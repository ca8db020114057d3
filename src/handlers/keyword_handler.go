package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	cache "pennywise-server/src/db"
	db "pennywise-server/src/db/sql"
	"pennywise-server/src/models"
)

func CreateCategoryKeyword(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		categoryIDStr := chi.URLParam(r, "category_id")
		categoryID, err := strconv.Atoi(categoryIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid category id param: %s", categoryIDStr)
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		var req struct {
			Keyword string `json:"keyword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create keyword request body for household %d: %v", householdID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		// Keywords are stored lowercase; matching is case-insensitive.
		keyword := strings.ToLower(strings.TrimSpace(req.Keyword))
		if keyword == "" {
			http.Error(w, "keyword is required", http.StatusBadRequest)
			return
		}
		if utf8.RuneCountInString(keyword) > 100 {
			http.Error(w, "keyword exceeds 100 characters", http.StatusBadRequest)
			return
		}

		if _, err := db.GetCategoryByID(r.Context(), pool, int(householdID), categoryID); err != nil {
			log.Printf("ERROR: Category id %d not found for household %d: %v", categoryID, householdID, err)
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}

		created, err := db.CreateCategoryKeyword(r.Context(), pool, &models.CategoryKeyword{
			HouseholdID: int(householdID),
			CategoryID:  categoryID,
			Keyword:     keyword,
		})
		if err != nil {
			log.Printf("ERROR: Failed to create keyword for household %d: %v", householdID, err)
			http.Error(w, "failed to create keyword", http.StatusInternalServerError)
			return
		}
		cache.ClearAllKeywordCaches()
		log.Printf("INFO: Created keyword id %d for household %d, category %d", created.ID, householdID, categoryID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetKeywordsForCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		categoryIDStr := chi.URLParam(r, "category_id")
		categoryID, err := strconv.Atoi(categoryIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid category id param: %s", categoryIDStr)
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		keywords, err := db.GetKeywordsForCategory(r.Context(), pool, int(householdID), categoryID)
		if err != nil {
			log.Printf("ERROR: Failed to get keywords for household %d, category %d: %v", householdID, categoryID, err)
			http.Error(w, "failed to get keywords", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(keywords)
	}
}

func DeleteCategoryKeyword(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		keywordIDStr := chi.URLParam(r, "keyword_id")
		keywordID, err := strconv.Atoi(keywordIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid keyword id param: %s", keywordIDStr)
			http.Error(w, "invalid keyword id", http.StatusBadRequest)
			return
		}
		err = db.DeleteCategoryKeyword(r.Context(), pool, int(householdID), keywordID)
		if err != nil {
			log.Printf("ERROR: Failed to delete keyword id %d for household %d: %v", keywordID, householdID, err)
			http.Error(w, "failed to delete keyword", http.StatusInternalServerError)
			return
		}
		cache.ClearAllKeywordCaches()
		log.Printf("INFO: Deleted keyword id %d for household %d", keywordID, householdID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "keyword deleted"})
	}
}
