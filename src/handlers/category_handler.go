package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	cache "pennywise-server/src/db"
	db "pennywise-server/src/db/sql"
	"pennywise-server/src/models"
)

func CreateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create category request body for household %d: %v", householdID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "category name is required", http.StatusBadRequest)
			return
		}
		category := &models.Category{
			HouseholdID: int(householdID),
			Name:        req.Name,
		}
		created, err := db.CreateCategory(r.Context(), pool, category)
		if err != nil {
			log.Printf("ERROR: Failed to create category for household %d: %v", householdID, err)
			http.Error(w, "failed to create category", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created category id %d for household %d, name %s", created.ID, householdID, created.Name)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllCategories(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		categories, err := db.GetAllCategories(r.Context(), pool, int(householdID))
		if err != nil {
			log.Printf("ERROR: Failed to get categories for household %d: %v", householdID, err)
			http.Error(w, "failed to get categories", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(categories)
	}
}

func UpdateCategory(pool *pgxpool.Pool) http.HandlerFunc {
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
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update category request body for household %d: %v", householdID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		category := &models.Category{
			ID:          categoryID,
			HouseholdID: int(householdID),
			Name:        strings.TrimSpace(req.Name),
		}
		updated, err := db.UpdateCategory(r.Context(), pool, category)
		if err != nil {
			log.Printf("ERROR: Failed to update category id %d for household %d: %v", categoryID, householdID, err)
			http.Error(w, "failed to update category", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated category id %d for household %d", updated.ID, householdID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		categoryIDStr := chi.URLParam(r, "category_id")
		categoryID, err := strconv.Atoi(categoryIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid category id param: %s", categoryIDStr)
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		err = db.DeleteCategory(r.Context(), pool, int(householdID), categoryID)
		if err != nil {
			log.Printf("ERROR: Failed to delete category id %d for household %d: %v", categoryID, householdID, err)
			http.Error(w, "failed to delete category", http.StatusInternalServerError)
			return
		}
		// Keyword rules and learned patterns for the category are gone;
		// drop the cached copies the matcher reads.
		cache.ClearAllKeywordCaches()
		cache.ClearAllPatternCaches()
		log.Printf("INFO: Deleted category id %d for household %d", categoryID, householdID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "category deleted"})
	}
}
