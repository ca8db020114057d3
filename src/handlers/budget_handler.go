package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	db "pennywise-server/src/db/sql"
	"pennywise-server/src/models"
)

func CreateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		var req struct {
			CategoryID int     `json:"category_id"`
			Month      string  `json:"month"`
			Amount     float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create budget request body for household %d: %v", householdID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		budget := &models.Budget{
			HouseholdID: int(householdID),
			CategoryID:  req.CategoryID,
			Month:       req.Month,
			Amount:      req.Amount,
		}
		created, err := db.CreateBudget(r.Context(), pool, budget)
		if err != nil {
			log.Printf("ERROR: Failed to create budget for household %d: %v", householdID, err)
			http.Error(w, "failed to create budget", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created budget id %d for household %d, category %d", created.ID, householdID, created.CategoryID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetBudgetByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		budgetIDStr := chi.URLParam(r, "budget_id")
		budgetID, err := strconv.Atoi(budgetIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid budget id param: %s", budgetIDStr)
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}
		budget, err := db.GetBudgetByID(r.Context(), pool, int(householdID), budgetID)
		if err != nil {
			log.Printf("ERROR: Budget id %d not found for household %d: %v", budgetID, householdID, err)
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(budget)
	}
}

func GetAllBudgets(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		budgets, err := db.GetAllBudgetsForHousehold(r.Context(), pool, int(householdID))
		if err != nil {
			log.Printf("ERROR: Failed to get budgets for household %d: %v", householdID, err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(budgets)
	}
}

func UpdateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		budgetIDStr := chi.URLParam(r, "budget_id")
		budgetID, err := strconv.Atoi(budgetIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid budget id param: %s", budgetIDStr)
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}
		var req struct {
			CategoryID int     `json:"category_id"`
			Month      string  `json:"month"`
			Amount     float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update budget request body for household %d: %v", householdID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		budget := &models.Budget{
			ID:          budgetID,
			HouseholdID: int(householdID),
			CategoryID:  req.CategoryID,
			Month:       req.Month,
			Amount:      req.Amount,
		}
		updated, err := db.UpdateBudget(r.Context(), pool, budget)
		if err != nil {
			log.Printf("ERROR: Failed to update budget id %d for household %d: %v", budgetID, householdID, err)
			http.Error(w, "failed to update budget", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated budget id %d for household %d", updated.ID, householdID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.Context().Value("household_id").(int64)
		budgetIDStr := chi.URLParam(r, "budget_id")
		budgetID, err := strconv.Atoi(budgetIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid budget id param: %s", budgetIDStr)
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}
		err = db.DeleteBudget(r.Context(), pool, int(householdID), budgetID)
		if err != nil {
			log.Printf("ERROR: Failed to delete budget id %d for household %d: %v", budgetID, householdID, err)
			http.Error(w, "failed to delete budget", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted budget id %d for household %d", budgetID, householdID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "budget deleted"})
	}
}
