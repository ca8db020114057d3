package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	db "pennywise-server/src/db/sql"
	"pennywise-server/src/models"
	"pennywise-server/src/util"
)

func Register(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode register request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		req.Name = strings.TrimSpace(req.Name)

		if !util.ValidateHouseholdName(req.Name) {
			log.Printf("ERROR: Household name validation failed during registration - Name: %s", req.Name)
			http.Error(w, "household name must be between 3 and 30 characters", http.StatusBadRequest)
			return
		}

		if !util.ValidatePin(req.Pin) {
			log.Printf("ERROR: PIN validation failed during registration - Household: %s", req.Name)
			http.Error(w, "pin must be 4 to 8 digits", http.StatusBadRequest)
			return
		}

		hashedPin, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash PIN for household %s: %v", req.Name, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp, err := db.CreateHousehold(r.Context(), pool, req.Name, string(hashedPin))
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				log.Printf("ERROR: Registration failed - household name already exists - Name: %s", req.Name)
				http.Error(w, "household name already exists", http.StatusConflict)
				return
			}
			log.Printf("ERROR: Failed to create household %s: %v", req.Name, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Successful registration - Household: %s, ID: %d", resp.Name, resp.ID)

		tokenString, err := signToken(resp.ID, resp.Name)
		if err != nil {
			log.Printf("ERROR: Failed to generate JWT token for household %s: %v", resp.Name, err)
			http.Error(w, "Error generating token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"token": tokenString,
		})
	}
}

func Login(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			Name string `json:"name"`
			Pin  string `json:"pin"`
		}

		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("ERROR: Failed to decode login request body: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		household, err := db.GetHouseholdByName(r.Context(), pool, strings.TrimSpace(credentials.Name))
		if err != nil {
			log.Printf("ERROR: Failed to find household during login - Name: %s: %v", credentials.Name, err)
			http.Error(w, "Household not found", http.StatusUnauthorized)
			return
		}

		if err := bcrypt.CompareHashAndPassword(household.PinHash, []byte(credentials.Pin)); err != nil {
			log.Printf("ERROR: Invalid PIN attempt for household %s from IP %s", credentials.Name, r.RemoteAddr)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		tokenString, err := signToken(household.ID, household.Name)
		if err != nil {
			log.Printf("ERROR: Failed to generate JWT token for household %s: %v", household.Name, err)
			http.Error(w, "Error generating token", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Successful login - Household: %s, ID: %d", household.Name, household.ID)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"token": tokenString,
		})
	}
}

func signToken(householdID int, householdName string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"household_id":   householdID,
		"household_name": householdName,
		"exp":            time.Now().Add(time.Hour * 168).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
