package models

import "time"

type Budget struct {
	ID          int       `json:"id"`
	HouseholdID int       `json:"household_id"`
	CategoryID  int       `json:"category_id"`
	Month       string    `json:"month"` // YYYY-MM
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
