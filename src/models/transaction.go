package models

import "time"

type Transaction struct {
	ID          int       `json:"id"`
	HouseholdID int       `json:"household_id"`
	CategoryID  *int      `json:"category_id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
