package models

import "time"

type CategoryKeyword struct {
	ID          int       `json:"id"`
	HouseholdID int       `json:"household_id"`
	CategoryID  int       `json:"category_id"`
	Keyword     string    `json:"keyword"` // stored lowercase
	CreatedAt   time.Time `json:"created_at"`
}
