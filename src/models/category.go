package models

import "time"

type Category struct {
	ID          int       `json:"id"`
	HouseholdID int       `json:"household_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}
