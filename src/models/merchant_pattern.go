package models

import "time"

type MerchantPattern struct {
	ID           int       `json:"id"`
	HouseholdID  int       `json:"household_id"`
	MerchantName string    `json:"merchant_name"` // lowercase, normalized
	CategoryID   int       `json:"category_id"`
	LastUsedAt   time.Time `json:"last_used_at"`
	CreatedAt    time.Time `json:"created_at"`
}
