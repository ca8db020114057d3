package models

import "time"

type Household struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	PinHash   []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Name string `json:"name"`
	Pin  string `json:"pin"`
}

type RegisterResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
