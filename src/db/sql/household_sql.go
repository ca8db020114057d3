package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pennywise-server/src/models"
)

func CreateHousehold(ctx context.Context, pool *pgxpool.Pool, name string, pinHash string) (*models.RegisterResponse, error) {
	query := `
		INSERT INTO households (name, pin_hash)
		VALUES ($1, $2)
		RETURNING id, name
	`
	var resp models.RegisterResponse
	err := pool.QueryRow(ctx, query, name, pinHash).Scan(&resp.ID, &resp.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create household: %w", err)
	}
	return &resp, nil
}

func GetHouseholdByName(ctx context.Context, pool *pgxpool.Pool, name string) (*models.Household, error) {
	query := `
		SELECT id, name, pin_hash, created_at
		FROM households
		WHERE name = $1
	`
	var h models.Household
	err := pool.QueryRow(ctx, query, name).Scan(&h.ID, &h.Name, &h.PinHash, &h.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New("household not found")
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &h, nil
}

func GetHouseholdByID(ctx context.Context, pool *pgxpool.Pool, id int) (*models.Household, error) {
	query := `
		SELECT id, name, pin_hash, created_at
		FROM households
		WHERE id = $1
	`
	var h models.Household
	err := pool.QueryRow(ctx, query, id).Scan(&h.ID, &h.Name, &h.PinHash, &h.CreatedAt)
	if err != nil {
		return nil, errors.New("household not found")
	}
	return &h, nil
}
