package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pennywise-server/src/models"
)

func CreateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (household_id, category_id, month, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, household_id, category_id, month, amount, created_at, updated_at
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budget.HouseholdID, budget.CategoryID, budget.Month, budget.Amount).
		Scan(&b.ID, &b.HouseholdID, &b.CategoryID, &b.Month, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func GetBudgetByID(ctx context.Context, pool *pgxpool.Pool, householdID, budgetID int) (*models.Budget, error) {
	query := `
		SELECT id, household_id, category_id, month, amount, created_at, updated_at
		FROM budgets WHERE id = $1 AND household_id = $2
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budgetID, householdID).
		Scan(&b.ID, &b.HouseholdID, &b.CategoryID, &b.Month, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func GetAllBudgetsForHousehold(ctx context.Context, pool *pgxpool.Pool, householdID int) ([]models.Budget, error) {
	query := `
		SELECT id, household_id, category_id, month, amount, created_at, updated_at
		FROM budgets WHERE household_id = $1
		ORDER BY month DESC, category_id
	`
	rows, err := pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		err := rows.Scan(&b.ID, &b.HouseholdID, &b.CategoryID, &b.Month, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func UpdateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET category_id = $1, month = $2, amount = $3, updated_at = NOW()
		WHERE id = $4 AND household_id = $5
		RETURNING id, household_id, category_id, month, amount, created_at, updated_at
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budget.CategoryID, budget.Month, budget.Amount, budget.ID, budget.HouseholdID).
		Scan(&b.ID, &b.HouseholdID, &b.CategoryID, &b.Month, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func DeleteBudget(ctx context.Context, pool *pgxpool.Pool, householdID, budgetID int) error {
	query := `DELETE FROM budgets WHERE id = $1 AND household_id = $2`
	cmd, err := pool.Exec(ctx, query, budgetID, householdID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("budget not found")
	}
	return nil
}
