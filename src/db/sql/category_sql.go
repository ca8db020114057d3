package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pennywise-server/src/models"
)

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (household_id, name)
		VALUES ($1, $2)
		RETURNING id, household_id, name, created_at
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, category.HouseholdID, category.Name).
		Scan(&c.ID, &c.HouseholdID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func GetCategoryByID(ctx context.Context, pool *pgxpool.Pool, householdID, categoryID int) (*models.Category, error) {
	query := `
		SELECT id, household_id, name, created_at
		FROM categories
		WHERE id = $1 AND household_id = $2
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, categoryID, householdID).
		Scan(&c.ID, &c.HouseholdID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func GetAllCategories(ctx context.Context, pool *pgxpool.Pool, householdID int) ([]models.Category, error) {
	query := `
		SELECT id, household_id, name, created_at
		FROM categories
		WHERE household_id = $1
		ORDER BY id
	`
	rows, err := pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(&c.ID, &c.HouseholdID, &c.Name, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func UpdateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1
		WHERE id = $2 AND household_id = $3
		RETURNING id, household_id, name, created_at
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, category.Name, category.ID, category.HouseholdID).
		Scan(&c.ID, &c.HouseholdID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCategory removes a category together with its dependents in one
// transaction: keyword rules and learned merchant patterns go away with
// the category, budgets for it are dropped, and transactions fall back
// to uncategorized. The schema declares no cascades, so this is the only
// place the cleanup happens.
func DeleteCategory(ctx context.Context, pool *pgxpool.Pool, householdID, categoryID int) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin category delete: %w", err)
	}
	defer tx.Rollback(ctx)

	cleanup := []string{
		`DELETE FROM category_keywords WHERE category_id = $1 AND household_id = $2`,
		`DELETE FROM merchant_patterns WHERE category_id = $1 AND household_id = $2`,
		`DELETE FROM budgets WHERE category_id = $1 AND household_id = $2`,
		`UPDATE transactions SET category_id = NULL WHERE category_id = $1 AND household_id = $2`,
	}
	for _, query := range cleanup {
		if _, err := tx.Exec(ctx, query, categoryID, householdID); err != nil {
			return err
		}
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND household_id = $2`, categoryID, householdID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("category not found")
	}
	return tx.Commit(ctx)
}
