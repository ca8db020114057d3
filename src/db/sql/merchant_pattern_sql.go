package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pennywise-server/src/models"
)

// UpsertMerchantPattern records or refreshes a learned merchant
// association in one atomic statement. A re-learn with a different
// category moves the merchant to that category and refreshes
// last_used_at; the pipeline never deletes patterns.
func UpsertMerchantPattern(ctx context.Context, store ImportStore, householdID int, merchantName string, categoryID int) error {
	query := `
		INSERT INTO merchant_patterns (household_id, merchant_name, category_id, last_used_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (household_id, merchant_name)
		DO UPDATE SET category_id = EXCLUDED.category_id, last_used_at = NOW()
	`
	_, err := store.Exec(ctx, query, householdID, merchantName, categoryID)
	if err != nil {
		return fmt.Errorf("failed to upsert merchant pattern: %w", err)
	}
	return nil
}

// GetAllMerchantPatterns returns the household's learned patterns, most
// recently used first, so the freshest association wins substring ties
// in the matcher.
func GetAllMerchantPatterns(ctx context.Context, pool *pgxpool.Pool, householdID int) ([]models.MerchantPattern, error) {
	query := `
		SELECT id, household_id, merchant_name, category_id, last_used_at, created_at
		FROM merchant_patterns
		WHERE household_id = $1
		ORDER BY last_used_at DESC, id
	`
	rows, err := pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []models.MerchantPattern
	for rows.Next() {
		var p models.MerchantPattern
		err := rows.Scan(&p.ID, &p.HouseholdID, &p.MerchantName, &p.CategoryID, &p.LastUsedAt, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

func DeleteMerchantPattern(ctx context.Context, pool *pgxpool.Pool, householdID, patternID int) error {
	query := `DELETE FROM merchant_patterns WHERE id = $1 AND household_id = $2`
	cmd, err := pool.Exec(ctx, query, patternID, householdID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("merchant pattern not found")
	}
	return nil
}
