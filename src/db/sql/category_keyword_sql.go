package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pennywise-server/src/models"
)

func CreateCategoryKeyword(ctx context.Context, pool *pgxpool.Pool, keyword *models.CategoryKeyword) (*models.CategoryKeyword, error) {
	query := `
		INSERT INTO category_keywords (household_id, category_id, keyword)
		VALUES ($1, $2, $3)
		RETURNING id, household_id, category_id, keyword, created_at
	`
	var k models.CategoryKeyword
	err := pool.QueryRow(ctx, query, keyword.HouseholdID, keyword.CategoryID, keyword.Keyword).
		Scan(&k.ID, &k.HouseholdID, &k.CategoryID, &k.Keyword, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func GetKeywordsForCategory(ctx context.Context, pool *pgxpool.Pool, householdID, categoryID int) ([]models.CategoryKeyword, error) {
	query := `
		SELECT id, household_id, category_id, keyword, created_at
		FROM category_keywords
		WHERE household_id = $1 AND category_id = $2
		ORDER BY id
	`
	rows, err := pool.Query(ctx, query, householdID, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []models.CategoryKeyword
	for rows.Next() {
		var k models.CategoryKeyword
		err := rows.Scan(&k.ID, &k.HouseholdID, &k.CategoryID, &k.Keyword, &k.CreatedAt)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

// GetAllCategoryKeywords returns every keyword for the household ordered
// by category id then keyword id. The matcher's first-match-wins
// tie-break depends on this ordering staying stable.
func GetAllCategoryKeywords(ctx context.Context, pool *pgxpool.Pool, householdID int) ([]models.CategoryKeyword, error) {
	query := `
		SELECT id, household_id, category_id, keyword, created_at
		FROM category_keywords
		WHERE household_id = $1
		ORDER BY category_id, id
	`
	rows, err := pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []models.CategoryKeyword
	for rows.Next() {
		var k models.CategoryKeyword
		err := rows.Scan(&k.ID, &k.HouseholdID, &k.CategoryID, &k.Keyword, &k.CreatedAt)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

func DeleteCategoryKeyword(ctx context.Context, pool *pgxpool.Pool, householdID, keywordID int) error {
	query := `DELETE FROM category_keywords WHERE id = $1 AND household_id = $2`
	cmd, err := pool.Exec(ctx, query, keywordID, householdID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("keyword not found")
	}
	return nil
}
