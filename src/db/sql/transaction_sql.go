package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pennywise-server/src/models"
)

func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (household_id, category_id, date, amount, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, household_id, category_id, date::text, amount::text, description, created_at
	`
	var t models.Transaction
	err := pool.QueryRow(ctx, query, txn.HouseholdID, txn.CategoryID, txn.Date, txn.Amount, txn.Description).
		Scan(&t.ID, &t.HouseholdID, &t.CategoryID, &t.Date, &t.Amount, &t.Description, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTransactionsByDateRange feeds the duplicate detector and the
// transaction list view. Dates are inclusive YYYY-MM-DD bounds.
func GetTransactionsByDateRange(ctx context.Context, pool *pgxpool.Pool, householdID int, from, to string) ([]models.Transaction, error) {
	query := `
		SELECT id, household_id, category_id, date::text, amount::text, description, created_at
		FROM transactions
		WHERE household_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, id
	`
	rows, err := pool.Query(ctx, query, householdID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.HouseholdID, &t.CategoryID, &t.Date, &t.Amount, &t.Description, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET category_id = $1, date = $2, amount = $3, description = $4
		WHERE id = $5 AND household_id = $6
		RETURNING id, household_id, category_id, date::text, amount::text, description, created_at
	`
	var t models.Transaction
	err := pool.QueryRow(ctx, query, txn.CategoryID, txn.Date, txn.Amount, txn.Description, txn.ID, txn.HouseholdID).
		Scan(&t.ID, &t.HouseholdID, &t.CategoryID, &t.Date, &t.Amount, &t.Description, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, householdID, txnID int) error {
	query := `DELETE FROM transactions WHERE id = $1 AND household_id = $2`
	cmd, err := pool.Exec(ctx, query, txnID, householdID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}
