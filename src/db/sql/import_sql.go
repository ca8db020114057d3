package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pennywise-server/src/csvimport"
	"pennywise-server/src/db"
	"pennywise-server/src/models"
)

// ImportStore is the slice of the pgxpool.Pool surface the bulk importer
// touches, narrowed so the transactional path can be exercised without a
// live database.
type ImportStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// BulkImportTransactions commits a reviewed batch as one unit.
//
// Phase 1 re-validates every row; any failure rejects the whole batch
// before the store is touched. Phase 2 runs the idempotency-key check
// and every insert inside a single transaction, so the batch either
// lands completely or not at all. Phase 3 learns merchant patterns from
// manually categorized rows, best-effort, after the commit.
//
// The returned error is reserved for infrastructure faults where no
// ImportResult can be built; batch rejections and commit failures are
// reported inside the result.
func BulkImportTransactions(ctx context.Context, store ImportStore, householdID int, rows []csvimport.ImportRow, idempotencyKey string) (*models.ImportResult, error) {
	if len(rows) == 0 {
		return &models.ImportResult{Success: true}, nil
	}

	// Phase 1: revalidation. Client review state is never trusted.
	if errs := csvimport.ValidateBatch(rows); len(errs) > 0 {
		return &models.ImportResult{
			Success: false,
			Failed:  len(errs),
			Errors:  errs,
		}, nil
	}

	// Phase 2: atomic commit.
	tx, err := store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if idempotencyKey != "" {
		var imported int
		err := tx.QueryRow(ctx, `
			SELECT imported_count FROM import_batches
			WHERE household_id = $1 AND idempotency_key = $2
		`, householdID, idempotencyKey).Scan(&imported)
		if err == nil {
			log.Printf("INFO: Import replay for household %d, key %s: %d rows already committed", householdID, idempotencyKey, imported)
			return &models.ImportResult{Success: true, Imported: imported}, nil
		}
		if err != pgx.ErrNoRows {
			return nil, fmt.Errorf("idempotency lookup failed: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO import_batches (household_id, idempotency_key, imported_count)
			VALUES ($1, $2, $3)
		`, householdID, idempotencyKey, len(rows))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				// A concurrent submission with the same key won the race.
				log.Printf("INFO: Import for household %d, key %s lost idempotency race", householdID, idempotencyKey)
				return replayRecordedBatch(ctx, store, householdID, idempotencyKey)
			}
			return nil, fmt.Errorf("failed to record idempotency key: %w", err)
		}
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO transactions (household_id, category_id, date, amount, description)
			VALUES ($1, $2, $3, $4, $5)
		`, householdID, *row.CategoryID, row.Date, row.Amount.StringFixed(2), strings.TrimSpace(row.Description))
	}

	br := tx.SendBatch(ctx, batch)
	var insertErr error
	for range rows {
		if _, err := br.Exec(); err != nil && insertErr == nil {
			insertErr = err
		}
	}
	if err := br.Close(); err != nil && insertErr == nil {
		insertErr = err
	}
	if insertErr != nil {
		log.Printf("ERROR: Bulk import for household %d rolled back: %v", householdID, insertErr)
		return &models.ImportResult{
			Success: false,
			Failed:  len(rows),
			Message: fmt.Sprintf("import failed, no rows were committed: %v", insertErr),
		}, nil
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("ERROR: Bulk import commit for household %d failed: %v", householdID, err)
		return &models.ImportResult{
			Success: false,
			Failed:  len(rows),
			Message: fmt.Sprintf("import failed, no rows were committed: %v", err),
		}, nil
	}

	log.Printf("INFO: Imported %d transactions for household %d", len(rows), householdID)

	// Phase 3: pattern learning. Failures never downgrade the result.
	learnMerchantPatterns(ctx, store, householdID, rows)

	return &models.ImportResult{Success: true, Imported: len(rows)}, nil
}

func replayRecordedBatch(ctx context.Context, store ImportStore, householdID int, idempotencyKey string) (*models.ImportResult, error) {
	var imported int
	err := store.QueryRow(ctx, `
		SELECT imported_count FROM import_batches
		WHERE household_id = $1 AND idempotency_key = $2
	`, householdID, idempotencyKey).Scan(&imported)
	if err != nil {
		return nil, fmt.Errorf("idempotency replay lookup failed: %w", err)
	}
	return &models.ImportResult{Success: true, Imported: imported}, nil
}

// learnMerchantPatterns upserts a merchant association for every
// committed row the user categorized by hand (match type "none").
func learnMerchantPatterns(ctx context.Context, store ImportStore, householdID int, rows []csvimport.ImportRow) {
	learned := 0
	for _, row := range rows {
		if row.MatchType != csvimport.MatchNone || row.CategoryID == nil {
			continue
		}
		merchant := csvimport.ExtractMerchant(row.Description)
		if merchant == "" {
			continue
		}
		if err := UpsertMerchantPattern(ctx, store, householdID, merchant, *row.CategoryID); err != nil {
			log.Printf("ERROR: Failed to learn merchant pattern %q for household %d: %v", merchant, householdID, err)
			continue
		}
		learned++
	}
	if learned > 0 {
		log.Printf("INFO: Learned %d merchant patterns for household %d", learned, householdID)
		db.ClearAllPatternCaches()
	}
}
