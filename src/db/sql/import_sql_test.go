package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pennywise-server/src/csvimport"
)

// fakeImportStore stands in for the pool. Rows and idempotency keys only
// become visible in its maps when the transaction commits, so the tests
// can assert exactly what a failed batch left behind: nothing.
type fakeImportStore struct {
	beginCalls int
	lastTx     *fakeImportTx

	batches  map[string]int // committed key -> imported_count
	inserted []string       // committed transaction descriptions
	upserts  []string       // learned merchant names

	failRowExec     int // 1-based batch position whose insert errors
	commitErr       error
	raceOnKeyInsert bool
}

func newFakeImportStore() *fakeImportStore {
	return &fakeImportStore{batches: make(map[string]int)}
}

func (s *fakeImportStore) Begin(ctx context.Context) (pgx.Tx, error) {
	s.beginCalls++
	s.lastTx = &fakeImportTx{store: s}
	return s.lastTx, nil
}

// QueryRow outside a transaction is only the replay lookup after a lost
// idempotency race.
func (s *fakeImportStore) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	count, ok := s.batches[args[1].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{count: count}
}

// Exec outside a transaction is the merchant-pattern upsert from the
// learning phase.
func (s *fakeImportStore) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.upserts = append(s.upserts, args[1].(string))
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

type fakeImportTx struct {
	store       *fakeImportStore
	stagedRows  []string
	stagedKey   string
	stagedCount int
	committed   bool
	rolledBack  bool
}

func (t *fakeImportTx) Commit(ctx context.Context) error {
	if t.store.commitErr != nil {
		return t.store.commitErr
	}
	t.committed = true
	t.store.inserted = append(t.store.inserted, t.stagedRows...)
	if t.stagedKey != "" {
		t.store.batches[t.stagedKey] = t.stagedCount
	}
	return nil
}

func (t *fakeImportTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *fakeImportTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if t.store.raceOnKeyInsert {
		// The concurrent batch had not committed yet at lookup time.
		return fakeRow{err: pgx.ErrNoRows}
	}
	count, ok := t.store.batches[args[1].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{count: count}
}

func (t *fakeImportTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if t.store.raceOnKeyInsert {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
	}
	t.stagedKey = args[1].(string)
	t.stagedCount = args[2].(int)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (t *fakeImportTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return &fakeBatchResults{tx: t, batch: b}
}

func (t *fakeImportTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (t *fakeImportTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not supported")
}

func (t *fakeImportTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *fakeImportTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not supported")
}

func (t *fakeImportTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (t *fakeImportTx) Conn() *pgx.Conn { return nil }

type fakeBatchResults struct {
	tx    *fakeImportTx
	batch *pgx.Batch
	next  int
}

func (r *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	q := r.batch.QueuedQueries[r.next]
	r.next++
	if r.tx.store.failRowExec == r.next {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: "23502", Message: "null value in column"}
	}
	r.tx.stagedRows = append(r.tx.stagedRows, q.Arguments[4].(string))
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *fakeBatchResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *fakeBatchResults) QueryRow() pgx.Row        { return fakeRow{err: errors.New("not supported")} }
func (r *fakeBatchResults) Close() error             { return nil }

type fakeRow struct {
	count int
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.count
	return nil
}

func reviewedRows(n int) []csvimport.ImportRow {
	rows := make([]csvimport.ImportRow, n)
	for i := range rows {
		categoryID := 1
		rows[i] = csvimport.ImportRow{
			CategoryID:  &categoryID,
			Amount:      decimal.RequireFromString("12.34"),
			Description: fmt.Sprintf("GROCERY STORE %d", i+1),
			Date:        "2024-01-15",
			MatchType:   csvimport.MatchKeyword,
		}
	}
	return rows
}

func TestBulkImport_EmptyBatch(t *testing.T) {
	store := newFakeImportStore()

	result, err := BulkImportTransactions(context.Background(), store, 1, nil, "")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Zero(t, result.Imported)
	assert.Zero(t, store.beginCalls)
}

func TestBulkImport_InvalidRowRejectsBatchBeforeStore(t *testing.T) {
	store := newFakeImportStore()
	rows := reviewedRows(3)
	rows[1].CategoryID = nil

	result, err := BulkImportTransactions(context.Background(), store, 1, rows, "")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Zero(t, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, "missing category", result.Errors[0].Message)

	assert.Zero(t, store.beginCalls, "a rejected batch never opens a transaction")
}

func TestBulkImport_InsertFailureRollsBackWholeBatch(t *testing.T) {
	store := newFakeImportStore()
	store.failRowExec = 2
	rows := reviewedRows(3)

	result, err := BulkImportTransactions(context.Background(), store, 1, rows, "")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Zero(t, result.Imported)
	assert.Equal(t, 3, result.Failed)
	assert.Contains(t, result.Message, "no rows were committed")

	assert.Empty(t, store.inserted, "rows around the failing one must not land")
	require.NotNil(t, store.lastTx)
	assert.True(t, store.lastTx.rolledBack)
	assert.False(t, store.lastTx.committed)
}

func TestBulkImport_CommitFailureReportsNothingCommitted(t *testing.T) {
	store := newFakeImportStore()
	store.commitErr = errors.New("connection reset")
	rows := reviewedRows(2)

	result, err := BulkImportTransactions(context.Background(), store, 1, rows, "")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Zero(t, result.Imported)
	assert.Equal(t, 2, result.Failed)
	assert.Contains(t, result.Message, "no rows were committed")
	assert.Empty(t, store.inserted)
}

func TestBulkImport_SameKeyCommitsExactlyOnce(t *testing.T) {
	store := newFakeImportStore()
	rows := reviewedRows(3)
	key := "6d0f3a42-9f0e-4a6a-8a3f-111111111111"

	first, err := BulkImportTransactions(context.Background(), store, 1, rows, key)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.Equal(t, 3, first.Imported)
	assert.Len(t, store.inserted, 3)

	second, err := BulkImportTransactions(context.Background(), store, 1, rows, key)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, 3, second.Imported)

	assert.Len(t, store.inserted, 3, "the replay must not insert a second set")
	assert.False(t, store.lastTx.committed, "the replay transaction never commits")
}

func TestBulkImport_LostIdempotencyRaceReplaysRecordedResult(t *testing.T) {
	store := newFakeImportStore()
	store.raceOnKeyInsert = true
	key := "6d0f3a42-9f0e-4a6a-8a3f-222222222222"
	store.batches[key] = 5

	result, err := BulkImportTransactions(context.Background(), store, 1, reviewedRows(5), key)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 5, result.Imported)
	assert.Empty(t, store.inserted, "the losing side must not insert")
}

func TestBulkImport_LearnsPatternsFromManuallyCategorizedRows(t *testing.T) {
	store := newFakeImportStore()
	rows := reviewedRows(3)
	rows[2].MatchType = csvimport.MatchNone
	rows[2].Description = "PAYPAL *COFFEE SHOP DOWNTOWN"

	result, err := BulkImportTransactions(context.Background(), store, 1, rows, "")
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, []string{"coffee shop"}, store.upserts,
		"only the manually categorized row feeds the learner")
}
