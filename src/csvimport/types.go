package csvimport

import (
	"github.com/shopspring/decimal"
)

// ParsedTransaction is one validated statement row. Amount is always a
// positive magnitude; the sign in the source file is discarded.
type ParsedTransaction struct {
	Date        string          `json:"date"` // YYYY-MM-DD
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	RowNumber   int             `json:"row_number"` // 1-indexed, header is row 1
}

// RowError records the first validation failure of a statement row.
type RowError struct {
	RowNumber int    `json:"row_number"`
	Message   string `json:"message"`
}

type ParseSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

type ParseResult struct {
	Transactions []ParsedTransaction `json:"transactions"`
	Errors       []RowError          `json:"errors"`
	Summary      ParseSummary        `json:"summary"`
}

// CategoryKeywords is one category's keyword list. Matching iterates a
// slice of these in order, so the caller's ordering decides ties.
type CategoryKeywords struct {
	CategoryID int      `json:"category_id"`
	Keywords   []string `json:"keywords"`
}

type CategoryMatch struct {
	CategoryID *int   `json:"category_id"`
	MatchType  string `json:"match_type"`
	Confidence string `json:"confidence"`
}

// ExistingTransaction is the slice of a stored transaction the duplicate
// detector compares against.
type ExistingTransaction struct {
	ID          int             `json:"id"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
}

type DuplicateMatch struct {
	ImportIndex int `json:"import_index"`
	ExistingID  int `json:"existing_transaction_id"`
	Similarity  int `json:"similarity"` // 0-100
}

// ImportRow is one reviewed row submitted for commit.
type ImportRow struct {
	CategoryID  *int            `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	MatchType   string          `json:"match_type"` // how the category was assigned during review
}
