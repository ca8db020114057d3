package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// MaxFileSize is the upload cap for statement files.
	MaxFileSize = 5 << 20

	// MaxDescriptionLen is the stored description limit, in characters.
	MaxDescriptionLen = 100
)

var (
	requiredColumns = []string{"Date", "Amount", "Description"}
	dateRe          = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	maxImportAmount = decimal.New(100_000_000, 0)
)

// ValidateUpload applies the file-level admission rules before any row
// is parsed. Violations are whole-file errors.
func ValidateUpload(filename string, size int64) error {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return fmt.Errorf("only .csv files are supported")
	}
	if size <= 0 {
		return fmt.Errorf("file is empty")
	}
	if size > MaxFileSize {
		return fmt.Errorf("file exceeds the 5 MiB limit")
	}
	return nil
}

// Parse turns statement file content into validated transactions plus a
// per-row error list. A missing required column is a whole-file error;
// everything after the header is collected row by row. Row numbers are
// 1-indexed with the header as row 1. Parsing is pure: the same content
// always yields the same result.
func Parse(content string) (*ParseResult, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := colIndex[h]; !ok {
			colIndex[h] = i
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv is missing required columns: %s", strings.Join(missing, ", "))
	}

	result := &ParseResult{}
	rowNum := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		result.Summary.Total++

		// A malformed record (bad quoting) fails only its own row; the
		// reader recovers at the next line.
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("reading csv: %w", err)
			}
			result.Summary.Failed++
			result.Errors = append(result.Errors, RowError{RowNumber: rowNum, Message: fmt.Sprintf("malformed csv row: %v", parseErr.Err)})
			continue
		}

		txn, msg := parseRow(rec, colIndex, rowNum)
		if msg != "" {
			result.Summary.Failed++
			result.Errors = append(result.Errors, RowError{RowNumber: rowNum, Message: msg})
			continue
		}
		result.Summary.Success++
		result.Transactions = append(result.Transactions, *txn)
	}
	return result, nil
}

// parseRow validates one data row. Checks run in a fixed order and the
// first failure wins, so a row produces at most one error message.
func parseRow(rec []string, colIndex map[string]int, rowNum int) (*ParsedTransaction, string) {
	dateStr := strings.TrimSpace(field(rec, colIndex["Date"]))
	if !dateRe.MatchString(dateStr) {
		return nil, fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", dateStr)
	}
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return nil, fmt.Sprintf("invalid date %q: not a real calendar date", dateStr)
	}

	amountStr := strings.TrimSpace(field(rec, colIndex["Amount"]))
	if amountStr == "" {
		return nil, "missing amount"
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Sprintf("invalid amount %q", amountStr)
	}
	if amount.IsZero() {
		return nil, "amount must be nonzero"
	}
	amount = amount.Abs().Round(2)
	if amount.GreaterThan(maxImportAmount) {
		return nil, "amount exceeds the 100,000,000 maximum"
	}

	description := strings.TrimSpace(field(rec, colIndex["Description"]))
	if description == "" {
		return nil, "missing description"
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return nil, fmt.Sprintf("description exceeds %d characters", MaxDescriptionLen)
	}

	return &ParsedTransaction{
		Date:        dateStr,
		Amount:      amount,
		Description: description,
		RowNumber:   rowNum,
	}, ""
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
