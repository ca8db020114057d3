package csvimport

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pennywise-server/src/models"
)

// ValidateBatch re-validates every reviewed row independently of
// whatever validation happened upstream; client review state is never
// trusted. Errors carry the row's original position in the input, and
// any error means the whole batch must be rejected before the store is
// touched.
func ValidateBatch(rows []ImportRow) []models.ImportRowError {
	var errs []models.ImportRowError
	for i, row := range rows {
		if msg := validateImportRow(row); msg != "" {
			errs = append(errs, models.ImportRowError{Index: i, Message: msg})
		}
	}
	return errs
}

func validateImportRow(row ImportRow) string {
	if row.CategoryID == nil || *row.CategoryID <= 0 {
		return "missing category"
	}
	if !row.Amount.IsPositive() {
		return "amount must be positive"
	}
	if row.Amount.GreaterThan(maxImportAmount) {
		return "amount exceeds the 100,000,000 maximum"
	}
	if !dateRe.MatchString(row.Date) {
		return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", row.Date)
	}
	if _, err := time.Parse("2006-01-02", row.Date); err != nil {
		return fmt.Sprintf("invalid date %q: not a real calendar date", row.Date)
	}
	description := strings.TrimSpace(row.Description)
	if description == "" {
		return "missing description"
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return fmt.Sprintf("description exceeds %d characters", MaxDescriptionLen)
	}
	return ""
}
