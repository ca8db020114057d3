package csvimport

import (
	"math"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/shopspring/decimal"
)

// DefaultSimilarityThreshold is the minimum 0-100 description
// similarity for two same-date, same-amount transactions to count as
// duplicates.
const DefaultSimilarityThreshold = 80

// amountTolerance absorbs floating-point noise in amounts that were
// round-tripped through the review UI.
var amountTolerance = decimal.NewFromFloat(0.01)

// Similarity scores how alike two descriptions are, 0-100,
// case-insensitive. Two identical strings score 100.
func Similarity(a, b string) int {
	ratio := levenshtein.Similarity(strings.ToLower(a), strings.ToLower(b), nil)
	return int(math.Round(ratio * 100))
}

// FindDuplicates flags candidates that are probably already recorded.
// A pair must agree on the exact date string and on amount within 0.01
// before the fuzzy description comparison runs; each candidate reports
// at most one match, the first existing record in iteration order.
// Query-only: no caching between runs, no writes.
func FindDuplicates(candidates []ParsedTransaction, existing []ExistingTransaction, threshold int) []DuplicateMatch {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	var matches []DuplicateMatch
	for i, c := range candidates {
		for _, e := range existing {
			if c.Date != e.Date {
				continue
			}
			if c.Amount.Sub(e.Amount).Abs().GreaterThan(amountTolerance) {
				continue
			}
			desc := ""
			if e.Description != nil {
				desc = *e.Description
			}
			if sim := Similarity(c.Description, desc); sim >= threshold {
				matches = append(matches, DuplicateMatch{ImportIndex: i, ExistingID: e.ID, Similarity: sim})
				break
			}
		}
	}
	return matches
}
