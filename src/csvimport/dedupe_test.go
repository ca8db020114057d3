package csvimport

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strptr(s string) *string { return &s }

func TestSimilarity_IdenticalCaseInsensitive(t *testing.T) {
	assert.Equal(t, 100, Similarity("WALMART PURCHASE", "walmart purchase"))
	assert.Equal(t, 100, Similarity("same", "same"))
}

func TestSimilarity_Disjoint(t *testing.T) {
	assert.Less(t, Similarity("WALMART PURCHASE", "ZZZZZZ"), DefaultSimilarityThreshold)
}

func TestFindDuplicates_ExactMatch(t *testing.T) {
	candidates := []ParsedTransaction{
		{Date: "2024-01-15", Amount: dec("50.00"), Description: "walmart purchase"},
	}
	existing := []ExistingTransaction{
		{ID: 42, Date: "2024-01-15", Amount: dec("50.00"), Description: strptr("WALMART PURCHASE")},
	}

	matches := FindDuplicates(candidates, existing, DefaultSimilarityThreshold)
	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].ImportIndex)
	assert.Equal(t, 42, matches[0].ExistingID)
	assert.Equal(t, 100, matches[0].Similarity)
}

func TestFindDuplicates_DateMismatchEliminates(t *testing.T) {
	candidates := []ParsedTransaction{
		{Date: "2024-01-16", Amount: dec("50.00"), Description: "WALMART PURCHASE"},
	}
	existing := []ExistingTransaction{
		{ID: 1, Date: "2024-01-15", Amount: dec("50.00"), Description: strptr("WALMART PURCHASE")},
	}

	assert.Empty(t, FindDuplicates(candidates, existing, DefaultSimilarityThreshold))
}

func TestFindDuplicates_AmountTolerance(t *testing.T) {
	candidates := []ParsedTransaction{
		{Date: "2024-01-15", Amount: dec("50.00"), Description: "WALMART PURCHASE"},
	}

	within := []ExistingTransaction{
		{ID: 1, Date: "2024-01-15", Amount: dec("50.01"), Description: strptr("WALMART PURCHASE")},
	}
	require.Len(t, FindDuplicates(candidates, within, DefaultSimilarityThreshold), 1)

	beyond := []ExistingTransaction{
		{ID: 1, Date: "2024-01-15", Amount: dec("50.02"), Description: strptr("WALMART PURCHASE")},
	}
	assert.Empty(t, FindDuplicates(candidates, beyond, DefaultSimilarityThreshold))
}

func TestFindDuplicates_BelowThresholdNotReported(t *testing.T) {
	candidates := []ParsedTransaction{
		{Date: "2024-01-15", Amount: dec("50.00"), Description: "WALMART PURCHASE"},
	}
	existing := []ExistingTransaction{
		{ID: 1, Date: "2024-01-15", Amount: dec("50.00"), Description: strptr("COMPLETELY DIFFERENT")},
	}

	assert.Empty(t, FindDuplicates(candidates, existing, DefaultSimilarityThreshold))
}

func TestFindDuplicates_FirstExistingWins(t *testing.T) {
	candidates := []ParsedTransaction{
		{Date: "2024-01-15", Amount: dec("50.00"), Description: "WALMART PURCHASE"},
	}
	existing := []ExistingTransaction{
		{ID: 1, Date: "2024-01-15", Amount: dec("50.00"), Description: strptr("WALMART PURCHASE")},
		{ID: 2, Date: "2024-01-15", Amount: dec("50.00"), Description: strptr("WALMART PURCHASE")},
	}

	matches := FindDuplicates(candidates, existing, DefaultSimilarityThreshold)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].ExistingID)
}

func TestFindDuplicates_NilDescriptionTreatedAsEmpty(t *testing.T) {
	candidates := []ParsedTransaction{
		{Date: "2024-01-15", Amount: dec("50.00"), Description: "WALMART PURCHASE"},
	}
	existing := []ExistingTransaction{
		{ID: 1, Date: "2024-01-15", Amount: dec("50.00"), Description: nil},
	}

	assert.NotPanics(t, func() {
		assert.Empty(t, FindDuplicates(candidates, existing, DefaultSimilarityThreshold))
	})
}

func TestFindDuplicates_ReportedPairsShareDateAndAmount(t *testing.T) {
	candidates := []ParsedTransaction{
		{Date: "2024-01-15", Amount: dec("50.00"), Description: "WALMART PURCHASE"},
		{Date: "2024-01-16", Amount: dec("12.30"), Description: "GAS STATION"},
		{Date: "2024-01-17", Amount: dec("7.77"), Description: "COFFEE"},
	}
	existing := []ExistingTransaction{
		{ID: 1, Date: "2024-01-16", Amount: dec("12.30"), Description: strptr("GAS STATION")},
		{ID: 2, Date: "2024-01-17", Amount: dec("99.99"), Description: strptr("COFFEE")},
	}

	matches := FindDuplicates(candidates, existing, DefaultSimilarityThreshold)
	for _, m := range matches {
		c := candidates[m.ImportIndex]
		var e ExistingTransaction
		for _, x := range existing {
			if x.ID == m.ExistingID {
				e = x
			}
		}
		assert.Equal(t, c.Date, e.Date)
		assert.True(t, c.Amount.Sub(e.Amount).Abs().LessThanOrEqual(decimal.NewFromFloat(0.01)))
	}
	require.Len(t, matches, 1)
}

func TestFindDuplicates_ZeroThresholdUsesDefault(t *testing.T) {
	candidates := []ParsedTransaction{
		{Date: "2024-01-15", Amount: dec("50.00"), Description: "WALMART PURCHASE"},
	}
	existing := []ExistingTransaction{
		{ID: 1, Date: "2024-01-15", Amount: dec("50.00"), Description: strptr("TOTALLY UNRELATED TEXT")},
	}

	assert.Empty(t, FindDuplicates(candidates, existing, 0))
}
