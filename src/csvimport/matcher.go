package csvimport

import (
	"strings"

	"pennywise-server/src/models"
)

// Match type and confidence tiers. Keyword rules outrank learned
// merchant history, which outranks nothing.
const (
	MatchKeyword    = "keyword"
	MatchHistorical = "historical"
	MatchNone       = "none"

	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Match assigns a category to a free-text description. Tier 1 scans the
// keyword lists in slice order and the first containing keyword wins;
// that ordering is a documented tie-break, so callers must pass keywords
// in a stable order. Tier 2 falls back to learned merchant patterns,
// exact name first, then substring in either direction. Match never
// mutates its inputs.
func Match(description string, keywords []CategoryKeywords, patterns []models.MerchantPattern) CategoryMatch {
	desc := strings.ToLower(description)

	for _, ck := range keywords {
		for _, kw := range ck.Keywords {
			if kw != "" && strings.Contains(desc, kw) {
				id := ck.CategoryID
				return CategoryMatch{CategoryID: &id, MatchType: MatchKeyword, Confidence: ConfidenceHigh}
			}
		}
	}

	if merchant := ExtractMerchant(description); merchant != "" {
		for i := range patterns {
			if patterns[i].MerchantName == merchant {
				id := patterns[i].CategoryID
				return CategoryMatch{CategoryID: &id, MatchType: MatchHistorical, Confidence: ConfidenceMedium}
			}
		}
		for i := range patterns {
			name := patterns[i].MerchantName
			if name == "" {
				continue
			}
			if strings.Contains(merchant, name) || strings.Contains(name, merchant) {
				id := patterns[i].CategoryID
				return CategoryMatch{CategoryID: &id, MatchType: MatchHistorical, Confidence: ConfidenceMedium}
			}
		}
	}

	return CategoryMatch{MatchType: MatchNone, Confidence: ConfidenceLow}
}

// MatchAll maps Match over a list of descriptions, preserving order and
// one-to-one correspondence.
func MatchAll(descriptions []string, keywords []CategoryKeywords, patterns []models.MerchantPattern) []CategoryMatch {
	matches := make([]CategoryMatch, len(descriptions))
	for i, d := range descriptions {
		matches[i] = Match(d, keywords, patterns)
	}
	return matches
}

// GroupKeywords folds flat keyword rows into per-category lists,
// preserving the encounter order of categories. The SQL read path
// orders rows by category id then keyword id, so the oldest category
// wins keyword ties deterministically.
func GroupKeywords(rows []models.CategoryKeyword) []CategoryKeywords {
	var grouped []CategoryKeywords
	index := make(map[int]int)
	for _, row := range rows {
		kw := strings.ToLower(row.Keyword)
		if pos, ok := index[row.CategoryID]; ok {
			grouped[pos].Keywords = append(grouped[pos].Keywords, kw)
			continue
		}
		index[row.CategoryID] = len(grouped)
		grouped = append(grouped, CategoryKeywords{CategoryID: row.CategoryID, Keywords: []string{kw}})
	}
	return grouped
}
