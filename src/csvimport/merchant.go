package csvimport

import (
	"strings"
	"unicode"
)

// processorPrefixes are payment-processor markers that precede the real
// merchant name on statement lines. Longer variants come first so the
// spaced form is stripped before its compact twin.
var processorPrefixes = []string{
	"paypal *",
	"paypal*",
	"klarna *",
	"klarna*",
	"sq *",
	"sq*",
	"zip *",
	"dd *",
}

// ExtractMerchant derives a normalized merchant name from a statement
// description: strip a leading processor prefix, then keep the first two
// whitespace- or hyphen-delimited tokens, lowercased.
func ExtractMerchant(description string) string {
	s := strings.ToLower(strings.TrimSpace(description))
	for _, prefix := range processorPrefixes {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(s[len(prefix):])
			break
		}
	}

	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}
	return strings.Join(tokens, " ")
}
