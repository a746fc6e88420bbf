package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader folds a column header or synonym for comparison.
// The normalization pipeline:
// 1. Decompose and drop combining marks ("Qté" -> "Qte").
// 2. Case-fold to lower.
// 3. Keep only letters and digits.
func NormalizeHeader(s string) string {
	var result strings.Builder

	result.Grow(len(s))

	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}

		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(unicode.ToLower(r))
		}
	}

	return result.String()
}
