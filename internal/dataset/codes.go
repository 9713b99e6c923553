package dataset

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeCode canonicalizes a state code: surrounding space trimmed, NFC
// normalized, upper-cased. "ny", " NY " and "Ny" all become "NY".
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	// Casers carry state, so each call gets its own.
	return cases.Upper(language.Und).String(norm.NFC.String(code))
}

// NormalizeCodes applies NormalizeCode to each element, preserving order.
func NormalizeCodes(codes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = NormalizeCode(c)
	}
	return out
}
