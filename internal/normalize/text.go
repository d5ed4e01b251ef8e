// Package normalize holds the pure helpers shared by the handover parser and the
// clinical engines: text folding, dates, ages, oxygen therapy, diagnoses,
// antibiotic courses and score labels.
package normalize

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldText lowercases, strips accents and collapses whitespace.
// "  Diagnóstico  de INGRESO " -> "diagnostico de ingreso"
func FoldText(s string) string {
	// transformers carry state, build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

// parseDecimal accepts "2", "2.5" and "2,5"
func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
}

func floatPtr(v float64) *float64 {
	return &v
}
