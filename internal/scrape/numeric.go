package scrape

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"currency-watch/internal/rates"
)

// naMarker is the page's literal placeholder for a missing cell.
const naMarker = "N/A"

var nonNumeric = regexp.MustCompile(`[^0-9.-]`)

// Clean normalizes one raw cell: every rune except digits, '.' and '-' is
// stripped, so currency symbols, thousands separators and directional glyphs
// fall away uniformly. Empty input and the N/A marker become the explicit
// missing value. If the remainder still fails to parse, the ORIGINAL text is
// passed through untouched so downstream consumers can see the bad cell.
func Clean(raw string) rates.Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == naMarker {
		return rates.NA()
	}
	cleaned := nonNumeric.ReplaceAllString(trimmed, "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return rates.Text(raw)
	}
	return rates.Num(f)
}
