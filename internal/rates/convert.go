package rates

import (
	"fmt"
	"strings"
)

const baseCurrency = "USD"

// SplitPair breaks a six-letter pair code such as "EURUSD" into its base and
// quote currencies. Anything else (including the extractor's "Unknown"
// placeholder) is rejected.
func SplitPair(pair string) (base, quote string, ok bool) {
	if len(pair) != 6 {
		return "", "", false
	}
	for _, r := range pair {
		if r < 'A' || r > 'Z' {
			return "", "", false
		}
	}
	return pair[:3], pair[3:], true
}

// BaseRates derives per-currency USD rates from a table: rates[c] is units of
// currency c per one USD. Only pairs quoting against USD contribute; crosses
// are served through USD triangulation in Convert.
func BaseRates(t *Table) map[string]float64 {
	out := map[string]float64{baseCurrency: 1}
	if t == nil {
		return out
	}
	for _, o := range t.Observations {
		price, ok := o.Price.Float()
		if !ok || price == 0 {
			continue
		}
		base, quote, ok := SplitPair(o.Pair)
		if !ok {
			continue
		}
		switch {
		case base == baseCurrency:
			out[quote] = price
		case quote == baseCurrency:
			out[base] = 1 / price
		}
	}
	return out
}

// Convert translates an amount between two currencies using USD base rates.
func Convert(baseRates map[string]float64, amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	fromRate, ok := baseRates[from]
	if !ok || fromRate == 0 {
		return 0, fmt.Errorf("no USD rate available for %s", from)
	}
	toRate, ok := baseRates[to]
	if !ok {
		return 0, fmt.Errorf("no USD rate available for %s", to)
	}
	return amount / fromRate * toRate, nil
}
