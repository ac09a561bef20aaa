package rates

import (
	"github.com/shopspring/decimal"
)

// DefaultThresholdPct is the relative price movement, in percent, above which
// a pair is reported as a significant change.
const DefaultThresholdPct = 0.5

// ChangeEvent is one pair's movement between two consecutive fetches.
type ChangeEvent struct {
	Pair          string
	PreviousPrice float64
	CurrentPrice  float64
	DeltaPct      decimal.Decimal
	Direction     string
}

var oneHundred = decimal.NewFromInt(100)

// DetectChanges inner-joins current and previous on pair and reports every
// joined row whose absolute relative price movement strictly exceeds
// thresholdPct. Pairs present in only one table are ignored. A previous price
// that is unavailable or exactly zero makes the ratio undefined, so the pair
// is excluded rather than reported; an unavailable current price is excluded
// for the same reason. Results follow the current table's order.
func DetectChanges(current, previous *Table, thresholdPct float64) []ChangeEvent {
	if current.Empty() || previous.Empty() {
		return nil
	}

	prior := make(map[string]float64, previous.Len())
	for _, o := range previous.Observations {
		if p, ok := o.Price.Float(); ok {
			prior[o.Pair] = p
		}
	}

	threshold := decimal.NewFromFloat(thresholdPct)
	var events []ChangeEvent
	for _, o := range current.Observations {
		cur, ok := o.Price.Float()
		if !ok {
			continue
		}
		prev, ok := prior[o.Pair]
		if !ok || prev == 0 {
			continue
		}

		delta := decimal.NewFromFloat(cur).
			Sub(decimal.NewFromFloat(prev)).
			Div(decimal.NewFromFloat(prev)).
			Mul(oneHundred).
			Abs()
		if !delta.GreaterThan(threshold) {
			continue
		}

		direction := "down"
		if cur > prev {
			direction = "up"
		}
		events = append(events, ChangeEvent{
			Pair:          o.Pair,
			PreviousPrice: prev,
			CurrentPrice:  cur,
			DeltaPct:      delta,
			Direction:     direction,
		})
	}
	return events
}
