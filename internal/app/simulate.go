package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"currency-watch/internal/rates"
)

// SimulateChange pushes a synthetic previous/current price pair through the
// change detector and, when a movement results, through the configured alert
// channels. Useful for verifying alert wiring without waiting for a real
// move.
func (a *App) SimulateChange(ctx context.Context, pair string, previous, current float64) error {
	now := time.Now().UTC().Truncate(time.Second)
	prevTable := rates.NewTable([]rates.Observation{{
		Group: "Simulated", Pair: pair, Price: rates.Num(previous), FetchTime: now.Add(-time.Minute),
	}}, now.Add(-time.Minute))
	curTable := rates.NewTable([]rates.Observation{{
		Group: "Simulated", Pair: pair, Price: rates.Num(current), FetchTime: now,
	}}, now)

	events := rates.DetectChanges(curTable, prevTable, a.Config.Detection.ThresholdPct)
	if len(events) == 0 {
		fmt.Fprintf(os.Stdout, "movement below %.2f%% threshold; no alert\n", a.Config.Detection.ThresholdPct)
		return nil
	}
	printEvents(events)

	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("alerting disabled or no channels configured")
	}
	return notifier.NotifyChanges(ctx, now, events)
}
