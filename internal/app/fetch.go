package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"currency-watch/internal/rates"
	"currency-watch/internal/service"
)

// FetchOptions configure a one-shot cycle.
type FetchOptions struct {
	// DryRun skips persistence (and alert channels); the extracted table is
	// only printed.
	DryRun bool
}

// Fetch runs one full cycle and prints the extracted table plus any detected
// movements.
func (a *App) Fetch(ctx context.Context, opts FetchOptions) error {
	svc, closeSvc, err := a.oneShotService(opts.DryRun)
	if err != nil {
		return err
	}
	defer closeSvc()

	events, err := svc.RunCycle(ctx)
	if err != nil {
		return err
	}

	table := svc.Live().Current()
	if table.Empty() {
		fmt.Fprintln(os.Stdout, "no observations extracted")
		return nil
	}

	printTable(table)
	printEvents(events)
	return nil
}

// oneShotService builds a service for a single cycle. The returned closer
// releases the store when one was opened.
func (a *App) oneShotService(dryRun bool) (*service.Service, func(), error) {
	if dryRun {
		return a.newService(nil, nil), func() {}, nil
	}
	store, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	closer := func() {}
	if store != nil {
		closer = func() { store.Close() }
	} else {
		a.Logger.Warn().Msg("database.path not configured; persistence disabled")
	}
	return a.newService(store, a.newNotifier()), closer, nil
}

func printTable(table *rates.Table) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Pair\tGroup\tPrice\tDay\tDaily%\tWeekly%\tMonthly%\tYTD%\tYoY%")
	for _, o := range table.Observations {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.Pair, o.Group,
			o.Price.String(), o.DayChange.String(), o.PercentChange.String(),
			o.Weekly.String(), o.Monthly.String(), o.YTD.String(), o.YoY.String(),
		)
	}
	writer.Flush()
}

func printEvents(events []rates.ChangeEvent) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintln(os.Stdout, "\nsignificant movements:")
	for _, ev := range events {
		fmt.Fprintf(os.Stdout, "%s: moved %s by %s%% (from %.4f to %.4f)\n",
			ev.Pair, ev.Direction, ev.DeltaPct.StringFixed(2), ev.PreviousPrice, ev.CurrentPrice)
	}
}
