package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"currency-watch/internal/storage"
)

// HistoryOptions configure the history command.
type HistoryOptions struct {
	Pair  string
	Limit int
}

// History prints a pair's persisted time series, most recent first.
func (a *App) History(ctx context.Context, opts HistoryOptions) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot query history")
	}
	defer store.Close()

	points, err := store.QueryHistory(ctx, opts.Pair, opts.Limit)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Fprintf(os.Stdout, "no history for %s\n", opts.Pair)
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Timestamp (UTC)\tPrice\tDaily%")
	for _, p := range points {
		fmt.Fprintf(writer, "%s\t%s\t%s\n",
			storage.FormatTimestamp(p.Timestamp), p.Price.String(), p.PercentChange.String())
	}
	return writer.Flush()
}
