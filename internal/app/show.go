package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"currency-watch/internal/rates"
	"currency-watch/internal/storage"
)

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// Show lists the most recent persisted snapshots and prints the newest one
// in full.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show snapshots")
	}
	defer store.Close()

	records, err := store.ListRecentSnapshots(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "no snapshots found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tTimestamp (UTC)\tRows")
	for _, rec := range records {
		fmt.Fprintf(writer, "%d\t%s\t%d\n", rec.ID, storage.FormatTimestamp(rec.Timestamp), len(rec.Payload))
	}
	writer.Flush()

	latest := records[0]
	fmt.Fprintf(os.Stdout, "\nlatest snapshot (%s):\n", storage.FormatTimestamp(latest.Timestamp))
	printTable(rates.NewTable(latest.Payload, latest.Timestamp))
	return nil
}
