package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"currency-watch/internal/rates"
)

// Convert fetches a fresh table and translates an amount between two
// currencies through USD triangulation.
func (a *App) Convert(ctx context.Context, amount float64, from, to string) error {
	svc := a.newService(nil, nil)
	if _, err := svc.RunCycle(ctx); err != nil {
		return err
	}
	table := svc.Live().Current()
	if table.Empty() {
		return errors.New("no observations extracted")
	}

	result, err := rates.Convert(rates.BaseRates(table), amount, from, to)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%.4f %s = %.4f %s\n", amount, from, result, to)
	return nil
}
