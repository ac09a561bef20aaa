package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"currency-watch/internal/rates"
)

// TopOptions configure the performer ranking command.
type TopOptions struct {
	Metric string
	Count  int
}

// Top fetches a fresh table (no persistence) and prints the best and worst
// performers for the metric.
func (a *App) Top(ctx context.Context, opts TopOptions) error {
	metric, err := rates.ParseMetric(opts.Metric)
	if err != nil {
		return err
	}

	svc := a.newService(nil, nil)
	if _, err := svc.RunCycle(ctx); err != nil {
		return err
	}
	table := svc.Live().Current()
	if table.Empty() {
		return errors.New("no observations extracted")
	}

	top := rates.TopPerformers(table, metric, opts.Count)
	bottom := rates.BottomPerformers(table, metric, opts.Count)

	fmt.Fprintf(os.Stdout, "top %d performers (%s):\n", opts.Count, metric)
	printPerformers(top, metric)
	fmt.Fprintf(os.Stdout, "\nworst %d performers (%s):\n", opts.Count, metric)
	printPerformers(bottom, metric)
	return nil
}

func printPerformers(observations []rates.Observation, metric rates.Metric) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Pair\tGroup\tPrice\tValue%")
	for _, o := range observations {
		value := metricString(o, metric)
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", o.Pair, o.Group, o.Price.String(), value)
	}
	writer.Flush()
}

func metricString(o rates.Observation, metric rates.Metric) string {
	switch metric {
	case rates.MetricPercentChange:
		return o.PercentChange.String()
	case rates.MetricWeekly:
		return o.Weekly.String()
	case rates.MetricMonthly:
		return o.Monthly.String()
	case rates.MetricYTD:
		return o.YTD.String()
	case rates.MetricYoY:
		return o.YoY.String()
	}
	return ""
}
