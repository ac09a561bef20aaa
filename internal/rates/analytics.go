package rates

import (
	"fmt"
	"sort"
)

// Metric selects which change column performer rankings sort by.
type Metric string

const (
	MetricPercentChange Metric = "percent"
	MetricWeekly        Metric = "weekly"
	MetricMonthly       Metric = "monthly"
	MetricYTD           Metric = "ytd"
	MetricYoY           Metric = "yoy"
)

// ParseMetric maps a user-supplied metric name onto a Metric.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricPercentChange, MetricWeekly, MetricMonthly, MetricYTD, MetricYoY:
		return Metric(s), nil
	}
	return "", fmt.Errorf("unknown metric %q (expected percent, weekly, monthly, ytd or yoy)", s)
}

func metricValue(o Observation, m Metric) (float64, bool) {
	switch m {
	case MetricPercentChange:
		return o.PercentChange.Float()
	case MetricWeekly:
		return o.Weekly.Float()
	case MetricMonthly:
		return o.Monthly.Float()
	case MetricYTD:
		return o.YTD.Float()
	case MetricYoY:
		return o.YoY.Float()
	}
	return 0, false
}

// TopPerformers returns the n observations with the largest value for the
// metric, descending. Rows without a numeric value for the metric are
// dropped.
func TopPerformers(t *Table, metric Metric, n int) []Observation {
	return rankByMetric(t, metric, n, true)
}

// BottomPerformers returns the n observations with the smallest value for
// the metric, ascending.
func BottomPerformers(t *Table, metric Metric, n int) []Observation {
	return rankByMetric(t, metric, n, false)
}

func rankByMetric(t *Table, metric Metric, n int, descending bool) []Observation {
	if t == nil || n <= 0 {
		return nil
	}
	ranked := make([]Observation, 0, t.Len())
	for _, o := range t.Observations {
		if _, ok := metricValue(o, metric); ok {
			ranked = append(ranked, o)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, _ := metricValue(ranked[i], metric)
		vj, _ := metricValue(ranked[j], metric)
		if descending {
			return vi > vj
		}
		return vi < vj
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
