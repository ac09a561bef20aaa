package rates

import (
	"testing"
	"time"
)

func performersTable() *Table {
	return NewTable([]Observation{
		{Pair: "EURUSD", PercentChange: Num(0.8), Weekly: Num(-1.2)},
		{Pair: "USDJPY", PercentChange: Num(-0.4), Weekly: Num(2.5)},
		{Pair: "GBPUSD", PercentChange: Num(1.6), Weekly: NA()},
		{Pair: "USDTRY", PercentChange: Text("suspended"), Weekly: Num(0.1)},
	}, time.Now())
}

func TestParseMetric(t *testing.T) {
	for _, name := range []string{"percent", "weekly", "monthly", "ytd", "yoy"} {
		if _, err := ParseMetric(name); err != nil {
			t.Fatalf("ParseMetric(%q): %v", name, err)
		}
	}
	if _, err := ParseMetric("daily"); err == nil {
		t.Fatal("unknown metric should be rejected")
	}
}

func TestTopPerformers(t *testing.T) {
	top := TopPerformers(performersTable(), MetricPercentChange, 2)
	if len(top) != 2 || top[0].Pair != "GBPUSD" || top[1].Pair != "EURUSD" {
		t.Fatalf("top performers = %+v", top)
	}
}

func TestBottomPerformersDropsNonNumeric(t *testing.T) {
	bottom := BottomPerformers(performersTable(), MetricWeekly, 10)
	if len(bottom) != 3 {
		t.Fatalf("missing weekly values should be dropped, got %+v", bottom)
	}
	if bottom[0].Pair != "EURUSD" || bottom[2].Pair != "USDJPY" {
		t.Fatalf("bottom performers = %+v", bottom)
	}
}

func TestPerformersEdgeCases(t *testing.T) {
	if got := TopPerformers(nil, MetricPercentChange, 3); got != nil {
		t.Fatalf("nil table should rank nothing, got %+v", got)
	}
	if got := TopPerformers(performersTable(), MetricPercentChange, 0); got != nil {
		t.Fatalf("zero count should rank nothing, got %+v", got)
	}
}
