package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"currency-watch/internal/config"
	"currency-watch/internal/rates"
)

type stubFetcher struct {
	bodies []string
	err    error
	calls  int
}

func (f *stubFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	body := f.bodies[0]
	if len(f.bodies) > 1 {
		f.bodies = f.bodies[1:]
	}
	return body, nil
}

type recordingNotifier struct {
	events []rates.ChangeEvent
}

func (n *recordingNotifier) NotifyChanges(ctx context.Context, fetchedAt time.Time, events []rates.ChangeEvent) error {
	n.events = append(n.events, events...)
	return nil
}

func pageWithPrice(price float64) string {
	return fmt.Sprintf(`<input name="currencies-group" value="Major Pairs">
<table class="table-heatmap"><tbody><tr>
<td><div class="flag flag-eu"></div></td>
<td><b>EURUSD</b></td>
<td>%.4f</td>
<td>0.0010</td>
<td>0.10%%</td>
</tr></tbody></table>`, price)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Source.BaseURL = "http://example.test/currencies"
	cfg.Detection.ThresholdPct = 0.5
	return cfg
}

func TestRunCycleDetectsAcrossCycles(t *testing.T) {
	f := &stubFetcher{bodies: []string{pageWithPrice(1.1000), pageWithPrice(1.1100)}}
	notifier := &recordingNotifier{}
	svc := New(testConfig(), f, nil, notifier, zerolog.Nop())

	events, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("first cycle has no baseline, got %+v", events)
	}
	if svc.LastState() != StateDone {
		t.Fatalf("state = %v, want done", svc.LastState())
	}

	events, err = svc.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if len(events) != 1 || events[0].Pair != "EURUSD" || events[0].Direction != "up" {
		t.Fatalf("second cycle events = %+v", events)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("notifier should have received the event, got %+v", notifier.events)
	}
	if got := len(svc.Session()); got != 2 {
		t.Fatalf("session should hold 2 tables, got %d", got)
	}
}

func TestRunCycleFetchFailureKeepsTable(t *testing.T) {
	f := &stubFetcher{bodies: []string{pageWithPrice(1.1000)}}
	svc := New(testConfig(), f, nil, nil, zerolog.Nop())

	if _, err := svc.RunCycle(context.Background()); err != nil {
		t.Fatalf("seed cycle: %v", err)
	}
	good := svc.Live().Current()

	f.err = errors.New("connection reset")
	if _, err := svc.RunCycle(context.Background()); err == nil {
		t.Fatal("fetch failure must surface an error")
	}
	if svc.LastState() != StateFetchFailed {
		t.Fatalf("state = %v, want fetch_failed", svc.LastState())
	}
	if svc.Live().Current() != good {
		t.Fatal("fetch failure must not touch the live table")
	}
	if got := len(svc.Session()); got != 1 {
		t.Fatalf("failed cycle must not extend the session, got %d tables", got)
	}
}

func TestRunCycleEmptyExtractionKeepsTable(t *testing.T) {
	f := &stubFetcher{bodies: []string{pageWithPrice(1.1000), "<html><body>maintenance</body></html>"}}
	svc := New(testConfig(), f, nil, nil, zerolog.Nop())

	if _, err := svc.RunCycle(context.Background()); err != nil {
		t.Fatalf("seed cycle: %v", err)
	}
	good := svc.Live().Current()

	events, err := svc.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("empty extraction is not an error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("no replacement means no events, got %+v", events)
	}
	if svc.Live().Current() != good {
		t.Fatal("empty extraction must leave the stale table in place")
	}
	if svc.LastState() != StateDone {
		t.Fatalf("state = %v, want done", svc.LastState())
	}
	if got := len(svc.Session()); got != 1 {
		t.Fatalf("empty cycle must not extend the session, got %d tables", got)
	}
}

func TestStateNames(t *testing.T) {
	names := map[State]string{
		StateIdle:          "idle",
		StateFetching:      "fetching",
		StateExtracting:    "extracting",
		StateDetecting:     "detecting",
		StatePersisting:    "persisting",
		StateDone:          "done",
		StateFetchFailed:   "fetch_failed",
		StateExtractFailed: "extract_failed",
	}
	for state, want := range names {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
	if got := State(99).String(); got != "unknown" {
		t.Fatalf("out-of-range state = %q", got)
	}
}

func TestNewDefaultsThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.Detection.ThresholdPct = 0
	svc := New(cfg, &stubFetcher{bodies: []string{""}}, nil, nil, zerolog.Nop())
	if svc.threshold != rates.DefaultThresholdPct {
		t.Fatalf("threshold = %v, want default", svc.threshold)
	}
}
