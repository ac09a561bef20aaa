package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"currency-watch/internal/rates"
)

func sampleEvents() []rates.ChangeEvent {
	return []rates.ChangeEvent{{
		Pair:          "EURUSD",
		PreviousPrice: 1.1000,
		CurrentPrice:  1.1100,
		DeltaPct:      decimal.RequireFromString("0.909"),
		Direction:     "up",
	}}
}

func TestTelegramNotifierSuccess(t *testing.T) {
	received := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "sendMessage") {
			t.Fatalf("path should contain sendMessage, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, zerolog.Nop())
	if err := notifier.NotifyChanges(context.Background(), time.Now(), sampleEvents()); err != nil {
		t.Fatalf("NotifyChanges: %v", err)
	}

	if received["chat_id"] != "chat" {
		t.Fatalf("chat_id = %#v", received)
	}
	if !strings.Contains(received["text"], "EURUSD") || !strings.Contains(received["text"], "up") {
		t.Fatalf("message text = %q", received["text"])
	}
}

func TestTelegramNotifierAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, zerolog.Nop())
	if err := notifier.NotifyChanges(context.Background(), time.Now(), sampleEvents()); err == nil {
		t.Fatal("ok=false should be an error")
	}
}

func TestTelegramNotifierHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, zerolog.Nop())
	if err := notifier.NotifyChanges(context.Background(), time.Now(), sampleEvents()); err == nil {
		t.Fatal("HTTP 502 should be an error")
	}
}

type flakyNotifier struct {
	err   error
	calls int
}

func (n *flakyNotifier) NotifyChanges(ctx context.Context, fetchedAt time.Time, events []rates.ChangeEvent) error {
	n.calls++
	return n.err
}

func TestMultiAttemptsAllChannels(t *testing.T) {
	failing := &flakyNotifier{err: errors.New("channel down")}
	working := &flakyNotifier{}
	m := Multi{failing, working}

	err := m.NotifyChanges(context.Background(), time.Now(), sampleEvents())
	if !errors.Is(err, failing.err) {
		t.Fatalf("first failure should surface, got %v", err)
	}
	if failing.calls != 1 || working.calls != 1 {
		t.Fatalf("every channel must be attempted: %d, %d", failing.calls, working.calls)
	}
}

func TestRenderMessage(t *testing.T) {
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	msg := renderMessage(at, sampleEvents())
	if !strings.Contains(msg, "EURUSD: moved up by 0.91% (from 1.1000 to 1.1100)") {
		t.Fatalf("rendered message = %q", msg)
	}
	if !strings.Contains(msg, "2026-08-29T12:00:00Z") {
		t.Fatalf("rendered message missing fetch time: %q", msg)
	}
}
