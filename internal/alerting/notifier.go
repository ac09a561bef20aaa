// Package alerting delivers significant-movement notifications.
package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"currency-watch/internal/rates"
)

// Notifier dispatches one batch of change events.
type Notifier interface {
	NotifyChanges(ctx context.Context, fetchedAt time.Time, events []rates.ChangeEvent) error
}

// renderMessage formats a change batch the way the console report reads.
func renderMessage(fetchedAt time.Time, events []rates.ChangeEvent) string {
	var b strings.Builder
	b.WriteString("[currency-watch] significant currency movements\n")
	b.WriteString(fmt.Sprintf("Fetched: %s UTC\n", fetchedAt.UTC().Format(time.RFC3339)))
	for _, ev := range events {
		b.WriteString(fmt.Sprintf("%s: moved %s by %s%% (from %.4f to %.4f)\n",
			ev.Pair, ev.Direction, ev.DeltaPct.StringFixed(2), ev.PreviousPrice, ev.CurrentPrice))
	}
	return b.String()
}

// LogNotifier reports movements through the process log. It is the default
// channel.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier constructs a log-channel notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "alert_log").Logger()}
}

// NotifyChanges writes one log entry per event.
func (n *LogNotifier) NotifyChanges(_ context.Context, fetchedAt time.Time, events []rates.ChangeEvent) error {
	for _, ev := range events {
		n.logger.Warn().
			Time("fetched_at", fetchedAt).
			Str("pair", ev.Pair).
			Str("direction", ev.Direction).
			Str("delta_pct", ev.DeltaPct.StringFixed(3)).
			Float64("previous", ev.PreviousPrice).
			Float64("current", ev.CurrentPrice).
			Msg("significant movement")
	}
	return nil
}

// TelegramNotifier pushes the rendered batch through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// NotifyChanges sends the whole batch as one message.
func (n *TelegramNotifier) NotifyChanges(ctx context.Context, fetchedAt time.Time, events []rates.ChangeEvent) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    renderMessage(fetchedAt, events),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram status %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && !result.OK {
		return fmt.Errorf("telegram returned ok=false")
	}

	n.logger.Info().Int("events", len(events)).Msg("movement alert sent")
	return nil
}

// Multi fans a batch out to every channel; the first failure is returned
// after all channels were attempted.
type Multi []Notifier

// NotifyChanges dispatches to each wrapped notifier.
func (m Multi) NotifyChanges(ctx context.Context, fetchedAt time.Time, events []rates.ChangeEvent) error {
	var firstErr error
	for _, n := range m {
		if err := n.NotifyChanges(ctx, fetchedAt, events); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*TelegramNotifier)(nil)
	_ Notifier = (Multi)(nil)
)
