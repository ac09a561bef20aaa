package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"currency-watch/internal/rates"
)

// timeLayout is second-granularity ISO-8601. Two fetches landing in the same
// second for the same pair overwrite rather than append; that is documented
// behavior of the history key, not a bug.
const timeLayout = "2006-01-02T15:04:05"

const (
	insertSnapshotSQL = `INSERT INTO currency_snapshots (timestamp, snapshot_data)
    VALUES (?, ?);`

	upsertHistorySQL = `INSERT INTO currency_history (currency_pair, price, percent_change, timestamp)
    VALUES (?, ?, ?, ?)
    ON CONFLICT(currency_pair, timestamp) DO UPDATE SET
        price          = excluded.price,
        percent_change = excluded.percent_change;`

	queryHistorySQL = `SELECT currency_pair, price, percent_change, timestamp
    FROM currency_history
    WHERE currency_pair = ?
    ORDER BY timestamp DESC
    LIMIT ?;`

	listSnapshotsSQL = `SELECT id, timestamp, snapshot_data
    FROM currency_snapshots
    ORDER BY id DESC
    LIMIT ?;`

	countHistorySQL = `SELECT COUNT(*) FROM currency_history;`
)

// FormatTimestamp renders a fetch instant the way the store keys it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// AppendSnapshot inserts one audit row holding the serialized table.
// Unconditional append: no uniqueness on timestamp, duplicate seconds are
// legal because snapshots are audit data, not a lookup key.
func (s *Store) AppendSnapshot(ctx context.Context, fetchedAt time.Time, table *rates.Table) error {
	payload, err := json.Marshal(table.Observations)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, insertSnapshotSQL, FormatTimestamp(fetchedAt), string(payload)); err != nil {
		return fmt.Errorf("append snapshot: %w", err)
	}
	return nil
}

// UpsertHistoryPoint inserts or replaces the row keyed by (pair, timestamp),
// so re-processing the same fetch instant for the same pair is idempotent
// and last write wins.
func (s *Store) UpsertHistoryPoint(ctx context.Context, point HistoryPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, upsertHistorySQL,
		point.Pair,
		nullableFloat(point.Price),
		nullableFloat(point.PercentChange),
		FormatTimestamp(point.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("upsert history point: %w", err)
	}
	return nil
}

// QueryHistory returns up to limit points for a pair, most recent first.
func (s *Store) QueryHistory(ctx context.Context, pair string, limit int) ([]HistoryPoint, error) {
	rows, err := s.db.QueryContext(ctx, queryHistorySQL, pair, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var points []HistoryPoint
	for rows.Next() {
		var (
			p       HistoryPoint
			price   sql.NullFloat64
			percent sql.NullFloat64
			ts      string
		)
		if err := rows.Scan(&p.Pair, &price, &percent, &ts); err != nil {
			return nil, fmt.Errorf("scan history point: %w", err)
		}
		p.Price = valueFromNull(price)
		p.PercentChange = valueFromNull(percent)
		if p.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// ListRecentSnapshots returns the newest snapshots, decoded, most recent
// first.
func (s *Store) ListRecentSnapshots(ctx context.Context, limit int) ([]SnapshotRecord, error) {
	rows, err := s.db.QueryContext(ctx, listSnapshotsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var records []SnapshotRecord
	for rows.Next() {
		var (
			rec     SnapshotRecord
			ts      string
			payload string
		)
		if err := rows.Scan(&rec.ID, &ts, &payload); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if rec.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &rec.Payload); err != nil {
			return nil, fmt.Errorf("decode snapshot %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountHistoryPoints counts stored history rows.
func (s *Store) CountHistoryPoints(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, countHistorySQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count history points: %w", err)
	}
	return count, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullableFloat(v rates.Value) any {
	if f, ok := v.Float(); ok {
		return f
	}
	return nil
}

func valueFromNull(f sql.NullFloat64) rates.Value {
	if f.Valid {
		return rates.Num(f.Float64)
	}
	return rates.NA()
}
