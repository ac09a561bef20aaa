package storage

import (
	"time"

	"currency-watch/internal/rates"
)

// SnapshotRecord is one append-only audit row: the full observation set from
// one fetch, stored verbatim.
type SnapshotRecord struct {
	ID        int64
	Timestamp time.Time
	Payload   []rates.Observation
}

// HistoryPoint is one deduplicated (pair, timestamp) entry in the per-pair
// time series.
type HistoryPoint struct {
	Pair          string
	Price         rates.Value
	PercentChange rates.Value
	Timestamp     time.Time
}
