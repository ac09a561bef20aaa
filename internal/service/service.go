// Package service sequences fetch, extraction, change detection, and
// persistence for one cycle at a time.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"currency-watch/internal/alerting"
	"currency-watch/internal/config"
	"currency-watch/internal/fetcher"
	"currency-watch/internal/rates"
	"currency-watch/internal/scrape"
	"currency-watch/internal/storage"
)

// State names where a cycle last got to. One cycle walks
// Idle -> Fetching -> Extracting -> Detecting -> Persisting -> Done, or
// stops at FetchFailed or ExtractFailed without mutating anything.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateExtracting
	StateDetecting
	StatePersisting
	StateDone
	StateFetchFailed
	StateExtractFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateExtracting:
		return "extracting"
	case StateDetecting:
		return "detecting"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFetchFailed:
		return "fetch_failed"
	case StateExtractFailed:
		return "extract_failed"
	}
	return "unknown"
}

// Service orchestrates the pipeline and owns the live observation table.
// Exporters and the CLI read through Live() and Session(); they never
// trigger extraction themselves.
type Service struct {
	fetcher  fetcher.PageFetcher
	store    *storage.Store // nil disables persistence
	notifier alerting.Notifier
	logger   zerolog.Logger

	url       string
	headers   map[string]string
	threshold float64

	// cycleMu makes cycles strictly sequential even when a manual trigger
	// races the scheduler.
	cycleMu sync.Mutex

	live *rates.Live

	stateMu sync.RWMutex
	state   State

	sessionMu sync.Mutex
	session   []*rates.Table
}

// New constructs the orchestrator.
func New(cfg *config.Config, f fetcher.PageFetcher, store *storage.Store, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	threshold := cfg.Detection.ThresholdPct
	if threshold == 0 {
		threshold = rates.DefaultThresholdPct
	}
	return &Service{
		fetcher:   f,
		store:     store,
		notifier:  notifier,
		logger:    logger.With().Str("component", "service").Logger(),
		url:       cfg.Source.BaseURL,
		headers:   cfg.Source.Headers,
		threshold: threshold,
		live:      rates.NewLive(),
		state:     StateIdle,
	}
}

// Live exposes the current/previous observation tables for readers.
func (s *Service) Live() *rates.Live { return s.live }

// LastState reports where the most recent cycle finished.
func (s *Service) LastState() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Service) setState(st State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

// Session returns the accumulated per-cycle tables, oldest first, for the
// session exporters.
func (s *Service) Session() []*rates.Table {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	out := make([]*rates.Table, len(s.session))
	copy(out, s.session)
	return out
}

// RunCycle executes one full fetch cycle and returns the detected change
// events. A fetch failure aborts the cycle before any state is touched; the
// previous table keeps serving readers. Nothing here is fatal to the
// process.
func (s *Service) RunCycle(ctx context.Context) ([]rates.ChangeEvent, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	s.setState(StateFetching)
	body, err := s.fetcher.Fetch(ctx, s.url, s.headers)
	if err != nil {
		s.setState(StateFetchFailed)
		s.logger.Error().Err(err).Str("url", s.url).Msg("fetch failed; keeping last good table")
		return nil, fmt.Errorf("fetch: %w", err)
	}

	s.setState(StateExtracting)
	fetchedAt := time.Now().UTC().Truncate(time.Second)
	observations, err := scrape.ExtractAt(strings.NewReader(body), fetchedAt)
	if err != nil {
		s.setState(StateExtractFailed)
		s.logger.Error().Err(err).Msg("document parse failed; keeping last good table")
		return nil, fmt.Errorf("extract: %w", err)
	}

	table := rates.NewTable(observations, fetchedAt)
	before := s.live.Current()
	replaced := s.live.Replace(table)
	if !replaced {
		// Valid empty result: stale data is preferred to no data.
		s.logger.Warn().Str("url", s.url).Msg("extraction returned no rows; table not replaced")
	} else {
		s.logger.Info().Int("rows", table.Len()).Time("fetched_at", fetchedAt).Msg("observation table replaced")
	}

	// When the table was not replaced, current and "before" are the same
	// generation, so detection trivially finds nothing.
	s.setState(StateDetecting)
	events := rates.DetectChanges(s.live.Current(), before, s.threshold)
	for _, ev := range events {
		s.logger.Info().
			Str("pair", ev.Pair).
			Str("direction", ev.Direction).
			Str("delta_pct", ev.DeltaPct.StringFixed(3)).
			Msg("movement above threshold")
	}

	s.setState(StatePersisting)
	if replaced {
		s.sessionMu.Lock()
		s.session = append(s.session, table)
		s.sessionMu.Unlock()
		if s.store != nil {
			s.persist(ctx, table)
		}
	}

	if len(events) > 0 && s.notifier != nil {
		if err := s.notifier.NotifyChanges(ctx, fetchedAt, events); err != nil {
			s.logger.Error().Err(err).Msg("movement notification failed")
		}
	}

	s.setState(StateDone)
	return events, nil
}

// persist appends the snapshot and upserts one history point per
// observation. History rows are written independently: a bad row is logged
// and skipped, never aborting the batch or the snapshot.
func (s *Service) persist(ctx context.Context, table *rates.Table) {
	if err := s.store.AppendSnapshot(ctx, table.FetchedAt, table); err != nil {
		s.logger.Error().Err(err).Msg("snapshot append failed")
	}

	failed := 0
	for _, o := range table.Observations {
		point := storage.HistoryPoint{
			Pair:          o.Pair,
			Price:         o.Price,
			PercentChange: o.PercentChange,
			Timestamp:     table.FetchedAt,
		}
		if err := s.store.UpsertHistoryPoint(ctx, point); err != nil {
			failed++
			s.logger.Error().Err(err).Str("pair", o.Pair).Msg("history upsert failed")
		}
	}
	if failed > 0 {
		s.logger.Warn().Int("failed", failed).Int("total", table.Len()).Msg("some history rows were not persisted")
	} else {
		s.logger.Info().Int("rows", table.Len()).Msg("cycle persisted")
	}
}
