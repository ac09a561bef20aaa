package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"currency-watch/internal/export"
	"currency-watch/internal/rates"
	"currency-watch/internal/service"
	"currency-watch/internal/storage"
)

// ExportOptions hold the export command's targets. Limit bounds how many
// snapshots (or history points for the chart) are read back.
type ExportOptions struct {
	CSVPath  string
	JSONPath string
	XLSXPath string
	PNGPath  string
	Pair     string
	Limit    int
}

// Export renders persisted data into the requested files.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.JSONPath == "" && opts.XLSXPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv, --json, --xlsx or --png must be provided")
	}
	if opts.PNGPath != "" && opts.Pair == "" {
		return errors.New("--png requires --pair")
	}
	if opts.Limit <= 0 || opts.Limit > a.Config.Export.MaxDataPoints {
		opts.Limit = a.Config.Export.MaxDataPoints
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	defer store.Close()

	if opts.CSVPath != "" || opts.JSONPath != "" || opts.XLSXPath != "" {
		tables, err := a.snapshotTables(ctx, store, opts.Limit)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			a.Logger.Info().Msg("no snapshots found to export")
		} else {
			if opts.CSVPath != "" {
				if err := export.WriteCSV(opts.CSVPath, tables); err != nil {
					return err
				}
				a.Logger.Info().Str("path", opts.CSVPath).Msg("csv written")
			}
			if opts.JSONPath != "" {
				if err := export.WriteJSON(opts.JSONPath, a.sessionID, tables); err != nil {
					return err
				}
				a.Logger.Info().Str("path", opts.JSONPath).Msg("json written")
			}
			if opts.XLSXPath != "" {
				if err := export.WriteXLSX(opts.XLSXPath, tables); err != nil {
					return err
				}
				a.Logger.Info().Str("path", opts.XLSXPath).Msg("workbook written")
			}
		}
	}

	if opts.PNGPath != "" {
		points, err := store.QueryHistory(ctx, opts.Pair, opts.Limit)
		if err != nil {
			return err
		}
		if err := export.WriteHistoryPNG(opts.PNGPath, opts.Pair, points); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.PNGPath).Str("pair", opts.Pair).Msg("chart written")
	}

	return nil
}

// snapshotTables rebuilds observation tables from persisted snapshots,
// oldest first.
func (a *App) snapshotTables(ctx context.Context, store *storage.Store, limit int) ([]*rates.Table, error) {
	records, err := store.ListRecentSnapshots(ctx, limit)
	if err != nil {
		return nil, err
	}
	tables := make([]*rates.Table, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		tables = append(tables, rates.NewTable(records[i].Payload, records[i].Timestamp))
	}
	return tables, nil
}

// refreshSessionFiles rewrites the run-mode session export files after a
// cycle. Best effort: export failures never disturb the pipeline.
func (a *App) refreshSessionFiles(svc *service.Service) {
	cfg := a.Config.Export
	if !cfg.SessionCSV && !cfg.SessionJSON && !cfg.SessionXLSX {
		return
	}
	tables := svc.Session()
	if len(tables) == 0 {
		return
	}

	base := filepath.Join(cfg.Dir, fmt.Sprintf("currency_rates_session_%s", a.sessionID))
	if cfg.SessionCSV {
		if err := export.WriteCSV(base+".csv", tables); err != nil {
			a.Logger.Error().Err(err).Msg("session csv export failed")
		}
	}
	if cfg.SessionJSON {
		if err := export.WriteJSON(base+".json", a.sessionID, tables); err != nil {
			a.Logger.Error().Err(err).Msg("session json export failed")
		}
	}
	if cfg.SessionXLSX {
		if err := export.WriteXLSX(base+".xlsx", tables); err != nil {
			a.Logger.Error().Err(err).Msg("session workbook export failed")
		}
	}
}
