// Package export renders observation tables and history series into the
// downstream file formats. Exporters only read: they never trigger a fetch.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/xuri/excelize/v2"

	"currency-watch/internal/rates"
)

var csvHeader = []string{
	"group", "country_code", "pair", "price", "day_change", "percent_change",
	"weekly", "monthly", "ytd", "yoy", "fetch_time", "original_timestamp",
}

const fetchTimeLayout = "2006-01-02 15:04:05"

func observationRow(o rates.Observation) []string {
	return []string{
		o.Group,
		o.CountryCode,
		o.Pair,
		o.Price.String(),
		o.DayChange.String(),
		o.PercentChange.String(),
		o.Weekly.String(),
		o.Monthly.String(),
		o.YTD.String(),
		o.YoY.String(),
		o.FetchTime.UTC().Format(fetchTimeLayout),
		o.OriginalTimestamp,
	}
}

// WriteCSV writes all session tables, oldest first, as one delimited file.
func WriteCSV(path string, tables []*rates.Table) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, table := range tables {
		for _, o := range table.Observations {
			if err := writer.Write(observationRow(o)); err != nil {
				return err
			}
		}
	}
	return writer.Error()
}

// sessionDocument is the JSON-tree envelope: fetch instants key the data map
// so consumers can walk the session chronologically.
type sessionDocument struct {
	SessionID   string                         `json:"session_id"`
	LastUpdated string                         `json:"last_updated"`
	Data        map[string][]rates.Observation `json:"data"`
}

// WriteJSON writes the session as a tree keyed by fetch time.
func WriteJSON(path, sessionID string, tables []*rates.Table) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	doc := sessionDocument{
		SessionID:   sessionID,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Data:        make(map[string][]rates.Observation, len(tables)),
	}
	for _, table := range tables {
		key := table.FetchedAt.UTC().Format(fetchTimeLayout)
		doc.Data[key] = table.Observations
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session json: %w", err)
	}
	return os.WriteFile(path, payload, 0o644)
}

// Excel forbids []:*?/\ in sheet names and caps them at 31 runes.
var sheetNameJunk = regexp.MustCompile(`[\\/*\[\]:?]`)

func sheetName(group string) string {
	name := sheetNameJunk.ReplaceAllString(group, "")
	if name == "" {
		name = "Sheet"
	}
	runes := []rune(name)
	if len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}

// WriteXLSX writes the session as a workbook: an "All Data" sheet spanning
// every cycle, a "Latest" sheet for the newest table, and one sheet per
// currency group of the latest table.
func WriteXLSX(path string, tables []*rates.Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to export")
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	var all []rates.Observation
	for _, table := range tables {
		all = append(all, table.Observations...)
	}
	latest := tables[len(tables)-1]

	if err := writeSheet(f, "All Data", all); err != nil {
		return err
	}
	if err := writeSheet(f, "Latest", latest.Observations); err != nil {
		return err
	}
	for _, group := range latest.Groups() {
		var rows []rates.Observation
		for _, o := range latest.Observations {
			if o.Group == group {
				rows = append(rows, o)
			}
		}
		if err := writeSheet(f, sheetName(group), rows); err != nil {
			return err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, name string, observations []rates.Observation) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	for col, field := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, field); err != nil {
			return err
		}
	}
	for i, o := range observations {
		for col, value := range observationCells(o) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// observationCells keeps numerics numeric in the workbook instead of
// flattening them to strings.
func observationCells(o rates.Observation) []any {
	values := []rates.Value{
		o.Price, o.DayChange, o.PercentChange, o.Weekly, o.Monthly, o.YTD, o.YoY,
	}
	cells := []any{o.Group, o.CountryCode, o.Pair}
	for _, v := range values {
		if f, ok := v.Float(); ok {
			cells = append(cells, f)
		} else {
			cells = append(cells, v.String())
		}
	}
	return append(cells, o.FetchTime.UTC().Format(fetchTimeLayout), o.OriginalTimestamp)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
