package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"currency-watch/internal/rates"
)

func sessionTables() []*rates.Table {
	t0 := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)
	first := rates.NewTable([]rates.Observation{
		{Group: "Major Pairs", CountryCode: "eu", Pair: "EURUSD", Price: rates.Num(1.1000), PercentChange: rates.Num(0.10), FetchTime: t0},
	}, t0)
	second := rates.NewTable([]rates.Observation{
		{Group: "Major Pairs", CountryCode: "eu", Pair: "EURUSD", Price: rates.Num(1.1100), PercentChange: rates.Num(0.91), FetchTime: t1},
		{Group: "Exotics", CountryCode: "tr", Pair: "USDTRY", Price: rates.Num(41.05), Weekly: rates.NA(), FetchTime: t1},
	}, t1)
	return []*rates.Table{first, second}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "session.csv")
	if err := WriteCSV(path, sessionTables()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(records))
	}
	if records[0][0] != "group" || records[0][2] != "pair" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][2] != "EURUSD" || records[1][3] != "1.1" {
		t.Fatalf("oldest table should come first: %v", records[1])
	}
	if records[3][2] != "USDTRY" {
		t.Fatalf("last row = %v", records[3])
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := WriteJSON(path, "20260829_120000", sessionTables()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var doc struct {
		SessionID   string                         `json:"session_id"`
		LastUpdated string                         `json:"last_updated"`
		Data        map[string][]rates.Observation `json:"data"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.SessionID != "20260829_120000" || doc.LastUpdated == "" {
		t.Fatalf("envelope = %+v", doc)
	}
	if len(doc.Data) != 2 {
		t.Fatalf("expected 2 fetch keys, got %v", len(doc.Data))
	}
	rows, ok := doc.Data["2026-08-29 12:01:00"]
	if !ok || len(rows) != 2 {
		t.Fatalf("second fetch missing or wrong size: %+v", doc.Data)
	}
	if rows[1].Weekly.Kind != rates.KindMissing {
		t.Fatalf("missing value should decode as missing: %+v", rows[1].Weekly)
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.xlsx")
	if err := WriteXLSX(path, sessionTables()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"All Data": false, "Latest": false, "Major Pairs": false, "Exotics": false}
	for _, s := range sheets {
		if s == "Sheet1" {
			t.Fatal("default sheet should be dropped")
		}
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("missing sheet %q (have %v)", name, sheets)
		}
	}

	pair, err := f.GetCellValue("Latest", "C2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if pair != "EURUSD" {
		t.Fatalf("Latest C2 = %q", pair)
	}

	rows, err := f.GetRows("All Data")
	if err != nil {
		t.Fatalf("read all data: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("All Data should hold header plus 3 rows, got %d", len(rows))
	}
}

func TestWriteXLSXEmptySession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.xlsx")
	if err := WriteXLSX(path, nil); err == nil {
		t.Fatal("empty session should be rejected")
	}
}

func TestSheetName(t *testing.T) {
	if got := sheetName("Asia/Pacific [Major]"); got != "AsiaPacific Major" {
		t.Fatalf("sheetName = %q", got)
	}
	if got := sheetName("////"); got != "Sheet" {
		t.Fatalf("empty residue should fall back, got %q", got)
	}
	long := "A very long currency group name indeed"
	if got := sheetName(long); len([]rune(got)) != 31 {
		t.Fatalf("long names must be capped at 31 runes, got %d", len([]rune(got)))
	}
}
