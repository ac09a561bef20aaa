package rates

import (
	"encoding/json"
	"strconv"
	"time"
)

// ValueKind discriminates the three states a scraped cell can end up in.
type ValueKind int

const (
	// KindMissing marks a cell that was empty or the page's explicit "N/A".
	KindMissing ValueKind = iota
	// KindNumber is a finite numeric value.
	KindNumber
	// KindText carries raw text that survived cleaning but failed to parse.
	// It is a data-quality signal, not an error.
	KindText
)

// Value is one normalized table cell. The zero value is Missing, so
// observation fields for columns absent from a short row need no special
// handling.
type Value struct {
	Kind ValueKind
	Num  float64
	Raw  string
}

// Num wraps a finite float.
func Num(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// NA is the explicit unavailable marker.
func NA() Value { return Value{Kind: KindMissing} }

// Text keeps the original cell content verbatim.
func Text(raw string) Value { return Value{Kind: KindText, Raw: raw} }

// Float returns the numeric value and whether one is present.
func (v Value) Float() (float64, bool) {
	return v.Num, v.Kind == KindNumber
}

// IsNumber reports whether the cell holds a finite float.
func (v Value) IsNumber() bool { return v.Kind == KindNumber }

// String renders the cell for tabular output: numbers as-is, missing as
// empty, text passthrough.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Raw
	default:
		return ""
	}
}

// MarshalJSON writes numbers as JSON numbers, missing as null, and text as a
// JSON string, matching the snapshot payload schema.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindText:
		return json.Marshal(v.Raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON restores the tri-state encoding produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = NA()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Num(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Text(s)
	return nil
}

// Observation is one currency pair's parsed row at one fetch instant.
type Observation struct {
	Group             string    `json:"group"`
	CountryCode       string    `json:"country_code,omitempty"`
	Pair              string    `json:"pair"`
	Price             Value     `json:"price"`
	DayChange         Value     `json:"day_change"`
	PercentChange     Value     `json:"percent_change"`
	Weekly            Value     `json:"weekly"`
	Monthly           Value     `json:"monthly"`
	YTD               Value     `json:"ytd"`
	YoY               Value     `json:"yoy"`
	FetchTime         time.Time `json:"fetch_time"`
	OriginalTimestamp string    `json:"original_timestamp,omitempty"`
}
