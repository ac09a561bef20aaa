// Package scrape turns the source page's heterogeneous currency tables into
// typed observation records.
package scrape

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"currency-watch/internal/rates"
)

const (
	heatmapClass = "table-heatmap"
	flagPrefix   = "flag-"
	unknownGroup = "Unknown Group"
	unknownPair  = "Unknown"
)

// Directional arrows and other decoration around the day-change number.
var dayChangeJunk = regexp.MustCompile(`[^0-9.+-]`)

// Extract parses a fetched document and returns one observation per data row
// of every currency heatmap table, in document order. A document without
// matching tables yields an empty result, not an error: callers treat that
// as "no data this cycle".
func Extract(r io.Reader) ([]rates.Observation, error) {
	return ExtractAt(r, time.Now().UTC().Truncate(time.Second))
}

// ExtractAt is Extract with an explicit fetch instant. Every observation in
// the batch shares the instant, even when extraction spans multiple tables.
func ExtractAt(r io.Reader, fetchedAt time.Time) ([]rates.Observation, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var out []rates.Observation
	doc.Find("table." + heatmapClass).Each(func(_ int, table *goquery.Selection) {
		group := resolveGroup(table)
		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			out = append(out, extractRow(row, group, fetchedAt))
		})
	})
	return out, nil
}

func extractRow(row *goquery.Selection, group string, fetchedAt time.Time) rates.Observation {
	obs := rates.Observation{
		Group:       group,
		CountryCode: countryCode(row),
		Pair:        unknownPair,
		FetchTime:   fetchedAt,
	}

	cells := row.Find("td")
	n := cells.Length()
	cell := func(i int) string { return strings.TrimSpace(cells.Eq(i).Text()) }

	if n > 1 {
		if pair := strings.TrimSpace(cells.Eq(1).Find("b").First().Text()); pair != "" {
			obs.Pair = pair
		}
	}
	obs.Price = Clean(cell(2))
	obs.DayChange = Clean(dayChangeJunk.ReplaceAllString(cell(3), ""))
	obs.PercentChange = Clean(strings.ReplaceAll(cell(4), "%", ""))

	// Columns past a short row's width are simply omitted; the zero Value is
	// already the missing marker.
	if n > 5 {
		obs.Weekly = Clean(strings.ReplaceAll(cell(5), "%", ""))
	}
	if n > 6 {
		obs.Monthly = Clean(strings.ReplaceAll(cell(6), "%", ""))
	}
	if n > 7 {
		obs.YTD = Clean(strings.ReplaceAll(cell(7), "%", ""))
	}
	if n > 8 {
		obs.YoY = Clean(strings.ReplaceAll(cell(8), "%", ""))
	}
	if n > 9 {
		obs.OriginalTimestamp = cell(9)
	}
	return obs
}

// countryCode pulls the country code off the row's flag element: the first
// class token with the flag- prefix, minus the prefix.
func countryCode(row *goquery.Selection) string {
	var code string
	row.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		class, ok := div.Attr("class")
		if !ok || !strings.HasPrefix(class, "flag "+flagPrefix) {
			return true
		}
		for _, token := range strings.Fields(class) {
			if strings.HasPrefix(token, flagPrefix) {
				code = strings.TrimPrefix(token, flagPrefix)
				break
			}
		}
		return false
	})
	return code
}

// resolveGroup walks backward through the document from the table to the
// nearest input whose name attribute mentions "group" and reads its value.
// The page places a labeled control ahead of each heatmap section; this is a
// best-effort heuristic coupled to that structure, kept narrow so it can be
// swapped without touching row extraction.
func resolveGroup(table *goquery.Selection) string {
	if len(table.Nodes) == 0 {
		return unknownGroup
	}
	for n := prevInDocument(table.Nodes[0]); n != nil; n = prevInDocument(n) {
		if n.Type != html.ElementNode || n.Data != "input" {
			continue
		}
		name, ok := attrValue(n, "name")
		if !ok || !strings.Contains(name, "group") {
			continue
		}
		if value, ok := attrValue(n, "value"); ok {
			return value
		}
		return unknownGroup
	}
	return unknownGroup
}

// prevInDocument steps to the previous node in document order: the deepest
// last descendant of the preceding sibling, else the parent.
func prevInDocument(n *html.Node) *html.Node {
	if n.PrevSibling != nil {
		n = n.PrevSibling
		for n.LastChild != nil {
			n = n.LastChild
		}
		return n
	}
	return n.Parent
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
