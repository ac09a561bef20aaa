package export

import (
	"fmt"
	"os"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"currency-watch/internal/storage"
)

// WriteHistoryPNG renders one pair's persisted price series as a line chart.
// Points arrive most-recent-first (the store's query order) and are plotted
// chronologically; rows without a numeric price are skipped.
func WriteHistoryPNG(path, pair string, points []storage.HistoryPoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var (
		x []time.Time
		y []float64
	)
	for i := len(points) - 1; i >= 0; i-- {
		price, ok := points[i].Price.Float()
		if !ok {
			continue
		}
		x = append(x, points[i].Timestamp)
		y = append(y, price)
	}
	if len(x) < 2 {
		return fmt.Errorf("need at least two priced points for %s, have %d", pair, len(x))
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.4f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price",
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    pair,
				XValues: x,
				YValues: y,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}
