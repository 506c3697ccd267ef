package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// HistoryChartPNG renders a pair's recorded rates as a PNG line chart.
// Returns raw PNG bytes.
func HistoryChartPNG(pair string, times []time.Time, values []float64) ([]byte, error) {
	if len(times) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(times))
	}

	series := chart.TimeSeries{
		Name: pair,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.0,
		},
		XValues: times,
		YValues: values,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s history", pair),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("01-02 15:04")
				}
				return ""
			},
		},
		Series: []chart.Series{series},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
