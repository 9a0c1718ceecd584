package export

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/ovotrace/ovotrace/internal/domain/models"
)

// metricPNG renders the metric as a bar chart image. The dashboard's own
// image export snapshots the on-screen chart region; server side we redraw
// the same data instead.
func (s *Service) metricPNG(title string, metric models.DerivedMetric, categories []string) ([]byte, error) {
	bars := make([]chart.Value, 0, len(categories))
	maxCount := 1
	for _, cat := range categories {
		count := metric.Counts[cat]
		if count > maxCount {
			maxCount = count
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d%%)", cat, metric.Percentages[cat]),
			Value: float64(count),
		})
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{Label: "no data", Value: 0})
	}

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load chart font: %w", err)
	}
	header := headerLines(s.now())

	bc := chart.BarChart{
		Title:    title,
		Width:    1024,
		Height:   512,
		BarWidth: 70,
		Background: chart.Style{
			Padding: chart.Box{Top: 64, Left: 16, Right: 16},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
		},
		Bars: bars,
		Elements: []chart.Renderable{
			func(r chart.Renderer, _ chart.Box, _ chart.Style) {
				style := chart.Style{
					Font:      font,
					FontSize:  9,
					FontColor: chart.ColorBlack,
				}
				for i, line := range header {
					chart.Draw.Text(r, line, 16, 18+i*14, style)
				}
			},
		},
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
