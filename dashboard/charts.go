/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mikeb26/tcgstandings/table"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 640
	chartHeight = 400
	// charts show at most this many slices or bars
	DefaultChartLimit = 10
)

var (
	backgroundColor = drawing.ColorWhite
	textColor       = drawing.ColorFromHex("333333")
	barColor        = drawing.ColorFromHex("1f77b4")
)

// DeckChart renders the most played decks as a pie chart, each slice in the
// deck's palette colour.
func DeckChart(stats []table.DeckStat, limit int) ([]byte, error) {
	stats = head(stats, limit)
	if len(stats) == 0 {
		return renderNoDataPlaceholder("No decks match the selected filters")
	}

	values := make([]chart.Value, 0, len(stats))
	for _, s := range stats {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%v (%d)", s.Deck, s.Count),
			Value: float64(s.Count),
			Style: chart.Style{
				FillColor:   parseColor(s.Color),
				StrokeColor: backgroundColor,
				FontColor:   textColor,
			},
		})
	}

	graph := chart.PieChart{
		Title:  fmt.Sprintf("Top %d Decks", len(values)),
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			FillColor: backgroundColor,
			Padding:   chart.Box{Top: 40},
		},
		Values: values,
	}

	return render(graph)
}

// CountryChart renders player counts of the most represented countries.
func CountryChart(counts []table.Count, limit int) ([]byte, error) {
	counts = head(counts, limit)
	if len(counts) == 0 {
		return renderNoDataPlaceholder("No countries match the selected filters")
	}

	bars := make([]chart.Value, 0, len(counts))
	top := 0.0
	for _, c := range counts {
		bars = append(bars, chart.Value{
			Label: c.Value,
			Value: float64(c.Count),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
		top = math.Max(top, float64(c.Count))
	}

	return renderBars(fmt.Sprintf("Top %d Countries", len(bars)), bars, top+1)
}

// WinRateChart renders the decks with the best win rate, coloured by
// average placement.
func WinRateChart(stats []table.WinRateStat, limit int) ([]byte, error) {
	ranked := make([]table.DeckStat, 0, len(stats))
	colors := make(map[string]string, len(stats))
	for _, s := range stats {
		ranked = append(ranked, table.DeckStat{Deck: s.Deck, WinRate: s.WinRate})
		colors[s.Deck] = s.Color
	}
	ranked = table.TopByWinRate(ranked, limit)
	if len(ranked) == 0 {
		return renderNoDataPlaceholder("No decks match the selected filters")
	}

	bars := make([]chart.Value, 0, len(ranked))
	for _, s := range ranked {
		c := parseColor(colors[s.Deck])
		bars = append(bars, chart.Value{
			Label: s.Deck,
			Value: s.WinRate,
			Style: chart.Style{FillColor: c, StrokeColor: c},
		})
	}

	return renderBars(fmt.Sprintf("Top %d Decks by Win Rate (%%)", len(bars)), bars, 100)
}

func renderBars(title string, bars []chart.Value, top float64) ([]byte, error) {
	graph := chart.BarChart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			FillColor: backgroundColor,
			Padding:   chart.Box{Top: 40, Bottom: 60},
		},
		BarWidth:   barWidth(len(bars)),
		BarSpacing: barWidth(len(bars)) / 2,
		XAxis: chart.Style{
			FontColor:           textColor,
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: textColor},
			// an explicit range keeps single-bar and all-zero charts renderable
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}

	return render(graph)
}

func barWidth(n int) int {
	if n <= 0 {
		return 40
	}
	w := (chartWidth - 120) / n * 2 / 3
	return max(10, min(60, w))
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func render(graph renderable) ([]byte, error) {
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(msg string) ([]byte, error) {
	graph := chart.Chart{
		Width:  400,
		Height: 200,
		Background: chart.Style{
			FillColor: backgroundColor,
		},
		Canvas: chart.Style{
			FillColor: backgroundColor,
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(textColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}

	return render(graph)
}

// parseColor understands the "#rrggbb" palette colours and the
// "rgb(r,g,b)" placement colours.
func parseColor(s string) drawing.Color {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "rgb(") {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "rgb(%d,%d,%d)", &r, &g, &b); err == nil {
			return drawing.Color{R: r, G: g, B: b, A: 255}
		}
		return barColor
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return barColor
	}
	return drawing.ColorFromHex(s)
}

func head[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
