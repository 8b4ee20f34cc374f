// Package charts turns dashboard views into go-chart renderables.
package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"rent-dashboard/models"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("charts: no data")

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("charts: unsupported format %q", s)
}

// ContentType is the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Renderable is satisfied by chart.Chart and chart.BarChart.
type Renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Size is the output size in pixels.
type Size struct {
	Width  int
	Height int
}

// Render writes r to w in format f.
func Render(r Renderable, f Format, w io.Writer) error {
	rp := chart.PNG
	if f == SVG {
		rp = chart.SVG
	}
	if err := r.Render(rp, w); err != nil {
		return fmt.Errorf("charts: render %s: %w", f, err)
	}
	return nil
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    4,
		DotColor:    col.WithAlpha(190),
	}
}

// MeanBar draws one bar per city, in the order given (ascending mean), shaded
// from light to dark blue by value.
func MeanBar(title, axis string, means []models.CityMean, size Size) (*chart.BarChart, error) {
	if len(means) == 0 {
		return nil, ErrNoData
	}

	top := 0.0
	for _, m := range means {
		top = math.Max(top, m.Mean)
	}
	if top <= 0 {
		top = 1
	}

	bars := make([]chart.Value, 0, len(means))
	for _, m := range means {
		col := blueScale(m.Mean / top)
		bars = append(bars, chart.Value{
			Label: m.City,
			Value: m.Mean,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
	}

	barWidth := size.Width / (len(means) * 2)
	if barWidth > 120 {
		barWidth = 120
	}

	return &chart.BarChart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		YAxis: chart.YAxis{
			Name:           axis,
			Range:          &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: currency,
		},
		Bars: bars,
	}, nil
}

// Scatter plots area against rent, one colored series per city.
func Scatter(series []models.ScatterSeries, size Size) (*chart.Chart, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}

	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := math.Inf(1), math.Inf(-1)
	out := make([]chart.Series, 0, len(series))
	for i, s := range series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xs[j], ys[j] = p.Area, p.Rent
			xMin, xMax = math.Min(xMin, p.Area), math.Max(xMax, p.Area)
			yMin, yMax = math.Min(yMin, p.Rent), math.Max(yMax, p.Rent)
		}
		out = append(out, chart.ContinuousSeries{
			Name:    s.City,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(CityColor(i)),
		})
	}

	c := &chart.Chart{
		Title:      "Relação entre Área e Valor do Aluguel",
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  "Área (m²)",
			Range: padded(xMin, xMax),
		},
		YAxis: chart.YAxis{
			Name:           "Valor do Aluguel (R$)",
			Range:          padded(yMin, yMax),
			ValueFormatter: currency,
		},
		Series: out,
	}
	c.Elements = []chart.Renderable{chart.Legend(c)}
	return c, nil
}

// RentHistogram draws the binned rent distribution stacked by city. Each
// city is a filled step series of the cumulative count up to and including
// that city; series are drawn tallest first so lower stacks paint over.
func RentHistogram(h *models.HistogramData, size Size) (*chart.Chart, error) {
	if h == nil || len(h.Bins) == 0 {
		return nil, ErrNoData
	}

	lo, hi := h.Bins[0].Lower, h.Bins[len(h.Bins)-1].Upper
	if hi == lo {
		lo, hi = lo-1, hi+1
	}

	cum := make([][]float64, len(h.Cities))
	for k := range h.Cities {
		cum[k] = make([]float64, len(h.Bins))
		for b, bin := range h.Bins {
			cum[k][b] = float64(bin.Counts[k])
			if k > 0 {
				cum[k][b] += cum[k-1][b]
			}
		}
	}

	top := 1.0
	for _, bin := range h.Bins {
		top = math.Max(top, float64(bin.Total()))
	}

	series := make([]chart.Series, 0, len(h.Cities))
	for k := len(h.Cities) - 1; k >= 0; k-- {
		xs := make([]float64, 0, len(h.Bins)*2)
		ys := make([]float64, 0, len(h.Bins)*2)
		for b, bin := range h.Bins {
			lower, upper := bin.Lower, bin.Upper
			if len(h.Bins) == 1 {
				lower, upper = lo, hi
			}
			xs = append(xs, lower, upper)
			ys = append(ys, cum[k][b], cum[k][b])
		}
		col := CityColor(k)
		series = append(series, chart.ContinuousSeries{
			Name:    h.Cities[k],
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 1,
				FillColor:   col.WithAlpha(200),
			},
		})
	}

	c := &chart.Chart{
		Title:      "Distribuição dos Valores de Aluguel",
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           "Valor do Aluguel (R$)",
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: currency,
		},
		YAxis: chart.YAxis{
			Name:  "count",
			Range: &chart.ContinuousRange{Min: 0, Max: math.Ceil(top * 1.1)},
		},
		Series: series,
	}
	c.Elements = []chart.Renderable{chart.Legend(c)}
	return c, nil
}

// padded widens [lo, hi] by 5% on each side, and by 1 when lo == hi.
func padded(lo, hi float64) *chart.ContinuousRange {
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: math.Max(0, lo-pad), Max: hi + pad}
}

func currency(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("R$ %.0f", f)
	}
	return fmt.Sprint(v)
}
