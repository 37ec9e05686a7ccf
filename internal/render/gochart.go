package render

import (
	"fmt"
	"io"
	"math"

	"github.com/KaramelBytes/loaneda-cli/internal/figure"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// goChartRenderer draws figures with go-chart. Bars use the native bar charts;
// boxes, histograms and densities are composed from continuous series.
type goChartRenderer struct{ cfg Config }

func (r *goChartRenderer) Name() string { return BackendGoChart }

func (r *goChartRenderer) Render(f *figure.Figure, format Format, w io.Writer) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	provider := chart.PNG
	if format == SVG {
		provider = chart.SVG
	}
	wIn, hIn := r.cfg.size(f)
	width := int(math.Round(wIn * float64(r.cfg.DPI)))
	height := int(math.Round(hIn * float64(r.cfg.DPI)))

	var err error
	switch f.Kind {
	case figure.KindStackedBar:
		err = stackedBarChart(f, width, height).Render(provider, w)
	case figure.KindGroupedBar:
		err = groupedBarChart(f, width, height).Render(provider, w)
	case figure.KindBox, figure.KindHistogram, figure.KindDensity:
		ch := chart.Chart{
			Title:      f.Title,
			Width:      width,
			Height:     height,
			Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
			XAxis:      chart.XAxis{Name: f.XLabel},
			YAxis:      chart.YAxis{Name: f.YLabel},
		}
		switch f.Kind {
		case figure.KindBox:
			boxSeries(&ch, f)
		case figure.KindHistogram:
			ch.Series = stepSeries(f)
			ch.Elements = []chart.Renderable{chart.Legend(&ch)}
		default:
			ch.Series = densitySeries(f)
			ch.Elements = []chart.Renderable{chart.Legend(&ch)}
		}
		err = ch.Render(provider, w)
	default:
		err = fmt.Errorf("gochart: unsupported figure kind %q", f.Kind)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", f.Name, err)
	}
	return nil
}

func stackedBarChart(f *figure.Figure, width, height int) chart.StackedBarChart {
	bars := make([]chart.StackedBar, len(f.Categories))
	for i, cat := range f.Categories {
		bars[i] = chart.StackedBar{Name: cat}
		for j, s := range f.Series {
			c := seriesColor(s, j)
			bars[i].Values = append(bars[i].Values, chart.Value{
				Label: s.Name,
				Value: s.Values[i],
				Style: chart.Style{FillColor: c, StrokeColor: c},
			})
		}
	}
	return chart.StackedBarChart{
		Title:      f.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Bars:       bars,
	}
}

func groupedBarChart(f *figure.Figure, width, height int) chart.BarChart {
	var bars []chart.Value
	for i, cat := range f.Categories {
		for j, s := range f.Series {
			c := seriesColor(s, j)
			bars = append(bars, chart.Value{
				Label: cat + " / " + s.Name,
				Value: s.Values[i],
				Style: chart.Style{FillColor: c, StrokeColor: c},
			})
		}
	}
	barWidth := (width - 120) / (2 * len(bars))
	if barWidth < 8 {
		barWidth = 8
	}
	return chart.BarChart{
		Title:      f.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		BarWidth:   barWidth,
		BarSpacing: barWidth / 2,
		YAxis:      chart.YAxis{Name: f.YLabel, Range: &chart.ContinuousRange{Min: 0, Max: 100}},
		Bars:       bars,
	}
}

// boxSeries draws each box as an outlined rectangle with a median bar and
// whisker lines; outliers are dots. Box i sits at x = i+1.
func boxSeries(ch *chart.Chart, f *figure.Figure) {
	const half = 0.3
	ticks := []chart.Tick{{Value: 0, Label: ""}}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, s := range f.Series {
		b := s.Box
		x := float64(i + 1)
		c := seriesColor(s, i)
		line := chart.Style{StrokeColor: c, StrokeWidth: 1.5}
		ch.Series = append(ch.Series,
			chart.ContinuousSeries{
				XValues: []float64{x - half, x + half, x + half, x - half, x - half},
				YValues: []float64{b.Q1, b.Q1, b.Q3, b.Q3, b.Q1},
				Style:   line,
			},
			chart.ContinuousSeries{
				XValues: []float64{x - half, x + half},
				YValues: []float64{b.Median, b.Median},
				Style:   chart.Style{StrokeColor: drawing.ColorBlack, StrokeWidth: 2},
			},
			chart.ContinuousSeries{XValues: []float64{x, x}, YValues: []float64{b.WhiskerLo, b.Q1}, Style: line},
			chart.ContinuousSeries{XValues: []float64{x, x}, YValues: []float64{b.Q3, b.WhiskerHi}, Style: line},
		)
		if len(b.Outliers) > 0 {
			xs := make([]float64, len(b.Outliers))
			for j := range xs {
				xs[j] = x
			}
			ch.Series = append(ch.Series, chart.ContinuousSeries{
				XValues: xs,
				YValues: b.Outliers,
				Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 3, DotColor: c},
			})
			lo = math.Min(lo, b.Outliers[0])
			hi = math.Max(hi, b.Outliers[len(b.Outliers)-1])
		}
		lo = math.Min(lo, b.WhiskerLo)
		hi = math.Max(hi, b.WhiskerHi)
		ticks = append(ticks, chart.Tick{Value: x, Label: f.Categories[i]})
	}
	end := float64(len(f.Series) + 1)
	ticks = append(ticks, chart.Tick{Value: end, Label: ""})
	ch.XAxis.Ticks = ticks
	ch.XAxis.Range = &chart.ContinuousRange{Min: 0, Max: end}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	ch.YAxis.Range = &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// stepSeries outlines each histogram as a step line starting and ending at zero.
func stepSeries(f *figure.Figure) []chart.Series {
	out := make([]chart.Series, 0, len(f.Series))
	for i, s := range f.Series {
		xs := []float64{s.Bins[0].Lo}
		ys := []float64{0}
		for _, b := range s.Bins {
			xs = append(xs, b.Lo, b.Hi)
			ys = append(ys, b.Density, b.Density)
		}
		xs = append(xs, s.Bins[len(s.Bins)-1].Hi)
		ys = append(ys, 0)
		c := seriesColor(s, i)
		out = append(out, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: c, StrokeWidth: 1.5},
		})
	}
	return out
}

func densitySeries(f *figure.Figure) []chart.Series {
	out := make([]chart.Series, 0, len(f.Series))
	for i, s := range f.Series {
		c := seriesColor(s, i)
		st := chart.Style{StrokeColor: c, StrokeWidth: 1.5}
		if s.Fill {
			st.FillColor = c.WithAlpha(0x55)
		}
		out = append(out, chart.ContinuousSeries{Name: s.Name, XValues: s.X, YValues: s.Y, Style: st})
	}
	return out
}
