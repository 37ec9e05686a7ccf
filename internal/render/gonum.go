package render

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/loaneda-cli/internal/figure"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// gonumRenderer draws every figure kind with gonum/plot.
type gonumRenderer struct{ cfg Config }

func (r *gonumRenderer) Name() string { return BackendGonum }

func (r *gonumRenderer) Render(f *figure.Figure, format Format, w io.Writer) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	p.Legend.Top = true

	var err error
	switch f.Kind {
	case figure.KindBox:
		err = gonumBoxes(p, f)
	case figure.KindHistogram:
		err = gonumHistograms(p, f)
	case figure.KindStackedBar:
		err = gonumBars(p, f, true)
	case figure.KindGroupedBar:
		err = gonumBars(p, f, false)
	case figure.KindDensity:
		err = gonumDensity(p, f)
	default:
		err = fmt.Errorf("gonum: unsupported figure kind %q", f.Kind)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", f.Name, err)
	}

	wIn, hIn := r.cfg.size(f)
	wt, err := p.WriterTo(vg.Length(wIn)*vg.Inch, vg.Length(hIn)*vg.Inch, string(format))
	if err != nil {
		return fmt.Errorf("%s: encode %s: %w", f.Name, format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("%s: write %s: %w", f.Name, format, err)
	}
	return nil
}

func gonumBoxes(p *plot.Plot, f *figure.Figure) error {
	for i, s := range f.Series {
		b, err := plotter.NewBoxPlot(vg.Points(24), float64(i), plotter.Values(s.Values))
		if err != nil {
			return fmt.Errorf("box %q: %w", s.Name, err)
		}
		b.FillColor = seriesColor(s, i).WithAlpha(0x99)
		p.Add(b)
	}
	p.NominalX(f.Categories...)
	return nil
}

func gonumHistograms(p *plot.Plot, f *figure.Figure) error {
	for i, s := range f.Series {
		bins := make([]plotter.HistogramBin, len(s.Bins))
		for j, b := range s.Bins {
			bins[j] = plotter.HistogramBin{Min: b.Lo, Max: b.Hi, Weight: b.Density}
		}
		h := &plotter.Histogram{
			Bins:      bins,
			Width:     s.Bins[0].Hi - s.Bins[0].Lo,
			LineStyle: plotter.DefaultLineStyle,
		}
		h.LineStyle.Color = seriesColor(s, i)
		h.LineStyle.Width = vg.Points(1.5)
		p.Add(h)
		p.Legend.Add(s.Name, h)
	}
	p.Y.Min = 0
	return nil
}

func gonumBars(p *plot.Plot, f *figure.Figure, stacked bool) error {
	width := vg.Points(36)
	if !stacked {
		width = vg.Points(48 / float64(len(f.Series)))
	}
	var below *plotter.BarChart
	for i, s := range f.Series {
		bc, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return fmt.Errorf("bars %q: %w", s.Name, err)
		}
		bc.Color = seriesColor(s, i)
		bc.LineStyle.Width = 0
		if stacked {
			if below != nil {
				bc.StackOn(below)
			}
			below = bc
		} else {
			bc.Offset = width * vg.Length(float64(i)-float64(len(f.Series)-1)/2)
		}
		p.Add(bc)
		p.Legend.Add(s.Name, bc)
	}
	p.NominalX(f.Categories...)
	p.Y.Min = 0
	if p.Y.Max < 100 {
		p.Y.Max = 100
	}
	return nil
}

func gonumDensity(p *plot.Plot, f *figure.Figure) error {
	for i, s := range f.Series {
		xys := make(plotter.XYs, len(s.X))
		for j := range s.X {
			xys[j].X, xys[j].Y = s.X[j], s.Y[j]
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("density %q: %w", s.Name, err)
		}
		c := seriesColor(s, i)
		l.LineStyle.Color = c
		l.LineStyle.Width = vg.Points(1.5)
		if s.Fill {
			l.FillColor = c.WithAlpha(0x55)
		}
		p.Add(l)
		p.Legend.Add(s.Name, l)
	}
	p.Y.Min = 0
	return nil
}
