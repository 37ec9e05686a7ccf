// Package figure describes charts independently of any drawing backend.
// Analyses produce a Figure; renderers turn it into PNG or SVG bytes.
package figure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind names the visual encoding of a Figure.
type Kind string

const (
	KindBox        Kind = "box"
	KindHistogram  Kind = "histogram"
	KindStackedBar Kind = "stacked_bar"
	KindDensity    Kind = "density"
	KindGroupedBar Kind = "grouped_bar"
)

// Default physical size in inches.
const (
	DefaultWidthIn  = 6.0
	DefaultHeightIn = 4.0
)

// Palette is indexed by series position.
var Palette = []string{
	"#1F77B4", "#FF7F0E", "#2CA02C", "#D62728", "#9467BD",
	"#8C564B", "#E377C2", "#7F7F7F", "#BCBD22", "#17BECF",
}

// Figure is a render-ready chart description.
type Figure struct {
	ID         string
	Name       string // file-safe slug, e.g. "income_by_status"
	Kind       Kind
	Title      string
	XLabel     string
	YLabel     string
	Categories []string // x positions for box and bar kinds
	Series     []Series
	Notes      []string
	WidthIn    float64
	HeightIn   float64
}

// Series is one legend entry. Which fields are populated depends on the Figure kind:
//   - box: Values (raw observations) and Box
//   - histogram: Bins
//   - stacked_bar, grouped_bar: Values, one per category
//   - density: X and Y
type Series struct {
	Name   string
	Color  string
	Values []float64
	Box    *BoxStats
	Bins   []Bin
	X, Y   []float64
	Fill   bool
}

// BoxStats are the components of a box-and-whisker glyph.
type BoxStats struct {
	N          int
	Q1, Median float64
	Q3         float64
	// Whiskers end at the most extreme observations within 1.5*IQR of the box.
	WhiskerLo, WhiskerHi float64
	Outliers             []float64
}

// Bin is a half-open histogram bin [Lo, Hi).
type Bin struct {
	Lo, Hi  float64
	Count   int
	Density float64
}

// New returns a Figure with a fresh ID and the default size.
func New(name string, kind Kind, title string) *Figure {
	return &Figure{
		ID:       uuid.NewString(),
		Name:     name,
		Kind:     kind,
		Title:    title,
		WidthIn:  DefaultWidthIn,
		HeightIn: DefaultHeightIn,
	}
}

// AddSeries appends s, assigning the next palette color when none is set.
func (f *Figure) AddSeries(s Series) {
	if s.Color == "" {
		s.Color = Palette[len(f.Series)%len(Palette)]
	}
	f.Series = append(f.Series, s)
}

// Notef records a human-readable remark about the data behind the figure.
func (f *Figure) Notef(format string, args ...interface{}) {
	f.Notes = append(f.Notes, fmt.Sprintf(format, args...))
}

// Validate checks that the series shapes match the figure kind.
func (f *Figure) Validate() error {
	if f == nil {
		return errors.New("figure is nil")
	}
	if strings.TrimSpace(f.Title) == "" {
		return errors.New("figure has no title")
	}
	if len(f.Series) == 0 {
		return fmt.Errorf("figure %q has no series", f.Name)
	}
	for _, s := range f.Series {
		switch f.Kind {
		case KindBox:
			if s.Box == nil {
				return fmt.Errorf("figure %q: series %q missing box stats", f.Name, s.Name)
			}
			if len(f.Categories) != len(f.Series) {
				return fmt.Errorf("figure %q: %d boxes for %d categories", f.Name, len(f.Series), len(f.Categories))
			}
		case KindHistogram:
			if len(s.Bins) == 0 {
				return fmt.Errorf("figure %q: series %q has no bins", f.Name, s.Name)
			}
		case KindStackedBar, KindGroupedBar:
			if len(s.Values) != len(f.Categories) {
				return fmt.Errorf("figure %q: series %q has %d values for %d categories", f.Name, s.Name, len(s.Values), len(f.Categories))
			}
		case KindDensity:
			if len(s.X) != len(s.Y) || len(s.X) < 2 {
				return fmt.Errorf("figure %q: series %q has malformed curve (%d x, %d y)", f.Name, s.Name, len(s.X), len(s.Y))
			}
		default:
			return fmt.Errorf("figure %q: unknown kind %q", f.Name, f.Kind)
		}
	}
	return nil
}

// Size returns the figure size in inches, falling back to the defaults.
func (f *Figure) Size() (w, h float64) {
	w, h = f.WidthIn, f.HeightIn
	if w <= 0 {
		w = DefaultWidthIn
	}
	if h <= 0 {
		h = DefaultHeightIn
	}
	return w, h
}
