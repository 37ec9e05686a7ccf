// Package render turns backend-neutral figures into PNG or SVG bytes.
package render

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/KaramelBytes/loaneda-cli/internal/figure"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// Backend identifiers used by the CLI for selection.
const (
	BackendGonum   = "gonum"
	BackendGoChart = "gochart"
)

// ErrUnsupportedFormat is returned for formats other than png and svg.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Renderer draws a figure onto w in the requested format.
type Renderer interface {
	Name() string
	Render(f *figure.Figure, format Format, w io.Writer) error
}

// Config carries the knobs shared by all backends.
type Config struct {
	// WidthIn and HeightIn override the figure size when positive.
	WidthIn  float64
	HeightIn float64
	// DPI converts inches to pixels for raster-only backends.
	DPI int
}

// Factory builds a Renderer from a Config.
type Factory func(Config) Renderer

var registry = map[string]Factory{}

// Register registers a backend name with its factory.
func Register(name string, f Factory) { registry[name] = f }

// Get creates a Renderer for the given backend if registered.
func Get(name string, cfg Config) (Renderer, bool) {
	if f, ok := registry[strings.ToLower(name)]; ok {
		return f(cfg.withDefaults()), true
	}
	return nil, false
}

// Backends lists registered backend names.
func Backends() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(BackendGonum, func(c Config) Renderer { return &gonumRenderer{cfg: c} })
	Register(BackendGoChart, func(c Config) Renderer { return &goChartRenderer{cfg: c} })
}

func (c Config) withDefaults() Config {
	if c.DPI <= 0 {
		c.DPI = 100
	}
	return c
}

// size returns the figure's own size unless the renderer overrides it.
func (c Config) size(f *figure.Figure) (w, h float64) {
	w, h = f.Size()
	if c.WidthIn > 0 {
		w = c.WidthIn
	}
	if c.HeightIn > 0 {
		h = c.HeightIn
	}
	return w, h
}

func checkFormat(format Format) error {
	if format != PNG && format != SVG {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return nil
}

// seriesColor parses a palette entry such as "#1F77B4".
func seriesColor(s figure.Series, i int) drawing.Color {
	hex := s.Color
	if hex == "" {
		hex = figure.Palette[i%len(figure.Palette)]
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
