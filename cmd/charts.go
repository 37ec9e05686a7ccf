package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/loaneda-cli/internal/analysis"
	"github.com/KaramelBytes/loaneda-cli/internal/figure"
	"github.com/KaramelBytes/loaneda-cli/internal/render"
	"github.com/KaramelBytes/loaneda-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	chOutDir    string
	chFormat    string
	chBackend   string
	chOnly      []string
	chDelimiter string
	chBins      int
	chStrict    bool
	chWidth     float64
	chHeight    float64
	chQuiet     bool
)

var chartsCmd = &cobra.Command{
	Use:   "charts <files...>",
	Short: "Render the loan-approval charts for one or more datasets",
	Long: `Render the six loan-approval charts as PNG or SVG files plus a manifest.yaml.
A chart whose inputs are missing is reported and skipped; the others are still
written and the command exits non-zero at the end.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		c, err := currentConfig()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		outDir := c.OutputDir
		if f.Changed("out") || outDir == "" {
			outDir = chOutDir
		}
		formatName := c.Format
		if f.Changed("format") || formatName == "" {
			formatName = chFormat
		}
		backend := c.Backend
		if f.Changed("backend") || backend == "" {
			backend = chBackend
		}
		opt := analysisOptions(c)
		if f.Changed("bins") {
			opt.Bins = chBins
		}
		if f.Changed("strict-ratio") {
			opt.StrictRatio = chStrict
		}
		rc := render.Config{WidthIn: c.WidthIn, HeightIn: c.HeightIn}
		if f.Changed("width") {
			rc.WidthIn = chWidth
		}
		if f.Changed("height") {
			rc.HeightIn = chHeight
		}

		format, err := render.ParseFormat(formatName)
		if err != nil {
			return err
		}
		r, ok := render.Get(backend, rc)
		if !ok {
			return fmt.Errorf("unknown --backend %q (available: %s)", backend, strings.Join(render.Backends(), ", "))
		}
		plots, err := selectPlots(chOnly)
		if err != nil {
			return err
		}

		var failures []error
		used := map[string]int{}
		total := len(files)
		for i, path := range files {
			if !chQuiet && total > 1 {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			dir := outDir
			if total > 1 {
				dir = filepath.Join(outDir, datasetDir(path, used))
			}
			if err := chartsForFile(r, plots, format, path, dir, opt); err != nil {
				failures = append(failures, err)
			}
		}
		return errors.Join(failures...)
	},
}

// chartsForFile renders the selected plots of one dataset into dir.
func chartsForFile(r render.Renderer, plots []analysis.Plot, format render.Format, path, dir string, opt analysis.Options) error {
	a, err := loadAnalyzer(path, chDelimiter, opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ %s: %v\n", filepath.Base(path), err)
		return err
	}
	var failures []error
	var skipped []analysis.Outcome
	var figs []*figure.Figure
	for _, p := range plots {
		fig, err := p.Run(a)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Skipped %s: %v\n", p.Name, err)
			skipped = append(skipped, analysis.Outcome{Name: p.Name, Err: err})
			failures = append(failures, fmt.Errorf("%s: %w", p.Name, err))
			continue
		}
		figs = append(figs, fig)
	}

	m, err := render.RenderAll(r, figs, format, dir)
	if m == nil {
		return errors.Join(append(failures, err)...)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Render failed: %v\n", err)
		failures = append(failures, err)
	}
	for _, o := range skipped {
		m.Fail(o.Name, o.Err)
	}
	m.Source = path
	manifestPath, err := m.Write(dir)
	if err != nil {
		return errors.Join(append(failures, err)...)
	}
	if !chQuiet {
		for _, e := range m.Charts {
			for _, n := range e.Notes {
				fmt.Printf("  note (%s): %s\n", e.Name, n)
			}
		}
		fmt.Printf("✓ Wrote %d chart(s) to %s (%s)\n", len(m.Charts), dir, filepath.Base(manifestPath))
	}
	return errors.Join(failures...)
}

// selectPlots resolves --only names against the catalog, keeping catalog order.
func selectPlots(only []string) ([]analysis.Plot, error) {
	if len(only) == 0 {
		return analysis.Plots, nil
	}
	want := map[string]bool{}
	for _, n := range only {
		n = strings.TrimSpace(n)
		if _, ok := analysis.PlotByName(n); !ok {
			names := make([]string, len(analysis.Plots))
			for i, p := range analysis.Plots {
				names[i] = p.Name
			}
			return nil, fmt.Errorf("unknown chart %q (available: %s)", n, strings.Join(names, ", "))
		}
		want[n] = true
	}
	var out []analysis.Plot
	for _, p := range analysis.Plots {
		if want[p.Name] {
			out = append(out, p)
		}
	}
	return out, nil
}

// datasetDir names the per-dataset output directory; repeated base names
// get a __N suffix.
func datasetDir(path string, used map[string]int) string {
	base := filepath.Base(path)
	safe := utils.SafeName(strings.TrimSuffix(base, filepath.Ext(base)))
	if safe == "" {
		safe = "dataset"
	}
	used[safe]++
	if n := used[safe]; n > 1 {
		return fmt.Sprintf("%s__%d", safe, n)
	}
	return safe
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsCmd.Flags().StringVarP(&chOutDir, "out", "o", "charts", "output directory (overrides config output_dir)")
	chartsCmd.Flags().StringVar(&chFormat, "format", "png", "image format: png|svg")
	chartsCmd.Flags().StringVar(&chBackend, "backend", render.BackendGonum, "rendering backend: gonum|gochart")
	chartsCmd.Flags().StringSliceVar(&chOnly, "only", nil, "comma-separated chart names to render (default all)")
	chartsCmd.Flags().StringVar(&chDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	chartsCmd.Flags().IntVar(&chBins, "bins", 0, "histogram bins for dti_ratio (0 = auto)")
	chartsCmd.Flags().BoolVar(&chStrict, "strict-ratio", false, "fail dti_ratio on zero income instead of propagating Inf")
	chartsCmd.Flags().Float64Var(&chWidth, "width", 0, "figure width in inches (overrides config width_in)")
	chartsCmd.Flags().Float64Var(&chHeight, "height", 0, "figure height in inches (overrides config height_in)")
	chartsCmd.Flags().BoolVarP(&chQuiet, "quiet", "q", false, "only print warnings and errors")
}
