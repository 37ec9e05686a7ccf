package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/loaneda-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/loaneda-cli/internal/config"
	"github.com/KaramelBytes/loaneda-cli/internal/logging"
	"github.com/KaramelBytes/loaneda-cli/internal/parser"
)

// currentConfig returns the loaded config, loading it when the command runs
// without the root initializer (tests call rootCmd.Execute directly).
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// analysisOptions maps config knobs onto analysis options.
func analysisOptions(c *cfgpkg.Global) analysis.Options {
	opt := analysis.DefaultOptions()
	opt.Bins = c.HistBins
	if c.KDEPoints > 0 {
		opt.KDEPoints = c.KDEPoints
	}
	if c.BWAdjust > 0 {
		opt.BandwidthAdjust = c.BWAdjust
	}
	opt.StrictRatio = c.StrictRatio
	return opt
}

// loadAnalyzer reads a dataset file and wraps it in an Analyzer.
func loadAnalyzer(path, delimiter string, opt analysis.Options) (*analysis.Analyzer, error) {
	delim, err := parser.ParseDelimiter(delimiter)
	if err != nil {
		return nil, fmt.Errorf("unsupported --delimiter: %w", err)
	}
	df, err := parser.ParseFile(path, parser.Options{Delimiter: delim})
	if err != nil {
		return nil, err
	}
	a, err := analysis.New(df, analysis.WithOptions(opt))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	logging.Debugf("loaded %s: %d rows, columns %v", path, a.Len(), a.Columns())
	return a, nil
}

// expandInputs resolves glob patterns and literal paths, dropping duplicates.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}
