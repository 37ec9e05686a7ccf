package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// Loader turns a tabular file into a DataFrame.
type Loader interface {
	CanLoad(filename string) bool
	Load(content []byte, opt Options) (dataframe.DataFrame, error)
}

// Options tune how files are read.
type Options struct {
	// Delimiter for CSV. If 0, auto-detects among ',', ';', '\t'.
	Delimiter rune
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ParseFile selects a loader based on filename and returns the loaded dataset.
func ParseFile(path string, opt Options) (dataframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read file: %w", err)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			if opt.Delimiter == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
				opt.Delimiter = '\t'
			}
			df, err := l.Load(data, opt)
			if err != nil {
				return dataframe.DataFrame{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
			}
			return df, nil
		}
	}
	return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

// ParseDelimiter accepts a literal single character or the names "tab",
// "comma" and "semicolon". An empty string means auto-detect.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r[0], nil
}

func init() {
	Register(csvLoader{})
	Register(jsonLoader{})
}

// ErrUnsupported indicates a format is not supported yet.
var ErrUnsupported = errors.New("unsupported dataset format")
