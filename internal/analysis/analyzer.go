package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Analyzer answers the loan-approval EDA questions over a private copy of a dataset.
// It is not safe for concurrent use; build one Analyzer per goroutine.
type Analyzer struct {
	df  dataframe.DataFrame
	opt Options
}

// New copies df, trims surrounding whitespace from its column names and returns an Analyzer.
// The caller's DataFrame is never modified. A table with columns but no records
// is accepted; each analysis then reports that it has no data.
func New(df dataframe.DataFrame, opts ...Option) (*Analyzer, error) {
	if df.Err != nil {
		return nil, &InvalidInputError{Reason: "dataframe is in an error state", Err: df.Err}
	}
	if df.Ncol() == 0 {
		return nil, &InvalidInputError{Reason: "dataset has no columns"}
	}
	cp := df.Copy()
	if cp.Err != nil {
		return nil, &InvalidInputError{Reason: "copy dataset", Err: cp.Err}
	}
	names := cp.Names()
	trimmed := make([]string, len(names))
	seen := make(map[string]struct{}, len(names))
	for i, n := range names {
		t := strings.TrimSpace(n)
		if t == "" {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("column %d has an empty name", i+1)}
		}
		if _, dup := seen[t]; dup {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("column %q appears more than once after trimming", t)}
		}
		seen[t] = struct{}{}
		trimmed[i] = t
	}
	if err := cp.SetNames(trimmed...); err != nil {
		return nil, &InvalidInputError{Reason: "rename columns", Err: err}
	}

	opt := DefaultOptions()
	for _, o := range opts {
		o(&opt)
	}
	opt.normalize()
	return &Analyzer{df: cp, opt: opt}, nil
}

// FromMaps builds an Analyzer from records that all share the same set of keys.
func FromMaps(records []map[string]interface{}, opts ...Option) (*Analyzer, error) {
	if len(records) == 0 {
		return nil, &InvalidInputError{Reason: "no records"}
	}
	keys := make([]string, 0, len(records[0]))
	for k := range records[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return nil, &InvalidInputError{Reason: "record 1 has no fields"}
	}
	for i, r := range records[1:] {
		if len(r) != len(keys) {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("record %d has %d fields, want %d", i+2, len(r), len(keys))}
		}
		for _, k := range keys {
			if _, ok := r[k]; !ok {
				return nil, &InvalidInputError{Reason: fmt.Sprintf("record %d lacks field %q", i+2, k)}
			}
		}
	}
	return New(dataframe.LoadMaps(records), opts...)
}

// Columns returns the (trimmed) column names.
func (a *Analyzer) Columns() []string { return a.df.Names() }

// Len returns the number of records.
func (a *Analyzer) Len() int { return a.df.Nrow() }

// Options returns the effective options.
func (a *Analyzer) Options() Options { return a.opt }

// Frame returns a copy of the analyzer's dataset, including cached derived columns.
func (a *Analyzer) Frame() dataframe.DataFrame { return a.df.Copy() }

func (a *Analyzer) has(col string) bool {
	for _, n := range a.df.Names() {
		if n == col {
			return true
		}
	}
	return false
}

func (a *Analyzer) require(analysis string, cols ...string) error {
	for _, c := range cols {
		if !a.has(c) {
			return &MissingColumnError{Column: c, Analysis: analysis}
		}
	}
	return nil
}

// floats returns the column as float64; unparseable cells become NaN.
func (a *Analyzer) floats(col string) []float64 {
	return a.df.Col(col).Float()
}

// labels returns category labels for col and a mask of missing cells.
// Numeric columns are formatted compactly so 2 reads "2", not "2.000000".
func (a *Analyzer) labels(col string) ([]string, []bool) {
	s := a.df.Col(col)
	missing := s.IsNaN()
	switch s.Type() {
	case series.Int, series.Float:
		vals := s.Float()
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		return out, missing
	default:
		return s.Records(), missing
	}
}

// groupValues splits the finite values of valueCol by the labels of byCol.
// Keys are returned in category order.
func (a *Analyzer) groupValues(valueCol, byCol string) ([]string, [][]float64) {
	vals := a.floats(valueCol)
	keys, missing := a.labels(byCol)
	idx := map[string]int{}
	var order []string
	var groups [][]float64
	for i, v := range vals {
		if missing[i] || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		j, ok := idx[keys[i]]
		if !ok {
			j = len(order)
			idx[keys[i]] = j
			order = append(order, keys[i])
			groups = append(groups, nil)
		}
		groups[j] = append(groups[j], v)
	}
	sorted := sortKeys(order)
	out := make([][]float64, len(sorted))
	for i, k := range sorted {
		out[i] = groups[idx[k]]
	}
	return sorted, out
}

// cache stores a derived column on the private copy. A failed Mutate leaves
// the previous state untouched.
func (a *Analyzer) cache(col string, vals []float64) {
	next := a.df.Mutate(series.New(vals, series.Float, col))
	if next.Err != nil {
		return
	}
	a.df = next
}

// sortKeys orders category keys numerically when all of them are numbers,
// lexically otherwise.
func sortKeys(keys []string) []string {
	out := append([]string(nil), keys...)
	nums := make(map[string]float64, len(out))
	numeric := true
	for _, k := range out {
		f, err := strconv.ParseFloat(strings.TrimSpace(k), 64)
		if err != nil {
			numeric = false
			break
		}
		nums[k] = f
	}
	if numeric {
		sort.SliceStable(out, func(i, j int) bool { return nums[out[i]] < nums[out[j]] })
		return out
	}
	sort.Strings(out)
	return out
}
