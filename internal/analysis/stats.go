package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/loaneda-cli/internal/figure"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// maxAutoBins caps the "auto" rule on heavy-tailed data.
const maxAutoBins = 1000

// GroupSummary holds descriptive statistics of one group.
type GroupSummary struct {
	Key            string
	N              int
	Mean, Std      float64
	Min, Max       float64
	Q1, Median, Q3 float64
}

func summarize(key string, vals []float64) GroupSummary {
	s := GroupSummary{Key: key, N: len(vals)}
	if len(vals) == 0 {
		return s
	}
	sorted := sortedCopy(vals)
	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q1 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)
	return s
}

// GroupStats summarizes valueCol per category of byCol. Missing and non-finite
// values are skipped.
func (a *Analyzer) GroupStats(valueCol, byCol string) ([]GroupSummary, error) {
	if err := a.require("group stats", valueCol, byCol); err != nil {
		return nil, err
	}
	keys, groups := a.groupValues(valueCol, byCol)
	out := make([]GroupSummary, len(keys))
	for i, k := range keys {
		out[i] = summarize(k, groups[i])
	}
	return out, nil
}

func sortedCopy(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// quantile interpolates linearly between closest ranks of sorted input.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// boxStats computes quartiles, whiskers at coef*IQR and the outliers beyond them.
func boxStats(vals []float64, coef float64) *figure.BoxStats {
	sorted := sortedCopy(vals)
	b := &figure.BoxStats{N: len(sorted)}
	if len(sorted) == 0 {
		return b
	}
	b.Q1 = quantile(sorted, 0.25)
	b.Median = quantile(sorted, 0.5)
	b.Q3 = quantile(sorted, 0.75)
	iqr := b.Q3 - b.Q1
	lo := b.Q1 - coef*iqr
	hi := b.Q3 + coef*iqr
	b.WhiskerLo, b.WhiskerHi = b.Q1, b.Q3
	for _, v := range sorted {
		if v >= lo {
			b.WhiskerLo = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= hi {
			b.WhiskerHi = sorted[i]
			break
		}
	}
	for _, v := range sorted {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b
}

// autoBinCount mirrors numpy's "auto" estimator: the smaller bin width of
// the Sturges and Freedman-Diaconis rules.
func autoBinCount(vals []float64) int {
	n := len(vals)
	if n == 0 {
		return 1
	}
	sorted := sortedCopy(vals)
	ptp := sorted[n-1] - sorted[0]
	if ptp == 0 {
		return 1
	}
	width := ptp / (math.Log2(float64(n)) + 1)
	iqr := quantile(sorted, 0.75) - quantile(sorted, 0.25)
	if fd := 2 * iqr * math.Pow(float64(n), -1.0/3.0); fd > 0 && fd < width {
		width = fd
	}
	bins := int(math.Ceil(ptp / width))
	if bins < 1 {
		bins = 1
	}
	if bins > maxAutoBins {
		bins = maxAutoBins
	}
	return bins
}

// histogram bins every group on shared edges. Densities share one normalisation,
// so the total area over all groups is 1.
func histogram(groups [][]float64, nbins int) [][]figure.Bin {
	var all []float64
	for _, g := range groups {
		all = append(all, g...)
	}
	if len(all) == 0 {
		return nil
	}
	lo, hi := floats.Min(all), floats.Max(all)
	if nbins <= 0 {
		nbins = autoBinCount(all)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
		nbins = 1
	}
	edges := floats.Span(make([]float64, nbins+1), lo, hi)
	width := (hi - lo) / float64(nbins)
	total := float64(len(all))

	out := make([][]figure.Bin, len(groups))
	for gi, g := range groups {
		bins := make([]figure.Bin, nbins)
		for i := range bins {
			bins[i].Lo, bins[i].Hi = edges[i], edges[i+1]
		}
		for _, v := range g {
			i := int((v - lo) / width)
			if i >= nbins {
				i = nbins - 1
			}
			if i < 0 {
				i = 0
			}
			bins[i].Count++
		}
		for i := range bins {
			bins[i].Density = float64(bins[i].Count) / (total * width)
		}
		out[gi] = bins
	}
	return out
}

// scottBandwidth returns the Gaussian kernel bandwidth by Scott's rule.
func scottBandwidth(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	return stat.StdDev(vals, nil) * math.Pow(float64(len(vals)), -1.0/5.0)
}

// kde evaluates a Gaussian kernel density estimate of vals on a grid that extends
// three bandwidths past the data. The curve is scaled by weight, the group's share
// of all observations. Returns nil when the bandwidth is undefined.
func kde(vals []float64, weight float64, points int, adjust float64) (xs, ys []float64) {
	bw := scottBandwidth(vals) * adjust
	if bw <= 0 || math.IsNaN(bw) {
		return nil, nil
	}
	lo := floats.Min(vals) - 3*bw
	hi := floats.Max(vals) + 3*bw
	xs = floats.Span(make([]float64, points), lo, hi)
	ys = make([]float64, points)
	norm := weight / (float64(len(vals)) * bw * math.Sqrt(2*math.Pi))
	for i, x := range xs {
		var sum float64
		for _, v := range vals {
			z := (x - v) / bw
			sum += math.Exp(-0.5 * z * z)
		}
		ys[i] = sum * norm
	}
	return xs, ys
}
