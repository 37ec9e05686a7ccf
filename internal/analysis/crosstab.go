package analysis

import "fmt"

// Crosstab counts records per (row, column) category pair. Percent is row-normalized:
// every row sums to 100.
type Crosstab struct {
	Row, Col string
	RowKeys  []string
	ColKeys  []string
	Counts   [][]int
	Percent  [][]float64
}

// Crosstab tabulates row against col. Records with a missing value in either
// column are dropped.
func (a *Analyzer) Crosstab(row, col string) (*Crosstab, error) {
	if err := a.require(fmt.Sprintf("crosstab %s x %s", row, col), row, col); err != nil {
		return nil, err
	}
	rk, rMiss := a.labels(row)
	ck, cMiss := a.labels(col)

	type cell struct{ r, c string }
	counts := map[cell]int{}
	rowSeen := map[string]struct{}{}
	colSeen := map[string]struct{}{}
	var rows, cols []string
	for i := range rk {
		if rMiss[i] || cMiss[i] {
			continue
		}
		if _, ok := rowSeen[rk[i]]; !ok {
			rowSeen[rk[i]] = struct{}{}
			rows = append(rows, rk[i])
		}
		if _, ok := colSeen[ck[i]]; !ok {
			colSeen[ck[i]] = struct{}{}
			cols = append(cols, ck[i])
		}
		counts[cell{rk[i], ck[i]}]++
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("crosstab %s x %s: no complete records", row, col)
	}

	ct := &Crosstab{Row: row, Col: col, RowKeys: sortKeys(rows), ColKeys: sortKeys(cols)}
	ct.Counts = make([][]int, len(ct.RowKeys))
	ct.Percent = make([][]float64, len(ct.RowKeys))
	for i, r := range ct.RowKeys {
		ct.Counts[i] = make([]int, len(ct.ColKeys))
		ct.Percent[i] = make([]float64, len(ct.ColKeys))
		total := 0
		for j, c := range ct.ColKeys {
			n := counts[cell{r, c}]
			ct.Counts[i][j] = n
			total += n
		}
		for j := range ct.ColKeys {
			ct.Percent[i][j] = float64(ct.Counts[i][j]) * 100 / float64(total)
		}
	}
	return ct, nil
}

// RowTotal returns the number of records in row i.
func (c *Crosstab) RowTotal(i int) int {
	n := 0
	for _, v := range c.Counts[i] {
		n += v
	}
	return n
}

// Column returns the percentages of column j across all rows.
func (c *Crosstab) Column(j int) []float64 {
	out := make([]float64, len(c.RowKeys))
	for i := range c.RowKeys {
		out[i] = c.Percent[i][j]
	}
	return out
}

// Lookup returns the percentage for a (row, col) pair.
func (c *Crosstab) Lookup(row, col string) (float64, bool) {
	for i, r := range c.RowKeys {
		if r != row {
			continue
		}
		for j, k := range c.ColKeys {
			if k == col {
				return c.Percent[i][j], true
			}
		}
	}
	return 0, false
}
