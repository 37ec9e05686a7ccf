package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Report is a markdown-friendly summary of the numbers behind the six charts.
// Sections whose inputs are missing are left empty and explained in Notes.
type Report struct {
	Name    string
	Rows    int
	Columns []string

	Income       []GroupSummary
	DTI          []GroupSummary
	DTINonFinite int
	Dependents   *Crosstab
	Cibil        []GroupSummary
	SelfEmployed *Crosstab
	Education    *Crosstab

	Notes []string
}

// Summarize computes every section independently; a failure in one section is
// recorded as a note and the rest still run. Unlike PlotDtiRatio it does not
// cache dti_ratio.
func (a *Analyzer) Summarize(name string) *Report {
	r := &Report{Name: name, Rows: a.Len(), Columns: a.Columns()}
	note := func(section string, err error) {
		var mc *MissingColumnError
		if errors.As(err, &mc) {
			r.Notes = append(r.Notes, fmt.Sprintf("%s skipped: column %q not found", section, mc.Column))
			return
		}
		r.Notes = append(r.Notes, fmt.Sprintf("%s skipped: %v", section, err))
	}

	if s, err := a.GroupStats(ColIncome, ColStatus); err != nil {
		note(TitleIncomeByStatus, err)
	} else {
		r.Income = s
	}

	if err := a.summarizeDTI(r); err != nil {
		note(TitleDtiRatio, err)
	}

	if ct, err := a.Crosstab(ColDependents, ColStatus); err != nil {
		note(TitleDependentsImpact, err)
	} else {
		r.Dependents = ct
	}

	if s, err := a.GroupStats(ColCibil, ColStatus); err != nil {
		note(TitleCibilVsIncome, err)
	} else {
		r.Cibil = s
	}

	if ct, err := a.Crosstab(ColSelfEmployed, ColStatus); err != nil {
		note(TitleSelfEmployedApproval, err)
	} else {
		r.SelfEmployed = ct
	}

	if ct, err := a.Crosstab(ColEducation, ColStatus); err != nil {
		note(TitleEducationApproval, err)
	} else {
		r.Education = ct
	}
	return r
}

func (a *Analyzer) summarizeDTI(r *Report) error {
	if err := a.require(NameDtiRatio, ColStatus); err != nil {
		return err
	}
	ratios, err := a.DTIRatios()
	if err != nil {
		return err
	}
	status, missing := a.labels(ColStatus)
	byKey := map[string][]float64{}
	var keys []string
	for i, v := range ratios {
		if missing[i] {
			continue
		}
		if !isFinite(v) {
			r.DTINonFinite++
			continue
		}
		if _, ok := byKey[status[i]]; !ok {
			keys = append(keys, status[i])
		}
		byKey[status[i]] = append(byKey[status[i]], v)
	}
	for _, k := range sortKeys(keys) {
		r.DTI = append(r.DTI, summarize(k, byKey[k]))
	}
	return nil
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d (%s)\n", len(r.Columns), strings.Join(r.Columns, ", ")))

	writeGroups(&b, "INCOME BY LOAN STATUS", ColIncome, r.Income)
	writeGroups(&b, "DEBT-TO-INCOME RATIO BY LOAN STATUS", ColDTI, r.DTI)
	if r.DTINonFinite > 0 {
		b.WriteString(fmt.Sprintf("- non-finite ratios excluded: %d\n", r.DTINonFinite))
	}
	writeCrosstab(&b, "APPROVAL % BY NUMBER OF DEPENDENTS", r.Dependents)
	writeGroups(&b, "CIBIL SCORE BY LOAN STATUS", ColCibil, r.Cibil)
	writeCrosstab(&b, "APPROVAL % BY SELF-EMPLOYED STATUS", r.SelfEmployed)
	writeCrosstab(&b, "APPROVAL % BY EDUCATION LEVEL", r.Education)

	if len(r.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range r.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeGroups(b *strings.Builder, header, col string, groups []GroupSummary) {
	if len(groups) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("\n[%s]\n", header))
	for _, g := range groups {
		b.WriteString(fmt.Sprintf("- %s (n=%d): %s median %.4g, mean %.4g, std %.4g, IQR %.4g..%.4g, range %.4g..%.4g\n",
			safeVal(g.Key), g.N, col, g.Median, g.Mean, g.Std, g.Q1, g.Q3, g.Min, g.Max))
	}
}

func writeCrosstab(b *strings.Builder, header string, ct *Crosstab) {
	if ct == nil {
		return
	}
	b.WriteString(fmt.Sprintf("\n[%s]\n", header))
	b.WriteString("| " + ct.Row)
	for _, c := range ct.ColKeys {
		b.WriteString(" | " + safeVal(c))
	}
	b.WriteString(" | n |\n|---")
	for range ct.ColKeys {
		b.WriteString("|---")
	}
	b.WriteString("|---|\n")
	for i, rk := range ct.RowKeys {
		b.WriteString("| " + safeVal(rk))
		for j := range ct.ColKeys {
			b.WriteString(" | " + percent(ct.Percent[i][j]))
		}
		b.WriteString(fmt.Sprintf(" | %d |\n", ct.RowTotal(i)))
	}
}

// percent formats with one decimal, rounding half away from zero.
func percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
