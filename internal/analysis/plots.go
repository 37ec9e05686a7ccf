package analysis

import (
	"fmt"

	"github.com/KaramelBytes/loaneda-cli/internal/figure"
	"github.com/KaramelBytes/loaneda-cli/internal/logging"
)

// Chart names, used for file names and --only selection.
const (
	NameIncomeByStatus       = "income_by_status"
	NameDtiRatio             = "dti_ratio"
	NameDependentsImpact     = "dependents_impact"
	NameCibilVsIncome        = "cibil_vs_income"
	NameSelfEmployedApproval = "self_employed_approval"
	NameEducationApproval    = "education_approval"
)

const (
	TitleIncomeByStatus       = "Income by Loan Status"
	TitleDtiRatio             = "Debt-to-Income Ratio by Loan Status"
	TitleDependentsImpact     = "% Approval by Number of Dependents"
	TitleCibilVsIncome        = "CIBIL Score Distribution by Loan Status"
	TitleSelfEmployedApproval = "Approval % by Self-Employed Status"
	TitleEducationApproval    = "Approval % by Education Level"
)

// Plot is one entry of the chart catalog.
type Plot struct {
	Name  string
	Title string
	Run   func(*Analyzer) (*figure.Figure, error)
}

// Plots lists every analysis in presentation order.
var Plots = []Plot{
	{NameIncomeByStatus, TitleIncomeByStatus, (*Analyzer).PlotIncomeByStatus},
	{NameDtiRatio, TitleDtiRatio, (*Analyzer).PlotDtiRatio},
	{NameDependentsImpact, TitleDependentsImpact, (*Analyzer).PlotDependentsImpact},
	{NameCibilVsIncome, TitleCibilVsIncome, (*Analyzer).PlotCibilVsIncome},
	{NameSelfEmployedApproval, TitleSelfEmployedApproval, (*Analyzer).PlotSelfEmployedApproval},
	{NameEducationApproval, TitleEducationApproval, (*Analyzer).PlotEducationApproval},
}

// PlotByName looks up a catalog entry.
func PlotByName(name string) (Plot, bool) {
	for _, p := range Plots {
		if p.Name == name {
			return p, true
		}
	}
	return Plot{}, false
}

// Outcome is the result of one analysis run by All.
type Outcome struct {
	Name   string
	Figure *figure.Figure
	Err    error
}

// All runs every analysis. A failing analysis is reported in its Outcome and
// does not stop the others.
func (a *Analyzer) All() []Outcome {
	out := make([]Outcome, 0, len(Plots))
	for _, p := range Plots {
		f, err := p.Run(a)
		if err != nil {
			logging.Debugf("%s failed: %v", p.Name, err)
		}
		out = append(out, Outcome{Name: p.Name, Figure: f, Err: err})
	}
	return out
}

// PlotIncomeByStatus draws one box of income_annum per loan_status.
func (a *Analyzer) PlotIncomeByStatus() (*figure.Figure, error) {
	if err := a.require(NameIncomeByStatus, ColStatus, ColIncome); err != nil {
		return nil, err
	}
	keys, groups := a.groupValues(ColIncome, ColStatus)
	if len(keys) == 0 {
		return nil, fmt.Errorf("%s: no numeric %s values", NameIncomeByStatus, ColIncome)
	}
	f := figure.New(NameIncomeByStatus, figure.KindBox, TitleIncomeByStatus)
	f.XLabel, f.YLabel = ColStatus, ColIncome
	f.Categories = keys
	for i, k := range keys {
		f.AddSeries(figure.Series{Name: k, Values: groups[i], Box: boxStats(groups[i], a.opt.WhiskerCoef)})
	}
	return f, nil
}

// DTIRatios returns loan_amount / income_annum per record. A zero income yields
// +Inf (or NaN for 0/0) unless strict ratio mode is on, in which case the first
// such record fails with DivisionUndefinedError. Rows are reported 1-based.
func (a *Analyzer) DTIRatios() ([]float64, error) {
	if err := a.require(NameDtiRatio, ColLoanAmount, ColIncome); err != nil {
		return nil, err
	}
	loan := a.floats(ColLoanAmount)
	income := a.floats(ColIncome)
	out := make([]float64, len(loan))
	for i := range loan {
		if income[i] == 0 && a.opt.StrictRatio {
			return nil, &DivisionUndefinedError{Row: i + 1, Numerator: ColLoanAmount, Denominator: ColIncome}
		}
		out[i] = loan[i] / income[i]
	}
	return out, nil
}

// PlotDtiRatio derives dti_ratio, caches it on the private copy and draws
// overlapping step histograms of its density per loan_status.
func (a *Analyzer) PlotDtiRatio() (*figure.Figure, error) {
	if err := a.require(NameDtiRatio, ColStatus); err != nil {
		return nil, err
	}
	ratios, err := a.DTIRatios()
	if err != nil {
		return nil, err
	}
	status, missing := a.labels(ColStatus)
	idx := map[string]int{}
	var order []string
	var groups [][]float64
	nonFinite := 0
	for i, r := range ratios {
		if missing[i] {
			continue
		}
		if !isFinite(r) {
			nonFinite++
			continue
		}
		j, ok := idx[status[i]]
		if !ok {
			j = len(order)
			idx[status[i]] = j
			order = append(order, status[i])
			groups = append(groups, nil)
		}
		groups[j] = append(groups[j], r)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("%s: no finite ratios", NameDtiRatio)
	}
	keys := sortKeys(order)
	sortedGroups := make([][]float64, len(keys))
	for i, k := range keys {
		sortedGroups[i] = groups[idx[k]]
	}
	bins := histogram(sortedGroups, a.opt.Bins)

	f := figure.New(NameDtiRatio, figure.KindHistogram, TitleDtiRatio)
	f.XLabel, f.YLabel = ColDTI, "Density"
	for i, k := range keys {
		f.AddSeries(figure.Series{Name: k, Values: sortedGroups[i], Bins: bins[i]})
	}
	if nonFinite > 0 {
		f.Notef("%d records with non-finite %s excluded (%s is zero or missing)", nonFinite, ColDTI, ColIncome)
	}
	a.cache(ColDTI, ratios)
	return f, nil
}

// PlotDependentsImpact stacks the approval split per number of dependents.
func (a *Analyzer) PlotDependentsImpact() (*figure.Figure, error) {
	return a.approvalFigure(NameDependentsImpact, TitleDependentsImpact, ColDependents, figure.KindStackedBar)
}

// PlotCibilVsIncome overlays filled density curves of cibil_score per loan_status.
func (a *Analyzer) PlotCibilVsIncome() (*figure.Figure, error) {
	if err := a.require(NameCibilVsIncome, ColStatus, ColCibil); err != nil {
		return nil, err
	}
	keys, groups := a.groupValues(ColCibil, ColStatus)
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	f := figure.New(NameCibilVsIncome, figure.KindDensity, TitleCibilVsIncome)
	f.XLabel, f.YLabel = ColCibil, "Density"
	for i, k := range keys {
		xs, ys := kde(groups[i], float64(len(groups[i]))/float64(total), a.opt.KDEPoints, a.opt.BandwidthAdjust)
		if xs == nil {
			f.Notef("%s=%s skipped: needs at least two distinct %s values", ColStatus, k, ColCibil)
			continue
		}
		f.AddSeries(figure.Series{Name: k, X: xs, Y: ys, Fill: true})
	}
	if len(f.Series) == 0 {
		return nil, fmt.Errorf("%s: not enough %s data for a density estimate", NameCibilVsIncome, ColCibil)
	}
	return f, nil
}

// PlotSelfEmployedApproval draws grouped approval percentages per self_employed value.
func (a *Analyzer) PlotSelfEmployedApproval() (*figure.Figure, error) {
	return a.approvalFigure(NameSelfEmployedApproval, TitleSelfEmployedApproval, ColSelfEmployed, figure.KindGroupedBar)
}

// PlotEducationApproval draws grouped approval percentages per education value.
func (a *Analyzer) PlotEducationApproval() (*figure.Figure, error) {
	return a.approvalFigure(NameEducationApproval, TitleEducationApproval, ColEducation, figure.KindGroupedBar)
}

func (a *Analyzer) approvalFigure(name, title, rowCol string, kind figure.Kind) (*figure.Figure, error) {
	if err := a.require(name, rowCol, ColStatus); err != nil {
		return nil, err
	}
	ct, err := a.Crosstab(rowCol, ColStatus)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	f := figure.New(name, kind, title)
	f.XLabel, f.YLabel = rowCol, "Percent"
	f.Categories = ct.RowKeys
	for j, status := range ct.ColKeys {
		f.AddSeries(figure.Series{Name: status, Values: ct.Column(j)})
	}
	return f, nil
}
