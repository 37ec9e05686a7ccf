package analysis

// Column names of the loan-approval dataset.
const (
	ColStatus       = "loan_status"
	ColIncome       = "income_annum"
	ColLoanAmount   = "loan_amount"
	ColDependents   = "no_of_dependents"
	ColCibil        = "cibil_score"
	ColSelfEmployed = "self_employed"
	ColEducation    = "education"
	// ColDTI is derived by PlotDtiRatio and cached on the analyzer's copy.
	ColDTI = "dti_ratio"
)

// Options controls the statistics behind the charts.
type Options struct {
	// Bins is the histogram bin count; 0 selects the numpy "auto" rule.
	Bins int
	// KDEPoints is the number of grid points per density curve.
	KDEPoints int
	// BandwidthAdjust scales the Scott bandwidth.
	BandwidthAdjust float64
	// StrictRatio turns a zero denominator into DivisionUndefinedError
	// instead of propagating +Inf/NaN.
	StrictRatio bool
	// WhiskerCoef is the IQR multiplier for box whiskers.
	WhiskerCoef float64
}

// DefaultOptions returns reasonable defaults for chart statistics.
func DefaultOptions() Options {
	return Options{
		KDEPoints:       200,
		BandwidthAdjust: 1,
		WhiskerCoef:     1.5,
	}
}

// Option mutates Options during construction.
type Option func(*Options)

// WithBins sets the histogram bin count; 0 keeps the automatic rule.
func WithBins(n int) Option { return func(o *Options) { o.Bins = n } }

// WithKDEPoints sets the number of grid points per density curve.
func WithKDEPoints(n int) Option { return func(o *Options) { o.KDEPoints = n } }

// WithBandwidthAdjust scales the KDE bandwidth.
func WithBandwidthAdjust(f float64) Option { return func(o *Options) { o.BandwidthAdjust = f } }

// WithStrictRatio makes a zero income fail dti_ratio instead of yielding +Inf/NaN.
func WithStrictRatio(strict bool) Option { return func(o *Options) { o.StrictRatio = strict } }

// WithOptions replaces all options at once (the CLI builds them from config).
func WithOptions(opt Options) Option { return func(o *Options) { *o = opt } }

func (o *Options) normalize() {
	if o.Bins < 0 {
		o.Bins = 0
	}
	if o.KDEPoints < 2 {
		o.KDEPoints = 200
	}
	if o.BandwidthAdjust <= 0 {
		o.BandwidthAdjust = 1
	}
	if o.WhiskerCoef <= 0 {
		o.WhiskerCoef = 1.5
	}
}
