package attendance

// Analyzer runs every engine component with one set of Options.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	opts Options
}

func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

var defaultAnalyzer = NewAnalyzer(DefaultOptions())

// Options returns a copy of the analyzer's options.
func (a *Analyzer) Options() Options {
	return a.opts
}

// WithCategories returns an analyzer counting the given categories as attended in session rates.
func (a *Analyzer) WithCategories(present, late, leave bool) *Analyzer {
	opts := a.opts
	opts.CountPresent, opts.CountLate, opts.CountLeave = present, late, leave
	return NewAnalyzer(opts)
}

func (a *Analyzer) unspecified(s string) string {
	if s == "" {
		return a.opts.UnspecifiedLabel
	}
	return s
}

// Parse parses raw with the default options.
func Parse(raw string) Parsed {
	return defaultAnalyzer.Parse(raw)
}

// TrailingAbsences counts the trailing absence run with the default options.
func TrailingAbsences(sessions []Outcome) int {
	return defaultAnalyzer.TrailingAbsences(sessions)
}

// Classify classifies an absence rate with the default thresholds.
func Classify(absenceRate float64) RiskLevel {
	return defaultAnalyzer.Classify(absenceRate)
}
