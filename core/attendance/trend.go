package attendance

import (
	"github.com/trezcool/mahudhurio/core"
)

// DetectTrend compares the mean of the first third of the session rates with the mean of the last third.
func (a *Analyzer) DetectTrend(rates []float64) Trend {
	n := len(rates)
	if n < 3 {
		return TrendStable
	}
	third := (n + 2) / 3
	early := core.Mean(rates[:third])
	late := core.Mean(rates[n-third:])

	switch diff := late - early; {
	case diff > a.opts.TrendDiffThreshold:
		return TrendUp
	case diff < -a.opts.TrendDiffThreshold:
		return TrendDown
	default:
		return TrendStable
	}
}
