package attendance

// Classify maps an absence rate (0-100) to a risk tier. Lower bounds are inclusive.
func (a *Analyzer) Classify(absenceRate float64) RiskLevel {
	switch {
	case absenceRate >= a.opts.CriticalAt:
		return RiskCritical
	case absenceRate >= a.opts.MonitorAt:
		return RiskMonitor
	case absenceRate >= a.opts.FollowUpAt:
		return RiskFollowUp
	default:
		return RiskNormal
	}
}

// IsHighAbsence reports whether a record's absence rate counts as high.
func (a *Analyzer) IsHighAbsence(absenceRate float64) bool {
	return absenceRate >= a.opts.HighAbsenceAt
}
