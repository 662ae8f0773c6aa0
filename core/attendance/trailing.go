package attendance

// TrailingAbsences returns the length of the latest unbroken run of Absent outcomes.
// Unchecked sessions are skipped, unless UncheckedBreaksRun is set and the run has started.
func (a *Analyzer) TrailingAbsences(sessions []Outcome) int {
	run := 0
	for i := len(sessions) - 1; i >= 0; i-- {
		switch sessions[i] {
		case Absent:
			run++
		case Unchecked:
			if a.opts.UncheckedBreaksRun && run > 0 {
				return run
			}
		default:
			return run
		}
	}
	return run
}

// CheckedOutcomes returns the sessions with a recorded outcome, in order.
func CheckedOutcomes(sessions []Outcome) []Outcome {
	out := make([]Outcome, 0, len(sessions))
	for _, o := range sessions {
		if o.Checked() {
			out = append(out, o)
		}
	}
	return out
}
