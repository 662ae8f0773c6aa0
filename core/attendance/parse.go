package attendance

import (
	"strings"

	"github.com/trezcool/mahudhurio/core"
)

// Parsed is one raw attendance string turned into outcomes, counts and rates.
type Parsed struct {
	Sessions []Outcome `json:"sessions"`

	// Total excludes malformed tokens unless Options.MalformedAsUnchecked is set.
	Total     int `json:"totalSessions"`
	Present   int `json:"presentCount"`
	Absent    int `json:"absentCount"`
	Late      int `json:"lateCount"`
	Leave     int `json:"leaveCount"`
	Unchecked int `json:"uncheckedCount"`
	Malformed int `json:"malformedCount"`

	AttendanceRate Rate `json:"attendanceRate"`
	AbsenceRate    Rate `json:"absenceRate"`
}

// Valid returns the number of sessions with a recorded outcome.
func (p Parsed) Valid() int {
	return p.Total - p.Unchecked
}

const tokenCutset = "\"' \t\r\n"

// Parse splits a comma separated attendance string into sessions.
// Unknown tokens keep their slot as Unchecked so session indexes stay aligned.
func (a *Analyzer) Parse(raw string) Parsed {
	var p Parsed
	if strings.Trim(raw, tokenCutset) == "" {
		p.Sessions = []Outcome{}
		return p
	}

	tokens := strings.Split(raw, ",")
	p.Sessions = make([]Outcome, len(tokens))
	for i, tok := range tokens {
		o, ok := ParseOutcome(strings.Trim(tok, tokenCutset))
		p.Sessions[i] = o
		if !ok {
			p.Malformed++
			if !a.opts.MalformedAsUnchecked {
				continue
			}
		}
		switch o {
		case Present:
			p.Present++
		case Absent:
			p.Absent++
		case Late:
			p.Late++
		case Leave:
			p.Leave++
		default:
			p.Unchecked++
		}
	}

	p.Total = len(p.Sessions)
	if !a.opts.MalformedAsUnchecked {
		p.Total -= p.Malformed
	}
	valid := p.Valid()
	p.AttendanceRate = Rate(core.Percent(p.Present, valid))
	p.AbsenceRate = Rate(core.Percent(p.Absent, valid))
	return p
}

// HasNoChecks reports whether no session carries a recorded outcome.
func HasNoChecks(sessions []Outcome) bool {
	for _, o := range sessions {
		if o.Checked() {
			return false
		}
	}
	return true
}
