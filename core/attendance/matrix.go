package attendance

import (
	"github.com/trezcool/mahudhurio/core"
)

type (
	// SessionCell aggregates every enrolled student's outcome at one session index.
	SessionCell struct {
		Present int `json:"present"`
		Absent  int `json:"absent"`
		Late    int `json:"late"`
		Leave   int `json:"leave"`
		Total   int `json:"total"`
	}

	SessionRate struct {
		Session    int  `json:"session"` // 1-based
		Rate       Rate `json:"rate"`
		SampleSize int  `json:"sampleSize"`
	}

	SessionMatrix struct {
		Cells         []SessionCell `json:"cells"`
		Rates         []SessionRate `json:"sessionRates"`
		ValidSessions int           `json:"validSessions"`
		OverallRate   Rate          `json:"overallRate"`
		LatestRate    Rate          `json:"latestRate"`
	}
)

func (c *SessionCell) add(o Outcome) {
	switch o {
	case Present:
		c.Present++
	case Absent:
		c.Absent++
	case Late:
		c.Late++
	case Leave:
		c.Leave++
	default:
		return
	}
	c.Total++
}

// RateValues returns the valid session rates in order.
func (m SessionMatrix) RateValues() []float64 {
	vals := make([]float64, len(m.Rates))
	for i, r := range m.Rates {
		vals[i] = float64(r.Rate)
	}
	return vals
}

func (a *Analyzer) cellRate(c SessionCell) float64 {
	var attended int
	if a.opts.CountPresent {
		attended += c.Present
	}
	if a.opts.CountLate {
		attended += c.Late
	}
	if a.opts.CountLeave {
		attended += c.Leave
	}
	return core.Round(core.Percent(attended, c.Total), 1)
}

// BuildMatrix aligns the sessions of every record of one course section by index.
// Trailing cells nobody has data for are trimmed.
func (a *Analyzer) BuildMatrix(records []Record) SessionMatrix {
	width := 0
	for _, r := range records {
		if len(r.Sessions) > width {
			width = len(r.Sessions)
		}
	}

	cells := make([]SessionCell, width)
	for _, r := range records {
		for i, o := range r.Sessions {
			cells[i].add(o)
		}
	}

	last := len(cells) - 1
	for last >= 0 && cells[last].Total == 0 {
		last--
	}
	cells = cells[:last+1]

	m := SessionMatrix{Cells: cells, Rates: []SessionRate{}}
	rates := make([]float64, 0, len(cells))
	for i, c := range cells {
		if c.Total == 0 {
			continue
		}
		rate := a.cellRate(c)
		m.Rates = append(m.Rates, SessionRate{Session: i + 1, Rate: Rate(rate), SampleSize: c.Total})
		rates = append(rates, rate)
	}

	m.ValidSessions = len(rates)
	if m.ValidSessions > 0 {
		m.OverallRate = Rate(core.Mean(rates))
		m.LatestRate = Rate(rates[len(rates)-1])
	}
	return m
}
