package attendance

import (
	"strconv"
	"strings"

	"github.com/trezcool/mahudhurio/core"
)

// Outcome is what was recorded for one student at one session.
type Outcome uint8

const (
	Unchecked Outcome = iota
	Present
	Absent
	Late
	Leave
)

var outcomeCodes = [...]string{
	Unchecked: "",
	Present:   "P",
	Absent:    "A",
	Late:      "L",
	Leave:     "S",
}

// ParseOutcome classifies a single token. ok is false for non-empty tokens outside P/A/L/S.
func ParseOutcome(token string) (o Outcome, ok bool) {
	switch strings.ToUpper(token) {
	case "":
		return Unchecked, true
	case "P":
		return Present, true
	case "A":
		return Absent, true
	case "L":
		return Late, true
	case "S":
		return Leave, true
	}
	return Unchecked, false
}

func (o Outcome) String() string {
	if int(o) < len(outcomeCodes) {
		return outcomeCodes[o]
	}
	return ""
}

// Checked reports whether anything was recorded.
func (o Outcome) Checked() bool {
	return o != Unchecked
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	*o, _ = ParseOutcome(string(text))
	return nil
}

// StudyMode distinguishes lecture sections from lab sections.
type StudyMode string

const (
	Lecture StudyMode = "C"
	Lab     StudyMode = "L"
)

func (m StudyMode) IsValid() bool {
	return m == Lecture || m == Lab
}

func (m StudyMode) Label() string {
	switch m {
	case Lecture:
		return "lecture"
	case Lab:
		return "lab"
	}
	return string(m)
}

type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskMonitor  RiskLevel = "monitor"
	RiskFollowUp RiskLevel = "follow_up"
	RiskNormal   RiskLevel = "normal"
)

// RiskLevels lists every tier, most severe first.
var RiskLevels = []RiskLevel{RiskCritical, RiskMonitor, RiskFollowUp, RiskNormal}

func (r RiskLevel) IsValid() bool {
	return r.Rank() >= 0
}

// Rank orders tiers: Normal < FollowUp < Monitor < Critical. Unknown tiers rank -1.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskNormal:
		return 0
	case RiskFollowUp:
		return 1
	case RiskMonitor:
		return 2
	case RiskCritical:
		return 3
	}
	return -1
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Rate is a percentage kept at full precision and rounded to one decimal when marshalled.
type Rate float64

// Round1 returns the rate rounded to one decimal place.
func (r Rate) Round1() Rate {
	return Rate(core.Round(float64(r), 1))
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(r.Round1()), 'f', -1, 64), nil
}
