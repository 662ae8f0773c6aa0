package attendance

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/trezcool/mahudhurio/core"
)

// Options holds every threshold and policy of the engine.
type Options struct {
	// risk tiers, lower bounds inclusive
	CriticalAt float64
	MonitorAt  float64
	FollowUpAt float64

	// a record at or above this absence rate counts towards coursesAtRisk / studentsHighAbsence
	HighAbsenceAt float64

	TrendDiffThreshold     float64
	MinConsecutiveAbsences int
	MinAbsenceRate         float64

	// categories counted as "attended" in session rates
	CountPresent bool
	CountLate    bool
	CountLeave   bool

	// UncheckedBreaksRun ends a trailing absence run at an unchecked session found inside it.
	UncheckedBreaksRun bool
	// MalformedAsUnchecked counts unknown tokens as unchecked sessions instead of leaving them out of the total.
	MalformedAsUnchecked bool

	UnspecifiedLabel string
	CollationLocale  string
}

func DefaultOptions() Options {
	return Options{
		CriticalAt:             40,
		MonitorAt:              20,
		FollowUpAt:             10,
		HighAbsenceAt:          20,
		TrendDiffThreshold:     5,
		MinConsecutiveAbsences: 3,
		MinAbsenceRate:         10,
		CountPresent:           true,
		CountLate:              true,
		UnspecifiedLabel:       "unspecified",
		CollationLocale:        "th",
	}
}

// OptionsFromConfig converts the analytics section of the app config.
func OptionsFromConfig(conf core.AnalyticsConfig) Options {
	opts := Options{
		CriticalAt:             conf.CriticalAt,
		MonitorAt:              conf.MonitorAt,
		FollowUpAt:             conf.FollowUpAt,
		HighAbsenceAt:          conf.HighAbsenceAt,
		TrendDiffThreshold:     conf.TrendDiffThreshold,
		MinConsecutiveAbsences: conf.MinConsecutiveAbsences,
		MinAbsenceRate:         conf.MinAbsenceRate,
		CountPresent:           conf.CountPresent,
		CountLate:              conf.CountLate,
		CountLeave:             conf.CountLeave,
		UncheckedBreaksRun:     conf.UncheckedBreaksRun,
		MalformedAsUnchecked:   conf.MalformedAsUnchecked,
		UnspecifiedLabel:       strings.TrimSpace(conf.UnspecifiedLabel),
		CollationLocale:        strings.TrimSpace(conf.CollationLocale),
	}
	def := DefaultOptions()
	if opts.UnspecifiedLabel == "" {
		opts.UnspecifiedLabel = def.UnspecifiedLabel
	}
	if opts.CollationLocale == "" {
		opts.CollationLocale = def.CollationLocale
	}
	return opts
}

func (o Options) Validate() error {
	var fields []core.FieldError
	addErr := func(field, msg string) {
		fields = append(fields, core.FieldError{Field: field, Error: msg})
	}
	isPercent := func(f float64) bool { return f >= 0 && f <= 100 }

	percents := []struct {
		field string
		val   float64
	}{
		{"criticalAt", o.CriticalAt},
		{"monitorAt", o.MonitorAt},
		{"followUpAt", o.FollowUpAt},
		{"highAbsenceAt", o.HighAbsenceAt},
		{"minAbsenceRate", o.MinAbsenceRate},
	}
	for _, p := range percents {
		if !isPercent(p.val) {
			addErr(p.field, fmt.Sprintf("must be between 0 and 100, got %v", p.val))
		}
	}
	if o.FollowUpAt > o.MonitorAt || o.MonitorAt > o.CriticalAt {
		addErr("monitorAt", "risk thresholds must satisfy followUpAt <= monitorAt <= criticalAt")
	}
	if o.TrendDiffThreshold < 0 {
		addErr("trendDiffThreshold", "must not be negative")
	}
	if o.MinConsecutiveAbsences < 1 {
		addErr("minConsecutiveAbsences", "must be at least 1")
	}
	if strings.TrimSpace(o.UnspecifiedLabel) == "" {
		addErr("unspecifiedLabel", "this field cannot be blank")
	}
	if _, err := language.Parse(o.CollationLocale); err != nil {
		addErr("collationLocale", fmt.Sprintf("unknown locale %q", o.CollationLocale))
	}

	if len(fields) > 0 {
		return core.NewValidationError(errors.New("invalid analytics options"), fields...)
	}
	return nil
}
