package report

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

const (
	allValues = "all"

	maxLimit            = 200
	defaultStudentLimit = 50
	defaultCourseLimit  = 20
)

type (
	StudentFilter struct {
		RiskLevel string `query:"riskLevel" validate:"omitempty,risklevel"`
		Faculty   string `query:"faculty"`
		YearLevel int    `query:"yearLevel" validate:"gte=0"`
		Advisor   string `query:"advisor"`
		Search    string `query:"search"`
		Page      int    `query:"page" validate:"gte=0"`
		Limit     int    `query:"limit" validate:"gte=0,lte=200"`
	}

	CourseFilter struct {
		Q              string `query:"q"`
		StudyCode      string `query:"studyCode" validate:"omitempty,studycode"`
		HasNoChecks    *bool  `query:"hasNoChecks"`
		MinHighAbsence int    `query:"minHighAbsence" validate:"gte=0"`
		Limit          int    `query:"limit" validate:"gte=0,lte=200"`
		Offset         int    `query:"offset" validate:"gte=0"`
	}

	ReportFilter struct {
		Faculty string `query:"faculty"`
		CountP  *bool  `query:"countP"`
		CountL  *bool  `query:"countL"`
		CountS  *bool  `query:"countS"`
		Limit   int    `query:"limit" validate:"gte=0,lte=200"`
		Offset  int    `query:"offset" validate:"gte=0"`
	}

	FlaggedFilter struct {
		Min int `query:"min" validate:"gte=0"`
	}

	FacultyReportFilter struct {
		Faculty        string   `query:"faculty"`
		MinAbsenceRate *float64 `query:"minAbsenceRate" validate:"omitempty,gte=0,lte=100"`
	}
)

func validateFilter(v *validator.Validate, filter interface{}, name string) error {
	if err := v.Struct(filter); err != nil {
		return errors.Wrap(err, "validating "+name)
	}
	return nil
}

func (f StudentFilter) Validate(v *validator.Validate) error {
	return validateFilter(v, f, "StudentFilter")
}

func (f CourseFilter) Validate(v *validator.Validate) error {
	return validateFilter(v, f, "CourseFilter")
}

func (f ReportFilter) Validate(v *validator.Validate) error {
	return validateFilter(v, f, "ReportFilter")
}

func (f FlaggedFilter) Validate(v *validator.Validate) error {
	return validateFilter(v, f, "FlaggedFilter")
}

func (f FacultyReportFilter) Validate(v *validator.Validate) error {
	return validateFilter(v, f, "FacultyReportFilter")
}

// selected returns the trimmed value, or "" when it selects everything.
func selected(val string) string {
	val = core.CleanString(val)
	if strings.EqualFold(val, allValues) {
		return ""
	}
	return val
}

func clampLimit(limit, def int) int {
	switch {
	case limit <= 0:
		return def
	case limit > maxLimit:
		return maxLimit
	}
	return limit
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func containsFold(s, substr string) bool {
	return strings.Contains(core.CleanString(s, true), core.CleanString(substr, true))
}

// matchesLabel reports whether a stored label equals the selected one, ignoring surrounding blanks.
func matchesLabel(stored, selected string) bool {
	return selected == "" || core.CleanString(stored) == selected
}
