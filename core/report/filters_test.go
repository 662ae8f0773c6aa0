package report

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
)

func newValidator() (*validator.Validate, func(error) map[string]string) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	translate := func(err error) map[string]string {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Translate(translator)
		}
		return fields
	}
	return validate, translate
}

func TestFilters_Validate(t *testing.T) {
	validate, translate := newValidator()
	rate := 120.0

	tests := []struct {
		name   string
		filter interface{ Validate(*validator.Validate) error }
		want   map[string]string
	}{
		{name: "empty student filter", filter: StudentFilter{}},
		{name: "all risk levels", filter: StudentFilter{RiskLevel: "all"}},
		{name: "valid risk level", filter: StudentFilter{RiskLevel: "follow_up", Limit: 200}},
		{
			name:   "bad risk level",
			filter: StudentFilter{RiskLevel: "doomed"},
			want:   map[string]string{"riskLevel": "riskLevel must be one of critical, monitor, follow_up, normal or all"},
		},
		{name: "limit too high", filter: StudentFilter{Limit: 201}, want: map[string]string{"limit": ""}},
		{name: "lab courses", filter: CourseFilter{StudyCode: "L"}},
		{
			name:   "bad study code",
			filter: CourseFilter{StudyCode: "X"},
			want:   map[string]string{"studyCode": "studyCode must be one of C (lecture) or L (lab)"},
		},
		{name: "negative offset", filter: ReportFilter{Offset: -1}, want: map[string]string{"offset": ""}},
		{name: "negative minimum", filter: FlaggedFilter{Min: -2}, want: map[string]string{"min": ""}},
		{name: "rate out of range", filter: FacultyReportFilter{MinAbsenceRate: &rate}, want: map[string]string{"minAbsenceRate": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate(validate)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			got := translate(err)
			require.Len(t, got, len(tt.want))
			for field, msg := range tt.want {
				require.Contains(t, got, field)
				if msg != "" {
					assert.Equal(t, msg, got[field])
				}
			}
		})
	}
}

func TestSelected(t *testing.T) {
	assert.Equal(t, "", selected(" all "))
	assert.Equal(t, "", selected("ALL"))
	assert.Equal(t, "Science", selected(" Science "))
}

func TestMatchesLabel(t *testing.T) {
	tests := []struct {
		stored, selected string
		want             bool
	}{
		{stored: "Dr. Anan", selected: "", want: true},
		{stored: "Dr. Anan", selected: "Dr. Anan", want: true},
		{stored: "  Dr. Anan ", selected: "Dr. Anan", want: true},
		{stored: "Dr. Anan", selected: "Dr. Somchai", want: false},
		{stored: "", selected: "Dr. Anan", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.stored+"|"+tt.selected, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesLabel(tt.stored, tt.selected))
		})
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, containsFold("Programming I", "program"))
	assert.True(t, containsFold(" Anong ", " ANO "))
	assert.False(t, containsFold("Calculus", "physics"))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, clampLimit(0, 20))
	assert.Equal(t, 20, clampLimit(-5, 20))
	assert.Equal(t, 7, clampLimit(7, 20))
	assert.Equal(t, maxLimit, clampLimit(1000, 20))
}
