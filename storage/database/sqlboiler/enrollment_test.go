package boiledrepos

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core/report"
)

func TestWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    report.EnrollmentFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{name: "no filter", wantWhere: ""},
		{
			name:      "students",
			filter:    report.EnrollmentFilter{StudentCodes: []string{"6401", "6402"}},
			wantWhere: " WHERE student_code = ANY($1)",
			wantArgs:  []interface{}{pq.Array([]string{"6401", "6402"})},
		},
		{
			name:      "one student",
			filter:    report.EnrollmentFilter{StudentCodes: []string{"6401"}},
			wantWhere: " WHERE student_code = ANY($1)",
			wantArgs:  []interface{}{pq.Array([]string{"6401"})},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := whereClause(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestUnboil(t *testing.T) {
	row := &enrollmentRow{
		StudentCode:   "6401",
		CourseCode:    "CS101.1",
		RevisionCode:  "1",
		Section:       "1",
		StudyCode:     "C",
		ClassCheckRaw: "P,A",
		StudentName:   null.StringFrom("Anong"),
		YearLevel:     null.IntFrom(2),
		GPA:           null.Float64From(1.8),
	}
	e := NewEnrollmentReader(nil).unboil(row)

	assert.Equal(t, "6401", e.StudentCode)
	assert.Equal(t, "P,A", e.RawAttendance)
	assert.Equal(t, "Anong", e.StudentName)
	assert.Equal(t, "", e.Faculty)
	assert.Equal(t, 2, e.YearLevel)
	if assert.NotNil(t, e.GPA) {
		assert.Equal(t, 1.8, *e.GPA)
	}

	row.GPA = null.Float64{}
	assert.Nil(t, NewEnrollmentReader(nil).unboil(row).GPA)
}
