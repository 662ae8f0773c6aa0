package attendance

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
)

func gpa(f float64) *float64 { return &f }

func fixtureEnrollments() []Enrollment {
	return []Enrollment{
		{StudentCode: "6501", StudentName: "Anong", Faculty: "Science", AdvisorName: "Dr. Somchai", YearLevel: 2, GPA: gpa(2.5),
			CourseCode: "CS101", RevisionCode: "1", Section: "1", StudyCode: "C", CourseName: "Programming", RawAttendance: "A,A,P,P,P"},
		{StudentCode: "6501", CourseCode: "MA101", Section: "2", StudyCode: "C", Faculty: "Science", CourseName: "Calculus", RawAttendance: "P,P,P,P,P"},
		{StudentCode: "6502", StudentName: "Boon", Faculty: "arts", AdvisorName: "", YearLevel: 1,
			CourseCode: "CS101", RevisionCode: "1", Section: "1", StudyCode: "C", RawAttendance: "P,A,A,A,"},
		{StudentCode: "6503", StudentName: "Chai", Faculty: "", AdvisorName: "Dr. Anan",
			CourseCode: "CS101", RevisionCode: "1", Section: "1", StudyCode: "C", RawAttendance: "P,P,P,P,P,P"},
		{StudentCode: "6503", CourseCode: "PH101", Section: "1", StudyCode: "L", Instructor: "Dr. Wit", RawAttendance: ",,,"},
	}
}

func fixtureRecords(t *testing.T) []Record {
	t.Helper()
	recs, err := defaultAnalyzer.Records(fixtureEnrollments())
	require.NoError(t, err)
	return recs
}

func TestValidate(t *testing.T) {
	enrollments := fixtureEnrollments()
	enrollments[1].StudentCode = "  "
	enrollments[3].CourseCode = ""

	_, err := defaultAnalyzer.Records(enrollments)
	require.Error(t, err)
	require.True(t, core.IsValidation(err))

	verr := err.(*core.ValidationError)
	assert.Equal(t, []core.FieldError{
		{Field: "records[1].studentCode", Error: "this field cannot be blank"},
		{Field: "records[3].courseCode", Error: "this field cannot be blank"},
	}, verr.Fields)

	assert.NoError(t, Validate(nil))
}

func TestValidate_identity(t *testing.T) {
	tests := []struct {
		name      string
		edit      func(e *Enrollment)
		wantField string
		wantError string
	}{
		{name: "lecture", edit: func(e *Enrollment) { e.StudyCode = "C" }},
		{name: "lab", edit: func(e *Enrollment) { e.StudyCode = "L" }},
		{name: "no study code", edit: func(e *Enrollment) { e.StudyCode = "" }},
		{name: "top gpa", edit: func(e *Enrollment) { e.GPA = gpa(4) }},
		{name: "unknown study code", edit: func(e *Enrollment) { e.StudyCode = "S" }, wantField: "studyCode", wantError: "studyCode must be one of"},
		{
			name:      "long student code",
			edit:      func(e *Enrollment) { e.StudentCode = strings.Repeat("6", 33) },
			wantField: "studentCode",
			wantError: "studentCode must be a maximum of 32",
		},
		{name: "long section", edit: func(e *Enrollment) { e.Section = strings.Repeat("1", 17) }, wantField: "section", wantError: "section must be a maximum of 16"},
		{name: "gpa out of scale", edit: func(e *Enrollment) { e.GPA = gpa(12.5) }, wantField: "gpa", wantError: "gpa must be less than 10"},
		{name: "negative gpa", edit: func(e *Enrollment) { e.GPA = gpa(-1) }, wantField: "gpa", wantError: "gpa must be 0 or greater"},
		{name: "negative year level", edit: func(e *Enrollment) { e.YearLevel = -2 }, wantField: "yearLevel", wantError: "yearLevel must be 0 or greater"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enrollments := fixtureEnrollments()
			tt.edit(&enrollments[2])

			err := Validate(enrollments)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			verr, ok := err.(*core.ValidationError)
			require.True(t, ok)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, "records[2]."+tt.wantField, verr.Fields[0].Field)
			assert.Contains(t, verr.Fields[0].Error, tt.wantError)
		})
	}
}

func TestAnalyzer_Students(t *testing.T) {
	students := defaultAnalyzer.Students(fixtureRecords(t))
	require.Len(t, students, 3)

	// 6502: 3 absences out of 4 valid sessions
	assert.Equal(t, "6502", students[0].StudentCode)
	assert.Equal(t, Rate(75), students[0].AvgAbsenceRate)
	assert.Equal(t, RiskCritical, students[0].RiskLevel)
	assert.Equal(t, 3, students[0].MaxTrailingAbsences)
	assert.Equal(t, 1, students[0].CoursesAtRisk)

	// 6501: (40 + 0) / 2, each course weighs the same
	s := students[1]
	assert.Equal(t, "6501", s.StudentCode)
	assert.Equal(t, "Anong", s.StudentName)
	assert.Equal(t, "Dr. Somchai", s.AdvisorName)
	assert.Equal(t, 2, s.YearLevel)
	assert.Equal(t, 2.5, *s.GPA)
	assert.Equal(t, Rate(20), s.AvgAbsenceRate)
	assert.Equal(t, Rate(80), s.AvgAttendanceRate)
	assert.Equal(t, RiskMonitor, s.RiskLevel)
	assert.Equal(t, 1, s.CoursesAtRisk)
	assert.Equal(t, 2, s.TotalCourses)
	assert.Equal(t, 10, s.TotalSessions)
	assert.Equal(t, 2, s.TotalAbsences)
	require.Len(t, s.Records, 2)
	assert.Equal(t, "CS101", s.Records[0].CourseCode, "records ordered by absence rate")

	// 6503: one fully present course and one without any check
	assert.Equal(t, "6503", students[2].StudentCode)
	assert.Equal(t, RiskNormal, students[2].RiskLevel)
	assert.Equal(t, Rate(0), students[2].AvgAbsenceRate)
}

func TestAnalyzer_Courses(t *testing.T) {
	courses := defaultAnalyzer.Courses(fixtureRecords(t))
	require.Len(t, courses, 3)

	assert.Equal(t, CourseKey{CourseCode: "CS101", RevisionCode: "1", Section: "1", StudyCode: "C"}, courses[0].CourseKey)
	assert.Equal(t, "MA101", courses[1].CourseCode)
	assert.Equal(t, "PH101", courses[2].CourseCode)

	cs := courses[0]
	assert.Equal(t, 3, cs.TotalStudents)
	assert.Equal(t, 2, cs.StudentsHighAbsence) // 40 and 75
	assert.Equal(t, "Programming", cs.CourseName)
	assert.Equal(t, "Science", cs.Faculty)
	assert.False(t, cs.HasNoChecks)
	assert.Equal(t, 6, len(cs.Matrix.Cells))
	assert.Equal(t, 6, cs.Matrix.ValidSessions)

	ph := courses[2]
	assert.True(t, ph.HasNoChecks)
	assert.Equal(t, "unspecified", ph.Faculty)
	assert.Equal(t, TrendStable, ph.Trend)
	assert.Empty(t, ph.Matrix.Rates)
}

func TestPipeline_idempotent(t *testing.T) {
	run := func() []byte {
		recs := fixtureRecords(t)
		students := defaultAnalyzer.Students(recs)
		courses := defaultAnalyzer.Courses(recs)
		out := map[string]interface{}{
			"students": students,
			"courses":  courses,
			"flagged":  defaultAnalyzer.Flagged(recs, 0),
			"tree":     defaultAnalyzer.FacultyAdvisorTree(students, -1),
			"rollup":   defaultAnalyzer.FacultyCourseRollup(courses),
		}
		b, err := json.Marshal(out)
		require.NoError(t, err)
		return b
	}

	first := run()
	for i := 0; i < 5; i++ {
		assert.Equal(t, string(first), string(run()))
	}
}
