package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_Flagged(t *testing.T) {
	rec := func(student, course, raw string) Record {
		return defaultAnalyzer.NewRecord(Enrollment{StudentCode: student, CourseCode: course, Section: "1", StudyCode: "C", RawAttendance: raw})
	}
	records := []Record{
		rec("S1", "C1", "P,A,A,A"),
		rec("S1", "C2", "A,A,A,A"),
		rec("S2", "C1", "A,A,A,A,A"),
		rec("S3", "C3", "A,A,A"),
		rec("S3", "C4", "P,,A,A,A"),
		rec("S4", "C1", "P,A,A"),
		rec("S5", "C1", "L,A,A,A"),
	}

	flagged := defaultAnalyzer.Flagged(records, 0)
	codes := make([]string, len(flagged))
	for i, f := range flagged {
		codes[i] = f.StudentCode
	}
	assert.Equal(t, []string{"S2", "S1", "S3", "S5"}, codes)

	s1 := flagged[1]
	assert.Equal(t, 4, s1.MaxConsecutive)
	assert.Equal(t, 2, s1.TotalFlaggedCourses)
	require.Len(t, s1.Courses, 2)
	assert.Equal(t, "C2", s1.Courses[0].CourseCode)
	assert.Equal(t, "C1", s1.Courses[1].CourseCode)

	s3 := flagged[2]
	assert.Equal(t, []Outcome{Present, Absent, Absent, Absent}, s3.Courses[1].LastStatuses)
	assert.Equal(t, 5, s3.Courses[1].TotalSessions)
	assert.Equal(t, Rate(75), s3.Courses[1].AbsenceRate)

	t.Run("custom minimum", func(t *testing.T) {
		assert.Len(t, defaultAnalyzer.Flagged(records, 2), 5)
		assert.Len(t, defaultAnalyzer.Flagged(records, 5), 1)
		assert.Empty(t, defaultAnalyzer.Flagged(records, 6))
	})
}
