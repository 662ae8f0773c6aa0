package testutil

import (
	"fmt"
	"sync"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

// Logger records log messages instead of printing them.
type Logger struct {
	mu       sync.Mutex
	Messages []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := level + ": " + msg
	for _, arg := range args {
		line += fmt.Sprintf(" | %v", arg)
	}
	l.Messages = append(l.Messages, line)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }

// Lines returns a copy of the recorded messages.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Messages...)
}

// Config returns the app config used in tests.
func Config() *core.Config {
	return &core.Config{
		Debug:           true,
		TestMode:        true,
		AppName:         "Mahudhurio",
		Env:             "TEST",
		FrontendBaseURL: "http://localhost:3000",
		Analytics:       analyticsDefaults(),
		Notify:          core.NotifyConfig{MinConsecutive: 3},
	}
}

func analyticsDefaults() core.AnalyticsConfig {
	opts := attendance.DefaultOptions()
	return core.AnalyticsConfig{
		CriticalAt:             opts.CriticalAt,
		MonitorAt:              opts.MonitorAt,
		FollowUpAt:             opts.FollowUpAt,
		HighAbsenceAt:          opts.HighAbsenceAt,
		TrendDiffThreshold:     opts.TrendDiffThreshold,
		MinConsecutiveAbsences: opts.MinConsecutiveAbsences,
		MinAbsenceRate:         opts.MinAbsenceRate,
		CountPresent:           opts.CountPresent,
		CountLate:              opts.CountLate,
		CountLeave:             opts.CountLeave,
		UnspecifiedLabel:       opts.UnspecifiedLabel,
		CollationLocale:        opts.CollationLocale,
	}
}

func gpa(f float64) *float64 { return &f }

// Enrollments returns a small campus: two faculties, three advisors, four courses.
//
//	6401 Critical  (CS101 75% absent, trailing 3; MA101 50%)
//	6402 Monitor   (CS101 40%; MA101 0%)
//	6403 FollowUp  (CS101 20%, trailing 1; PH101L never checked)
//	6404 Normal    (CS101 0%; EN101 0%)
//	6405 Critical  (EN101 100% absent, trailing 4), no faculty nor advisor
func Enrollments() []attendance.Enrollment {
	cs := func(student, raw string) attendance.Enrollment {
		return attendance.Enrollment{
			StudentCode: student, CourseCode: "CS101.1", RevisionCode: "1", Section: "1", StudyCode: "C",
			CourseName: "Programming I", Instructor: "Dr. Kanya", RawAttendance: raw,
		}
	}
	ma := func(student, raw string) attendance.Enrollment {
		return attendance.Enrollment{
			StudentCode: student, CourseCode: "MA101", Section: "2", StudyCode: "C",
			CourseName: "Calculus", Instructor: "Dr. Preecha", RawAttendance: raw,
		}
	}
	en := func(student, raw string) attendance.Enrollment {
		return attendance.Enrollment{
			StudentCode: student, CourseCode: "EN101", Section: "1", StudyCode: "C",
			CourseName: "English", Instructor: "Ms. Jane", RawAttendance: raw,
		}
	}
	student := func(e attendance.Enrollment, name, faculty, advisor, email string, year int, g *float64) attendance.Enrollment {
		e.StudentName, e.Faculty, e.Department = name, faculty, faculty+" dept"
		e.AdvisorName, e.AdvisorEmail, e.YearLevel, e.GPA = advisor, email, year, g
		e.AcadYear, e.Semester = "2567", "1"
		return e
	}

	return []attendance.Enrollment{
		student(cs("6401", "P,A,A,A"), "Anong", "Science", "Dr. Somchai", "somchai@uni.test", 1, gpa(1.8)),
		student(ma("6401", "P,A,P,A"), "Anong", "Science", "Dr. Somchai", "somchai@uni.test", 1, gpa(1.8)),
		student(cs("6402", "A,A,P,P,P"), "Boon", "Science", "Dr. Somchai", "somchai@uni.test", 2, gpa(2.6)),
		student(ma("6402", "P,P,P,P"), "Boon", "Science", "Dr. Somchai", "somchai@uni.test", 2, gpa(2.6)),
		student(cs("6403", "P,P,P,P,A"), "Chai", "Engineering", "Dr. Anan", "", 3, gpa(3.1)),
		student(attendance.Enrollment{
			StudentCode: "6403", CourseCode: "PH101", Section: "1", StudyCode: "L",
			CourseName: "Physics Lab", RawAttendance: ",,,",
		}, "Chai", "Engineering", "Dr. Anan", "", 3, gpa(3.1)),
		student(cs("6404", "P,L,P,P,P"), "Dao", "Engineering", "Dr. Anan", "", 3, gpa(3.9)),
		student(en("6404", "P,P,P,P"), "Dao", "Engineering", "Dr. Anan", "", 3, gpa(3.9)),
		student(en("6405", "A,A,A,A"), "Ek", "", "", "", 4, nil),
	}
}
