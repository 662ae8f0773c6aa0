package attendance

import (
	"sort"

	"github.com/trezcool/mahudhurio/core"
)

type (
	Student struct {
		StudentCode  string   `json:"studentCode"`
		StudentName  string   `json:"studentName"`
		Faculty      string   `json:"faculty"`
		Department   string   `json:"department"`
		YearLevel    int      `json:"yearLevel"`
		AdvisorName  string   `json:"advisorName"`
		AdvisorEmail string   `json:"-"`
		GPA          *float64 `json:"gpa"`

		TotalCourses        int       `json:"totalCourses"`
		TotalSessions       int       `json:"totalSessions"`
		TotalAbsences       int       `json:"totalAbsences"`
		TotalLate           int       `json:"totalLate"`
		AvgAttendanceRate   Rate      `json:"avgAttendanceRate"`
		AvgAbsenceRate      Rate      `json:"avgAbsenceRate"`
		RiskLevel           RiskLevel `json:"riskLevel"`
		CoursesAtRisk       int       `json:"coursesAtRisk"`
		MaxTrailingAbsences int       `json:"maxTrailingAbsences"`

		Records []Record `json:"records,omitempty"`
	}

	CourseKey struct {
		CourseCode   string `json:"courseCode"`
		RevisionCode string `json:"revisionCode"`
		Section      string `json:"section"`
		StudyCode    string `json:"studyCode"`
	}

	Course struct {
		CourseKey
		CourseName string `json:"courseName"`
		Instructor string `json:"instructor"`
		Faculty    string `json:"faculty"`

		TotalStudents       int           `json:"totalStudents"`
		StudentsHighAbsence int           `json:"studentsHighAbsence"`
		AvgAttendanceRate   Rate          `json:"avgAttendanceRate"`
		AvgAbsenceRate      Rate          `json:"avgAbsenceRate"`
		HasNoChecks         bool          `json:"hasNoChecks"`
		Matrix              SessionMatrix `json:"matrix"`
		Trend               Trend         `json:"trend"`
	}
)

func (k CourseKey) less(o CourseKey) bool {
	if k.CourseCode != o.CourseCode {
		return k.CourseCode < o.CourseCode
	}
	if k.RevisionCode != o.RevisionCode {
		return k.RevisionCode < o.RevisionCode
	}
	if k.Section != o.Section {
		return k.Section < o.Section
	}
	return k.StudyCode < o.StudyCode
}

// sortRecords orders records by absence rate (descending), then by course.
func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ri, rj := records[i], records[j]
		if ri.AbsenceRate != rj.AbsenceRate {
			return ri.AbsenceRate > rj.AbsenceRate
		}
		return ri.CourseKey().less(rj.CourseKey())
	})
}

// Students groups records by student code. Students are ordered by average absence rate
// (descending), then by student code.
func (a *Analyzer) Students(records []Record) []Student {
	var codes []string
	byCode := make(map[string][]Record)
	for _, r := range records {
		if _, ok := byCode[r.StudentCode]; !ok {
			codes = append(codes, r.StudentCode)
		}
		byCode[r.StudentCode] = append(byCode[r.StudentCode], r)
	}

	students := make([]Student, 0, len(codes))
	for _, code := range codes {
		students = append(students, a.Student(byCode[code]))
	}
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].AvgAbsenceRate != students[j].AvgAbsenceRate {
			return students[i].AvgAbsenceRate > students[j].AvgAbsenceRate
		}
		return students[i].StudentCode < students[j].StudentCode
	})
	return students
}

// Student aggregates the records of a single student. Each course weighs the same in the averages.
func (a *Analyzer) Student(records []Record) Student {
	recs := make([]Record, len(records))
	copy(recs, records)

	var s Student
	attendance := make([]float64, 0, len(recs))
	absence := make([]float64, 0, len(recs))
	for _, r := range recs {
		s.StudentCode = core.FirstNonEmpty(s.StudentCode, r.StudentCode)
		s.StudentName = core.FirstNonEmpty(s.StudentName, r.StudentName)
		s.Faculty = core.FirstNonEmpty(s.Faculty, r.Faculty)
		s.Department = core.FirstNonEmpty(s.Department, r.Department)
		s.AdvisorName = core.FirstNonEmpty(s.AdvisorName, r.AdvisorName)
		s.AdvisorEmail = core.FirstNonEmpty(s.AdvisorEmail, r.AdvisorEmail)
		if s.YearLevel == 0 {
			s.YearLevel = r.YearLevel
		}
		if s.GPA == nil {
			s.GPA = r.GPA
		}

		s.TotalSessions += r.Total
		s.TotalAbsences += r.Absent
		s.TotalLate += r.Late
		if a.IsHighAbsence(float64(r.AbsenceRate)) {
			s.CoursesAtRisk++
		}
		if r.TrailingAbsences > s.MaxTrailingAbsences {
			s.MaxTrailingAbsences = r.TrailingAbsences
		}
		attendance = append(attendance, float64(r.AttendanceRate))
		absence = append(absence, float64(r.AbsenceRate))
	}

	sortRecords(recs)
	s.Records = recs
	s.TotalCourses = len(recs)
	s.AvgAttendanceRate = Rate(core.Mean(attendance))
	s.AvgAbsenceRate = Rate(core.Mean(absence))
	s.RiskLevel = a.Classify(float64(s.AvgAbsenceRate))
	return s
}

// Course aggregates the records of one course section.
func (a *Analyzer) Course(records []Record) Course {
	var c Course
	attendance := make([]float64, 0, len(records))
	absence := make([]float64, 0, len(records))
	c.HasNoChecks = true
	students := make(map[string]struct{}, len(records))
	for i, r := range records {
		if i == 0 {
			c.CourseKey = r.CourseKey()
		}
		c.CourseName = core.FirstNonEmpty(c.CourseName, r.CourseName)
		c.Instructor = core.FirstNonEmpty(c.Instructor, r.Instructor)
		c.Faculty = core.FirstNonEmpty(c.Faculty, r.Faculty)

		students[r.StudentCode] = struct{}{}
		if a.IsHighAbsence(float64(r.AbsenceRate)) {
			c.StudentsHighAbsence++
		}
		if !HasNoChecks(r.Sessions) {
			c.HasNoChecks = false
		}
		attendance = append(attendance, float64(r.AttendanceRate))
		absence = append(absence, float64(r.AbsenceRate))
	}

	c.Faculty = a.unspecified(c.Faculty)
	c.TotalStudents = len(students)
	c.AvgAttendanceRate = Rate(core.Mean(attendance))
	c.AvgAbsenceRate = Rate(core.Mean(absence))
	c.Matrix = a.BuildMatrix(records)
	c.Trend = a.DetectTrend(c.Matrix.RateValues())
	return c
}

// Courses groups records by course section, ordered by course code, revision, section and study code.
func (a *Analyzer) Courses(records []Record) []Course {
	keys, byKey := GroupByCourse(records)
	courses := make([]Course, len(keys))
	for i, k := range keys {
		courses[i] = a.Course(byKey[k])
	}
	return courses
}

// GroupByCourse splits records per course section, in the same order as Courses.
func GroupByCourse(records []Record) ([]CourseKey, map[CourseKey][]Record) {
	var keys []CourseKey
	byKey := make(map[CourseKey][]Record)
	for _, r := range records {
		k := r.CourseKey()
		if _, ok := byKey[k]; !ok {
			keys = append(keys, k)
		}
		byKey[k] = append(byKey[k], r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys, byKey
}
