package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

const topAbsentCoursesLen = 10

type (
	RiskCount struct {
		Risk  attendance.RiskLevel `json:"risk"`
		Count int                  `json:"count"`
	}

	RangeCount struct {
		Range string  `json:"range"`
		Min   float64 `json:"min"`
		Max   float64 `json:"max"` // exclusive
		Count int     `json:"count"`
	}

	TopCourse struct {
		Course        string          `json:"course"` // code-section
		CourseName    string          `json:"courseName"`
		Instructor    string          `json:"instructor"`
		StudyCode     string          `json:"studyCode"`
		HighAbsence   int             `json:"highAbsence"`
		TotalStudents int             `json:"totalStudents"`
		AvgAttendance attendance.Rate `json:"avgAttendance"`
	}

	ScatterPoint struct {
		Attendance attendance.Rate      `json:"attendance"`
		Absence    attendance.Rate      `json:"absence"`
		Risk       attendance.RiskLevel `json:"risk"`
	}

	GPAPoint struct {
		GPA     float64              `json:"gpa"`
		Absence attendance.Rate      `json:"absence"`
		Risk    attendance.RiskLevel `json:"risk"`
		Faculty string               `json:"faculty"`
	}

	TierCounts struct {
		Total    int `json:"total"`
		Critical int `json:"critical"`
		Monitor  int `json:"monitor"`
		FollowUp int `json:"followUp"`
		Normal   int `json:"normal"`
	}

	FacultyTierCounts struct {
		Faculty string `json:"faculty"`
		TierCounts
	}

	YearTierCounts struct {
		Year int `json:"year"`
		TierCounts
	}

	Charts struct {
		RiskDistribution    []RiskCount         `json:"riskDistribution"`
		AbsenceDistribution []RangeCount        `json:"absenceDistribution"`
		TopAbsentCourses    []TopCourse         `json:"topAbsentCourses"`
		AttendanceScatter   []ScatterPoint      `json:"attendanceScatter"`
		FacultyDistribution []FacultyTierCounts `json:"facultyDistribution"`
		GPAAbsenceScatter   []GPAPoint          `json:"gpaAbsenceScatter"`
		YearDistribution    []YearTierCounts    `json:"yearDistribution"`
		Summary             struct {
			TotalStudents     int             `json:"totalStudents"`
			AvgAbsenceRate    attendance.Rate `json:"avgAbsenceRate"`
			AvgAttendanceRate attendance.Rate `json:"avgAttendanceRate"`
		} `json:"summary"`
	}
)

func (tc *TierCounts) add(risk attendance.RiskLevel) {
	tc.Total++
	switch risk {
	case attendance.RiskCritical:
		tc.Critical++
	case attendance.RiskMonitor:
		tc.Monitor++
	case attendance.RiskFollowUp:
		tc.FollowUp++
	default:
		tc.Normal++
	}
}

// absenceRanges returns 10 point buckets; the last one includes 100.
func absenceRanges() []RangeCount {
	ranges := make([]RangeCount, 10)
	for i := range ranges {
		lo := float64(i * 10)
		ranges[i] = RangeCount{Range: fmt.Sprintf("%d-%d%%", i*10, i*10+9), Min: lo, Max: lo + 10}
	}
	ranges[9].Range, ranges[9].Max = "90-100%", 101
	return ranges
}

// Charts computes the dashboard chart series.
func (svc *Service) Charts(ctx context.Context) (Charts, error) {
	records, err := svc.load(ctx, EnrollmentFilter{})
	if err != nil {
		return Charts{}, err
	}
	students := svc.analyzer.Students(records)
	courses := svc.analyzer.Courses(records)

	ch := Charts{
		RiskDistribution:    make([]RiskCount, len(attendance.RiskLevels)),
		AbsenceDistribution: absenceRanges(),
		TopAbsentCourses:    make([]TopCourse, 0, topAbsentCoursesLen),
		AttendanceScatter:   make([]ScatterPoint, 0, len(students)),
		GPAAbsenceScatter:   make([]GPAPoint, 0),
	}
	for i, risk := range attendance.RiskLevels {
		ch.RiskDistribution[i].Risk = risk
	}

	var (
		byFaculty   = make(map[string]*TierCounts)
		byYear      = make(map[int]*TierCounts)
		absences    = make([]float64, 0, len(students))
		attendances = make([]float64, 0, len(students))
	)
	unspecified := svc.analyzer.Options().UnspecifiedLabel
	for _, s := range students {
		absence := float64(s.AvgAbsenceRate)
		absences = append(absences, absence)
		attendances = append(attendances, float64(s.AvgAttendanceRate))

		for i := range ch.RiskDistribution {
			if ch.RiskDistribution[i].Risk == s.RiskLevel {
				ch.RiskDistribution[i].Count++
			}
		}
		for i, r := range ch.AbsenceDistribution {
			if absence >= r.Min && absence < r.Max {
				ch.AbsenceDistribution[i].Count++
			}
		}

		ch.AttendanceScatter = append(ch.AttendanceScatter, ScatterPoint{
			Attendance: s.AvgAttendanceRate.Round1(),
			Absence:    s.AvgAbsenceRate.Round1(),
			Risk:       s.RiskLevel,
		})

		faculty := core.FirstNonEmpty(s.Faculty, unspecified)
		if s.GPA != nil {
			ch.GPAAbsenceScatter = append(ch.GPAAbsenceScatter, GPAPoint{
				GPA:     *s.GPA,
				Absence: s.AvgAbsenceRate.Round1(),
				Risk:    s.RiskLevel,
				Faculty: faculty,
			})
		}

		if byFaculty[faculty] == nil {
			byFaculty[faculty] = &TierCounts{}
		}
		byFaculty[faculty].add(s.RiskLevel)
		if s.YearLevel > 0 {
			if byYear[s.YearLevel] == nil {
				byYear[s.YearLevel] = &TierCounts{}
			}
			byYear[s.YearLevel].add(s.RiskLevel)
		}
	}

	// faculties with the most critical and monitored students first
	names := make([]string, 0, len(byFaculty))
	for name := range byFaculty {
		names = append(names, name)
	}
	svc.analyzer.SortLabels(names)
	ch.FacultyDistribution = make([]FacultyTierCounts, 0, len(names))
	for _, name := range names {
		ch.FacultyDistribution = append(ch.FacultyDistribution, FacultyTierCounts{Faculty: name, TierCounts: *byFaculty[name]})
	}
	sort.SliceStable(ch.FacultyDistribution, func(i, j int) bool {
		fi, fj := ch.FacultyDistribution[i], ch.FacultyDistribution[j]
		return fi.Critical+fi.Monitor > fj.Critical+fj.Monitor
	})

	ch.YearDistribution = make([]YearTierCounts, 0, len(byYear))
	for year, counts := range byYear {
		ch.YearDistribution = append(ch.YearDistribution, YearTierCounts{Year: year, TierCounts: *counts})
	}
	sort.Slice(ch.YearDistribution, func(i, j int) bool { return ch.YearDistribution[i].Year < ch.YearDistribution[j].Year })

	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].StudentsHighAbsence > courses[j].StudentsHighAbsence
	})
	for _, c := range courses {
		if len(ch.TopAbsentCourses) == topAbsentCoursesLen {
			break
		}
		if c.StudentsHighAbsence == 0 || c.HasNoChecks {
			continue
		}
		ch.TopAbsentCourses = append(ch.TopAbsentCourses, TopCourse{
			Course:        c.CourseCode + "-" + c.Section,
			CourseName:    c.CourseName,
			Instructor:    c.Instructor,
			StudyCode:     c.StudyCode,
			HighAbsence:   c.StudentsHighAbsence,
			TotalStudents: c.TotalStudents,
			AvgAttendance: c.AvgAttendanceRate.Round1(),
		})
	}

	ch.Summary.TotalStudents = len(students)
	ch.Summary.AvgAbsenceRate = attendance.Rate(core.Mean(absences))
	ch.Summary.AvgAttendanceRate = attendance.Rate(core.Mean(attendances))
	return ch, nil
}
