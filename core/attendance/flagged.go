package attendance

import (
	"sort"
)

type (
	FlaggedCourse struct {
		CourseKey
		CourseName          string    `json:"courseName"`
		Instructor          string    `json:"instructor"`
		ConsecutiveAbsences int       `json:"consecutiveAbsences"`
		LastStatuses        []Outcome `json:"lastStatuses"`
		AbsenceRate         Rate      `json:"absenceRate"`
		TotalSessions       int       `json:"totalSessions"`
	}

	// FlaggedStudent is a student with at least one course ending in a long absence run.
	FlaggedStudent struct {
		StudentCode  string   `json:"studentCode"`
		StudentName  string   `json:"studentName"`
		Faculty      string   `json:"faculty"`
		YearLevel    int      `json:"yearLevel"`
		GPA          *float64 `json:"gpa"`
		AdvisorName  string   `json:"advisorName"`
		AdvisorEmail string   `json:"-"`

		Courses             []FlaggedCourse `json:"courses"`
		TotalFlaggedCourses int             `json:"totalFlaggedCourses"`
		MaxConsecutive      int             `json:"maxConsecutive"`
	}
)

// Flagged returns the students having records with at least minConsecutive trailing absences
// (the configured minimum when minConsecutive <= 0). Students are ordered by their longest run,
// then by number of flagged courses, both descending.
func (a *Analyzer) Flagged(records []Record, minConsecutive int) []FlaggedStudent {
	if minConsecutive <= 0 {
		minConsecutive = a.opts.MinConsecutiveAbsences
	}

	var order []string
	byCode := make(map[string]*FlaggedStudent)
	for _, r := range records {
		if r.TrailingAbsences < minConsecutive {
			continue
		}
		fs, ok := byCode[r.StudentCode]
		if !ok {
			fs = &FlaggedStudent{StudentCode: r.StudentCode}
			byCode[r.StudentCode] = fs
			order = append(order, r.StudentCode)
		}
		if fs.StudentName == "" {
			fs.StudentName = r.StudentName
		}
		if fs.Faculty == "" {
			fs.Faculty = r.Faculty
		}
		if fs.YearLevel == 0 {
			fs.YearLevel = r.YearLevel
		}
		if fs.GPA == nil {
			fs.GPA = r.GPA
		}
		if fs.AdvisorName == "" {
			fs.AdvisorName = r.AdvisorName
		}
		if fs.AdvisorEmail == "" {
			fs.AdvisorEmail = r.AdvisorEmail
		}

		fs.Courses = append(fs.Courses, FlaggedCourse{
			CourseKey:           r.CourseKey(),
			CourseName:          r.CourseName,
			Instructor:          r.Instructor,
			ConsecutiveAbsences: r.TrailingAbsences,
			LastStatuses:        CheckedOutcomes(r.Sessions),
			AbsenceRate:         r.AbsenceRate,
			TotalSessions:       r.Total,
		})
		if r.TrailingAbsences > fs.MaxConsecutive {
			fs.MaxConsecutive = r.TrailingAbsences
		}
	}

	flagged := make([]FlaggedStudent, 0, len(order))
	for _, code := range order {
		fs := byCode[code]
		sort.SliceStable(fs.Courses, func(i, j int) bool {
			ci, cj := fs.Courses[i], fs.Courses[j]
			if ci.ConsecutiveAbsences != cj.ConsecutiveAbsences {
				return ci.ConsecutiveAbsences > cj.ConsecutiveAbsences
			}
			return ci.CourseKey.less(cj.CourseKey)
		})
		fs.TotalFlaggedCourses = len(fs.Courses)
		flagged = append(flagged, *fs)
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		fi, fj := flagged[i], flagged[j]
		if fi.MaxConsecutive != fj.MaxConsecutive {
			return fi.MaxConsecutive > fj.MaxConsecutive
		}
		if fi.TotalFlaggedCourses != fj.TotalFlaggedCourses {
			return fi.TotalFlaggedCourses > fj.TotalFlaggedCourses
		}
		return fi.StudentCode < fj.StudentCode
	})
	return flagged
}
