package report

import (
	"github.com/trezcool/mahudhurio/core/attendance"
)

type (
	ImportSummary struct {
		Records  int `json:"records"`
		Students int `json:"students"`
		Courses  int `json:"courses"`
		Flagged  int `json:"flagged"`
		Skipped  int `json:"skipped"`
	}

	StudentCounts struct {
		Total    int `json:"total"`
		Critical int `json:"critical"`
		Monitor  int `json:"monitor"`
		FollowUp int `json:"followUp"`
		Normal   int `json:"normal"`
	}

	CourseCounts struct {
		Total         int `json:"total"`
		WithoutChecks int `json:"withoutChecks"`
		HighAbsence   int `json:"highAbsence"`
	}

	FacultyList struct {
		Total int      `json:"total"`
		List  []string `json:"list"`
	}

	Stats struct {
		Students           StudentCounts `json:"students"`
		Courses            CourseCounts  `json:"courses"`
		Faculties          FacultyList   `json:"faculties"`
		ConsecutiveAbsence struct {
			StudentsCount int `json:"studentsCount"`
		} `json:"consecutiveAbsence"`
		Records struct {
			Total int `json:"total"`
		} `json:"records"`
	}

	StudentPage struct {
		Data       []attendance.Student `json:"data"`
		Total      int                  `json:"total"`
		Page       int                  `json:"page"`
		Limit      int                  `json:"limit"`
		TotalPages int                  `json:"totalPages"`
	}

	CoursePage struct {
		Data   []attendance.Course `json:"data"`
		Total  int                 `json:"total"`
		Limit  int                 `json:"limit"`
		Offset int                 `json:"offset"`
	}

	AttendanceReport struct {
		Faculties []string                          `json:"faculties"`
		Overview  []attendance.FacultyCourseSummary `json:"overview"`
		Courses   []attendance.Course               `json:"courseDetails"`
		Total     int                               `json:"total"`
		Limit     int                               `json:"limit"`
		Offset    int                               `json:"offset"`
	}

	FlaggedReport struct {
		Data           []attendance.FlaggedStudent `json:"data"`
		Total          int                         `json:"total"`
		MinConsecutive int                         `json:"minConsecutive"`
	}

	FacultyReport struct {
		Data      []attendance.FacultyNode `json:"data"`
		Faculties []string                 `json:"faculties"`
	}

	NotifySummary struct {
		Advisors int `json:"advisors"`
		Sent     int `json:"sent"`
		Skipped  int `json:"skipped"` // advisors without an email address
		Students int `json:"students"`
	}

	// Digest is the data of the flagged_digest email template.
	Digest struct {
		Advisor        string
		MinConsecutive int
		Students       []attendance.FlaggedStudent
	}
)
