// Package csvfile reads class-check exports into enrollments.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/mahudhurio/core/attendance"
)

const (
	colStudentCode  = "STUDENTCODE"
	colCourseCode   = "COURSECODE"
	colClassCheck   = "CLASSCHECK"
	colStudyCode    = "STUDYCODE"
	colSection      = "SECTION"
	colStudentName  = "STUDENT_NAME"
	colFaculty      = "FACULTY"
	colDepartment   = "DEPARTMENT"
	colYearLevel    = "YEAR_LEVEL"
	colAdvisorName  = "ADVISOR_NAME"
	colAdvisorEmail = "ADVISOR_EMAIL"
	colCourseName   = "COURSE_NAME"
	colInstructor   = "INSTRUCTOR"
	colAcadYear     = "ACADYEAR"
	colSemester     = "SEMESTER"
	colGPA          = "GPA"
	colCourseGrade  = "COURSE_GRADE"

	progressEvery = 2000
	similarityMin = 0.7
)

var (
	RequiredColumns = []string{colStudentCode, colCourseCode, colClassCheck, colStudyCode, colSection}

	// errors
	ErrNoRecords = errors.New("no valid records found")
)

// MissingColumnError reports a required header that is not in the file.
type MissingColumnError struct {
	Column     string
	Suggestion string // closest header found, if any
	Found      []string
}

func (e *MissingColumnError) Error() string {
	msg := fmt.Sprintf("missing required column: %s", e.Column)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", e.Suggestion)
	}
	return msg
}

type (
	Result struct {
		Enrollments []attendance.Enrollment
		Skipped     int // rows without a student or course code
	}

	// Reader parses a class-check CSV export. The header row is matched case-insensitively.
	Reader struct {
		// Progress, if set, is called every few thousand parsed rows.
		Progress func(parsed int)
	}
)

func NewReader() *Reader {
	return &Reader{}
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToUpper(strings.TrimSpace(h))
}

// suggest returns the header most similar to col, if any is close enough.
func suggest(col string, headers []string) string {
	best, bestRatio := "", 0.0
	for _, h := range headers {
		ratio := difflib.NewMatcher(strings.Split(col, ""), strings.Split(h, "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = h, ratio
		}
	}
	if bestRatio < similarityMin {
		return ""
	}
	return best
}

func indexHeaders(row []string) (map[string]int, error) {
	index := make(map[string]int, len(row))
	headers := make([]string, 0, len(row))
	for i, h := range row {
		h = normalizeHeader(h)
		if h == "" {
			continue
		}
		if _, dup := index[h]; !dup {
			index[h] = i
			headers = append(headers, h)
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &MissingColumnError{Column: col, Suggestion: suggest(col, headers), Found: headers}
		}
	}
	return index, nil
}

func revisionCode(courseCode string) string {
	if i := strings.Index(courseCode, "."); i >= 0 {
		return courseCode[i+1:]
	}
	return ""
}

func parseGPA(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f == 0 {
		return nil
	}
	return &f
}

func (r *Reader) Read(src io.Reader) (Result, error) {
	cr := csv.NewReader(src)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return Result{}, ErrNoRecords
	}
	if err != nil {
		return Result{}, errors.Wrap(err, "reading header")
	}
	index, err := indexHeaders(header)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, errors.Wrap(err, "reading row")
		}

		get := func(col string) string {
			idx, ok := index[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if isBlank(row) {
			continue
		}

		studentCode, courseCode := get(colStudentCode), get(colCourseCode)
		if studentCode == "" || courseCode == "" {
			res.Skipped++
			continue
		}

		yearLevel, _ := strconv.Atoi(get(colYearLevel))
		res.Enrollments = append(res.Enrollments, attendance.Enrollment{
			StudentCode:   studentCode,
			CourseCode:    courseCode,
			RevisionCode:  revisionCode(courseCode),
			Section:       get(colSection),
			StudyCode:     get(colStudyCode),
			RawAttendance: get(colClassCheck),
			StudentName:   get(colStudentName),
			Faculty:       get(colFaculty),
			Department:    get(colDepartment),
			YearLevel:     yearLevel,
			AdvisorName:   get(colAdvisorName),
			AdvisorEmail:  get(colAdvisorEmail),
			GPA:           parseGPA(get(colGPA)),
			CourseName:    get(colCourseName),
			Instructor:    get(colInstructor),
			CourseGrade:   get(colCourseGrade),
			AcadYear:      get(colAcadYear),
			Semester:      get(colSemester),
		})
		if r.Progress != nil && len(res.Enrollments)%progressEvery == 0 {
			r.Progress(len(res.Enrollments))
		}
	}

	if len(res.Enrollments) == 0 {
		return res, ErrNoRecords
	}
	return res, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
