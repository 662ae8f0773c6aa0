package boiledrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/report"
)

const enrollmentColumns = `student_code, course_code, revision_code, section, study_code, class_check_raw,
	student_name, faculty, department, year_level, advisor_name, advisor_email, gpa,
	course_name, instructor, course_grade, acad_year, semester`

type enrollmentRow struct {
	StudentCode   string       `boil:"student_code"`
	CourseCode    string       `boil:"course_code"`
	RevisionCode  string       `boil:"revision_code"`
	Section       string       `boil:"section"`
	StudyCode     string       `boil:"study_code"`
	ClassCheckRaw string       `boil:"class_check_raw"`
	StudentName   null.String  `boil:"student_name"`
	Faculty       null.String  `boil:"faculty"`
	Department    null.String  `boil:"department"`
	YearLevel     null.Int     `boil:"year_level"`
	AdvisorName   null.String  `boil:"advisor_name"`
	AdvisorEmail  null.String  `boil:"advisor_email"`
	GPA           null.Float64 `boil:"gpa"`
	CourseName    null.String  `boil:"course_name"`
	Instructor    null.String  `boil:"instructor"`
	CourseGrade   null.String  `boil:"course_grade"`
	AcadYear      null.String  `boil:"acad_year"`
	Semester      null.String  `boil:"semester"`
}

// enrollmentReader reads enrollments with raw queries bound by sqlboiler.
type enrollmentReader struct {
	exec core.DBExecutor
}

var _ report.Reader = (*enrollmentReader)(nil) // interface compliance check

func NewEnrollmentReader(exec core.DBExecutor) *enrollmentReader {
	return &enrollmentReader{exec: exec}
}

func (repo enrollmentReader) unboil(row *enrollmentRow) attendance.Enrollment {
	return attendance.Enrollment{
		StudentCode:   row.StudentCode,
		CourseCode:    row.CourseCode,
		RevisionCode:  row.RevisionCode,
		Section:       row.Section,
		StudyCode:     row.StudyCode,
		RawAttendance: row.ClassCheckRaw,
		StudentName:   row.StudentName.String,
		Faculty:       row.Faculty.String,
		Department:    row.Department.String,
		YearLevel:     row.YearLevel.Int,
		AdvisorName:   row.AdvisorName.String,
		AdvisorEmail:  row.AdvisorEmail.String,
		GPA:           row.GPA.Ptr(),
		CourseName:    row.CourseName.String,
		Instructor:    row.Instructor.String,
		CourseGrade:   row.CourseGrade.String,
		AcadYear:      row.AcadYear.String,
		Semester:      row.Semester.String,
	}
}

// whereClause renders filter as a WHERE clause with positional args.
func whereClause(filter report.EnrollmentFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if len(filter.StudentCodes) > 0 {
		args = append(args, pq.Array(filter.StudentCodes))
		conds = append(conds, fmt.Sprintf("student_code = ANY($%d)", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (repo enrollmentReader) QueryEnrollments(ctx context.Context, filter report.EnrollmentFilter) ([]attendance.Enrollment, error) {
	where, args := whereClause(filter)
	q := "SELECT " + enrollmentColumns + " FROM enrollments" + where + " ORDER BY id"

	var rows []*enrollmentRow
	if err := queries.Raw(q, args...).Bind(ctx, repo.exec, &rows); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}

	enrollments := make([]attendance.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, repo.unboil(row))
	}
	return enrollments, nil
}

func (repo enrollmentReader) CountEnrollments(ctx context.Context) (int, error) {
	var count int
	if err := repo.exec.QueryRowContext(ctx, "SELECT COUNT(*) FROM enrollments").Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting enrollments")
	}
	return count, nil
}
