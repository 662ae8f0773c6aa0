package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/report"
)

var enrollmentColumns = []string{
	"student_code", "course_code", "revision_code", "section", "study_code", "class_check_raw",
	"student_name", "faculty", "department", "year_level", "advisor_name", "advisor_email", "gpa",
	"course_name", "instructor", "course_grade", "acad_year", "semester",
	"total_sessions", "present_count", "absent_count", "late_count", "leave_count", "unchecked_count",
	"attendance_rate", "absence_rate", "trailing_absences",
}

// enrollmentWriter bulk-loads enrollments with COPY inside a single transaction.
type enrollmentWriter struct {
	db *sqlx.DB
}

var _ report.Writer = (*enrollmentWriter)(nil) // interface compliance check

func NewEnrollmentWriter(db *sqlx.DB) *enrollmentWriter {
	return &enrollmentWriter{db: db}
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

func values(r attendance.Record) []interface{} {
	return []interface{}{
		r.StudentCode, r.CourseCode, r.RevisionCode, r.Section, r.StudyCode, r.RawAttendance,
		nullString(r.StudentName), nullString(r.Faculty), nullString(r.Department),
		null.NewInt(r.YearLevel, r.YearLevel != 0), nullString(r.AdvisorName), nullString(r.AdvisorEmail),
		null.Float64FromPtr(r.GPA),
		nullString(r.CourseName), nullString(r.Instructor), nullString(r.CourseGrade),
		nullString(r.AcadYear), nullString(r.Semester),
		r.Total, r.Present, r.Absent, r.Late, r.Leave, r.Unchecked,
		r.AttendanceRate, r.AbsenceRate, r.TrailingAbsences,
	}
}

func (repo enrollmentWriter) ReplaceEnrollments(ctx context.Context, records []attendance.Record) (n int, err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "starting transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "TRUNCATE enrollments RESTART IDENTITY"); err != nil {
		return 0, errors.Wrap(err, "clearing enrollments")
	}

	stmt, err := tx.PreparexContext(ctx, pq.CopyIn("enrollments", enrollmentColumns...))
	if err != nil {
		return 0, errors.Wrap(err, "preparing copy")
	}
	for _, r := range records {
		if _, err = stmt.ExecContext(ctx, values(r)...); err != nil {
			_ = stmt.Close()
			return 0, errors.Wrapf(err, "copying enrollment %s/%s", r.StudentCode, r.CourseCode)
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return 0, errors.Wrap(err, "flushing copy")
	}
	if err = stmt.Close(); err != nil {
		return 0, errors.Wrap(err, "closing copy")
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing enrollments")
	}
	return len(records), nil
}
