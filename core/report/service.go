package report

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

// a course is counted as a high absence course from this many high absence students
const highAbsenceStudentsPerCourse = 5

type Service struct {
	repo     Repository
	analyzer *attendance.Analyzer
	mailer   core.EmailService
	logger   core.Logger
}

func NewService(repo Repository, analyzer *attendance.Analyzer, mailer core.EmailService, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		analyzer: analyzer,
		mailer:   mailer,
		logger:   logger,
	}
}

func (svc *Service) Analyzer() *attendance.Analyzer {
	return svc.analyzer
}

func (svc *Service) load(ctx context.Context, filter EnrollmentFilter) ([]attendance.Record, error) {
	enrollments, err := svc.repo.QueryEnrollments(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	records, err := svc.analyzer.Records(enrollments)
	if err != nil {
		// storage accepted rows an import would have rejected
		return nil, core.NewShutdownError("stored enrollments are corrupt: " + err.Error())
	}
	return records, nil
}

func (svc *Service) sortedLabels(set map[string]struct{}) []string {
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	svc.analyzer.SortLabels(labels)
	return labels
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// Import replaces every stored enrollment with the given ones.
// Nothing is written when any enrollment misses its identity.
func (svc *Service) Import(ctx context.Context, enrollments []attendance.Enrollment) (ImportSummary, error) {
	records, err := svc.analyzer.Records(enrollments)
	if err != nil {
		return ImportSummary{}, err
	}

	n, err := svc.repo.ReplaceEnrollments(ctx, records)
	if err != nil {
		return ImportSummary{}, errors.Wrap(err, "replacing enrollments")
	}

	minConsecutive := svc.analyzer.Options().MinConsecutiveAbsences
	students := make(map[string]struct{})
	courses := make(map[attendance.CourseKey]struct{})
	summary := ImportSummary{Records: n}
	for _, r := range records {
		students[r.StudentCode] = struct{}{}
		courses[r.CourseKey()] = struct{}{}
		if r.TrailingAbsences >= minConsecutive {
			summary.Flagged++
		}
	}
	summary.Students = len(students)
	summary.Courses = len(courses)

	svc.logger.Info(fmt.Sprintf("imported %d enrollments", n), map[string]interface{}{
		"students": summary.Students,
		"courses":  summary.Courses,
		"flagged":  summary.Flagged,
	})
	return summary, nil
}

// Recalculate re-derives the stored attendance figures with the current options.
func (svc *Service) Recalculate(ctx context.Context) (ImportSummary, error) {
	enrollments, err := svc.repo.QueryEnrollments(ctx, EnrollmentFilter{})
	if err != nil {
		return ImportSummary{}, errors.Wrap(err, "querying enrollments")
	}
	return svc.Import(ctx, enrollments)
}

// Stats summarizes students (optionally those of one advisor), courses and records.
func (svc *Service) Stats(ctx context.Context, advisor string) (Stats, error) {
	var (
		records []attendance.Record
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = svc.load(gctx, EnrollmentFilter{})
		return err
	})
	g.Go(func() error {
		n, err := svc.repo.CountEnrollments(gctx)
		if err != nil {
			return errors.Wrap(err, "counting enrollments")
		}
		total = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	var st Stats
	advisor = selected(advisor)
	minConsecutive := svc.analyzer.Options().MinConsecutiveAbsences
	faculties := make(map[string]struct{})
	for _, s := range svc.analyzer.Students(records) {
		if !matchesLabel(s.AdvisorName, advisor) {
			continue
		}
		st.Students.Total++
		switch s.RiskLevel {
		case attendance.RiskCritical:
			st.Students.Critical++
		case attendance.RiskMonitor:
			st.Students.Monitor++
		case attendance.RiskFollowUp:
			st.Students.FollowUp++
		default:
			st.Students.Normal++
		}
		if s.Faculty != "" {
			faculties[s.Faculty] = struct{}{}
		}
		if s.MaxTrailingAbsences >= minConsecutive {
			st.ConsecutiveAbsence.StudentsCount++
		}
	}

	for _, c := range svc.analyzer.Courses(records) {
		st.Courses.Total++
		if c.HasNoChecks {
			st.Courses.WithoutChecks++
		}
		if c.StudentsHighAbsence >= highAbsenceStudentsPerCourse {
			st.Courses.HighAbsence++
		}
	}

	st.Faculties.List = svc.sortedLabels(faculties)
	st.Faculties.Total = len(st.Faculties.List)
	st.Records.Total = total
	return st, nil
}

// QueryStudents returns one page of students ordered by average absence rate (descending).
func (svc *Service) QueryStudents(ctx context.Context, filter StudentFilter) (StudentPage, error) {
	records, err := svc.load(ctx, EnrollmentFilter{})
	if err != nil {
		return StudentPage{}, err
	}

	risk, faculty, advisor := selected(filter.RiskLevel), selected(filter.Faculty), selected(filter.Advisor)
	search := strings.TrimSpace(filter.Search)

	matched := make([]attendance.Student, 0)
	for _, s := range svc.analyzer.Students(records) {
		switch {
		case risk != "" && string(s.RiskLevel) != risk,
			faculty != "" && s.Faculty != faculty,
			filter.YearLevel > 0 && s.YearLevel != filter.YearLevel,
			!matchesLabel(s.AdvisorName, advisor),
			search != "" && !containsFold(s.StudentCode, search) && !containsFold(s.StudentName, search):
			continue
		}
		s.Records = nil
		matched = append(matched, s)
	}

	limit := clampLimit(filter.Limit, defaultStudentLimit)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	return StudentPage{
		Data:       paginate(matched, (page-1)*limit, limit),
		Total:      len(matched),
		Page:       page,
		Limit:      limit,
		TotalPages: (len(matched) + limit - 1) / limit,
	}, nil
}

// GetStudent returns a student with every course record, highest absence rate first.
func (svc *Service) GetStudent(ctx context.Context, code string) (attendance.Student, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return attendance.Student{}, core.NewValidationError(nil, core.FieldError{Field: "code", Error: "this field is required"})
	}

	records, err := svc.load(ctx, EnrollmentFilter{StudentCodes: []string{code}})
	if err != nil {
		return attendance.Student{}, err
	}
	if len(records) == 0 {
		return attendance.Student{}, ErrNotFound
	}
	return svc.analyzer.Student(records), nil
}

// QueryCourses returns course sections ordered by number of high absence students (descending), then course code.
func (svc *Service) QueryCourses(ctx context.Context, filter CourseFilter) (CoursePage, error) {
	records, err := svc.load(ctx, EnrollmentFilter{})
	if err != nil {
		return CoursePage{}, err
	}

	q := strings.TrimSpace(filter.Q)
	matched := make([]attendance.Course, 0)
	for _, c := range svc.analyzer.Courses(records) {
		switch {
		case q != "" && !containsFold(c.CourseCode, q) && !containsFold(c.CourseName, q) && !containsFold(c.Instructor, q),
			filter.StudyCode != "" && c.StudyCode != filter.StudyCode,
			filter.HasNoChecks != nil && c.HasNoChecks != *filter.HasNoChecks,
			c.StudentsHighAbsence < filter.MinHighAbsence:
			continue
		}
		matched = append(matched, c)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].StudentsHighAbsence > matched[j].StudentsHighAbsence
	})

	limit := clampLimit(filter.Limit, defaultCourseLimit)
	return CoursePage{
		Data:   paginate(matched, filter.Offset, limit),
		Total:  len(matched),
		Limit:  limit,
		Offset: filter.Offset,
	}, nil
}

// AttendanceReport builds the session matrix of every course section, one goroutine per section.
// The per-faculty overview covers every matching course, the details only the requested page.
func (svc *Service) AttendanceReport(ctx context.Context, filter ReportFilter) (AttendanceReport, error) {
	records, err := svc.load(ctx, EnrollmentFilter{})
	if err != nil {
		return AttendanceReport{}, err
	}

	opts := svc.analyzer.Options()
	analyzer := svc.analyzer.WithCategories(
		boolOr(filter.CountP, opts.CountPresent),
		boolOr(filter.CountL, opts.CountLate),
		boolOr(filter.CountS, opts.CountLeave),
	)

	keys, byKey := attendance.GroupByCourse(records)
	courses := make([]attendance.Course, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			courses[i] = analyzer.Course(byKey[key])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return AttendanceReport{}, errors.Wrap(err, "building session matrices")
	}

	faculty := selected(filter.Faculty)
	matched := make([]attendance.Course, 0, len(courses))
	for _, c := range courses {
		if faculty == "" || c.Faculty == faculty {
			matched = append(matched, c)
		}
	}
	analyzer.SortCoursesByFaculty(matched)

	overview := analyzer.FacultyCourseRollup(matched)
	faculties := make([]string, len(overview))
	for i, o := range overview {
		faculties[i] = o.Faculty
	}

	limit := clampLimit(filter.Limit, defaultCourseLimit)
	return AttendanceReport{
		Faculties: faculties,
		Overview:  overview,
		Courses:   paginate(matched, filter.Offset, limit),
		Total:     len(matched),
		Limit:     limit,
		Offset:    filter.Offset,
	}, nil
}

// ConsecutiveAbsences lists the students with courses ending in at least filter.Min absences in a row.
func (svc *Service) ConsecutiveAbsences(ctx context.Context, filter FlaggedFilter) (FlaggedReport, error) {
	minConsecutive := filter.Min
	if minConsecutive <= 0 {
		minConsecutive = svc.analyzer.Options().MinConsecutiveAbsences
	}

	records, err := svc.load(ctx, EnrollmentFilter{})
	if err != nil {
		return FlaggedReport{}, err
	}
	flagged := svc.analyzer.Flagged(records, minConsecutive)
	return FlaggedReport{Data: flagged, Total: len(flagged), MinConsecutive: minConsecutive}, nil
}

// FacultyReport groups at-risk students by faculty and advisor.
func (svc *Service) FacultyReport(ctx context.Context, filter FacultyReportFilter) (FacultyReport, error) {
	records, err := svc.load(ctx, EnrollmentFilter{})
	if err != nil {
		return FacultyReport{}, err
	}

	faculty := selected(filter.Faculty)
	minAbsenceRate := svc.analyzer.Options().MinAbsenceRate
	if filter.MinAbsenceRate != nil {
		minAbsenceRate = *filter.MinAbsenceRate
	}

	atRisk := make([]attendance.Student, 0)
	faculties := make(map[string]struct{})
	for _, s := range svc.analyzer.Students(records) {
		if s.RiskLevel == attendance.RiskNormal || (faculty != "" && s.Faculty != faculty) {
			continue
		}
		atRisk = append(atRisk, s)
		if s.Faculty != "" {
			faculties[s.Faculty] = struct{}{}
		}
	}

	return FacultyReport{
		Data:      svc.analyzer.FacultyAdvisorTree(atRisk, minAbsenceRate),
		Faculties: svc.sortedLabels(faculties),
	}, nil
}

// Advisors returns the distinct advisor names.
func (svc *Service) Advisors(ctx context.Context) ([]string, error) {
	enrollments, err := svc.repo.QueryEnrollments(ctx, EnrollmentFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}

	names := make(map[string]struct{})
	for _, e := range enrollments {
		if name := strings.TrimSpace(e.AdvisorName); name != "" {
			names[name] = struct{}{}
		}
	}
	return svc.sortedLabels(names), nil
}
