package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/report"
)

type reportApi struct {
	svc      *report.Service
	validate *validator.Validate
}

func registerReportAPI(g *echo.Group, svc *report.Service, validate *validator.Validate) {
	api := reportApi{
		svc:      svc,
		validate: validate,
	}

	g.GET("/stats", api.stats)
	g.GET("/students", api.queryStudents)
	g.GET("/students/:code", api.retrieveStudent)
	g.GET("/courses", api.queryCourses)
	g.GET("/attendance-report", api.attendanceReport)
	g.GET("/consecutive-absence", api.consecutiveAbsence)
	g.GET("/faculty-report", api.facultyReport)
	g.GET("/charts", api.charts)
	g.GET("/advisors", api.advisors)
}

// Handlers

func (api *reportApi) stats(ctx echo.Context) error {
	st, err := api.svc.Stats(ctx.Request().Context(), ctx.QueryParam("advisor"))
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *reportApi) queryStudents(ctx echo.Context) error {
	var filter report.StudentFilter
	err := echo.QueryParamsBinder(ctx).
		String("riskLevel", &filter.RiskLevel).
		String("faculty", &filter.Faculty).
		Int("yearLevel", &filter.YearLevel).
		String("advisor", &filter.Advisor).
		String("search", &filter.Search).
		Int("page", &filter.Page).
		Int("limit", &filter.Limit).
		BindError()
	if err != nil {
		return errors.Wrap(err, "binding to StudentFilter")
	}
	if err = filter.Validate(api.validate); err != nil {
		return err
	}

	page, err := api.svc.QueryStudents(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *reportApi) retrieveStudent(ctx echo.Context) error {
	s, err := api.svc.GetStudent(ctx.Request().Context(), ctx.Param("code"))
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *reportApi) queryCourses(ctx echo.Context) error {
	var filter report.CourseFilter
	err := echo.QueryParamsBinder(ctx).
		String("q", &filter.Q).
		String("studyCode", &filter.StudyCode).
		Int("minHighAbsence", &filter.MinHighAbsence).
		Int("limit", &filter.Limit).
		Int("offset", &filter.Offset).
		BindError()
	if err != nil {
		return errors.Wrap(err, "binding to CourseFilter")
	}
	if filter.HasNoChecks, err = optionalBool(ctx, "hasNoChecks"); err != nil {
		return err
	}
	if err = filter.Validate(api.validate); err != nil {
		return err
	}

	page, err := api.svc.QueryCourses(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *reportApi) attendanceReport(ctx echo.Context) error {
	var filter report.ReportFilter
	err := echo.QueryParamsBinder(ctx).
		String("faculty", &filter.Faculty).
		Int("limit", &filter.Limit).
		Int("offset", &filter.Offset).
		BindError()
	if err != nil {
		return errors.Wrap(err, "binding to ReportFilter")
	}
	toggles := []struct {
		name string
		dst  **bool
	}{{"countP", &filter.CountP}, {"countL", &filter.CountL}, {"countS", &filter.CountS}}
	for _, tg := range toggles {
		if *tg.dst, err = optionalBool(ctx, tg.name); err != nil {
			return err
		}
	}
	if err = filter.Validate(api.validate); err != nil {
		return err
	}

	rep, err := api.svc.AttendanceReport(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "building attendance report")
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api *reportApi) consecutiveAbsence(ctx echo.Context) error {
	var filter report.FlaggedFilter
	if err := echo.QueryParamsBinder(ctx).Int("min", &filter.Min).BindError(); err != nil {
		return errors.Wrap(err, "binding to FlaggedFilter")
	}
	if err := filter.Validate(api.validate); err != nil {
		return err
	}

	rep, err := api.svc.ConsecutiveAbsences(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing consecutive absences")
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api *reportApi) facultyReport(ctx echo.Context) error {
	filter := report.FacultyReportFilter{Faculty: ctx.QueryParam("faculty")}
	var err error
	if filter.MinAbsenceRate, err = optionalFloat(ctx, "minAbsenceRate"); err != nil {
		return err
	}
	if err = filter.Validate(api.validate); err != nil {
		return err
	}

	rep, err := api.svc.FacultyReport(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "building faculty report")
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api *reportApi) charts(ctx echo.Context) error {
	ch, err := api.svc.Charts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing charts")
	}
	return ctx.JSON(http.StatusOK, ch)
}

func (api *reportApi) advisors(ctx echo.Context) error {
	names, err := api.svc.Advisors(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing advisors")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"data": names})
}
