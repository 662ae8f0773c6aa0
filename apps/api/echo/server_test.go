package echoapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/storage/database/inmem"
	"github.com/trezcool/mahudhurio/tests"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func setup(t *testing.T, db Pinger) *Server {
	t.Helper()
	conf := testutil.Config()
	conf.Server.DisableReqLogs = true
	logger := &testutil.Logger{}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	report.InitValidators(validate, translator)

	repo := inmemdb.NewEnrollmentRepository(inmemdb.NewDB())
	svc := report.NewService(
		report.NewRepository(repo, repo),
		attendance.NewAnalyzer(attendance.OptionsFromConfig(conf.Analytics)),
		nil, logger,
	)
	_, err := svc.Import(context.Background(), testutil.Enrollments())
	require.NoError(t, err)

	return NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		ReportSvc:  svc,
		Validate:   validate,
		Translator: translator,
		DB:         db,
	})
}

type httpTest struct {
	name     string
	path     string
	wantCode int
	check    func(t *testing.T, body map[string]interface{})
}

func newRequest(method, path string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, nil)
	return req, httptest.NewRecorder()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func wantFields(fields map[string]interface{}) func(t *testing.T, body map[string]interface{}) {
	return func(t *testing.T, body map[string]interface{}) {
		assert.Equal(t, fields, body)
	}
}

func wantLen(key string, n int) func(t *testing.T, body map[string]interface{}) {
	return func(t *testing.T, body map[string]interface{}) {
		list, ok := body[key].([]interface{})
		require.True(t, ok, "%s is not a list", key)
		assert.Len(t, list, n)
	}
}

func TestServer_home(t *testing.T) {
	s := setup(t, nil)
	req, rec := newRequest(http.MethodGet, "/")
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Mahudhurio API!", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestServer_health(t *testing.T) {
	tests := []struct {
		name     string
		db       Pinger
		wantCode int
		wantStat string
	}{
		{name: "no database", wantCode: http.StatusOK, wantStat: "ok"},
		{name: "database up", db: pingerFunc(func(context.Context) error { return nil }), wantCode: http.StatusOK, wantStat: "ok"},
		{name: "database down", db: pingerFunc(func(context.Context) error { return errors.New("down") }), wantCode: http.StatusServiceUnavailable, wantStat: "db unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setup(t, tt.db)
			req, rec := newRequest(http.MethodGet, "/health")
			s.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStat, decode(t, rec)["status"])
		})
	}
}

func Test_reportApi(t *testing.T) {
	s := setup(t, nil)

	tests := []httpTest{
		{
			name:     "stats",
			path:     "/v1/stats",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				students := body["students"].(map[string]interface{})
				assert.Equal(t, 5.0, students["total"])
				assert.Equal(t, 2.0, students["critical"])
			},
		},
		{
			name:     "stats of an advisor",
			path:     "/v1/stats?advisor=Dr.+Anan",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, 2.0, body["students"].(map[string]interface{})["total"])
			},
		},
		{name: "students", path: "/v1/students", wantCode: http.StatusOK, check: wantLen("data", 5)},
		{name: "trailing slash", path: "/v1/students/", wantCode: http.StatusOK, check: wantLen("data", 5)},
		{name: "critical students", path: "/v1/students?riskLevel=critical", wantCode: http.StatusOK, check: wantLen("data", 2)},
		{
			name:     "invalid risk level",
			path:     "/v1/students?riskLevel=doomed",
			wantCode: http.StatusBadRequest,
			check:    wantFields(map[string]interface{}{"riskLevel": "riskLevel must be one of critical, monitor, follow_up, normal or all"}),
		},
		{
			name:     "invalid limit",
			path:     "/v1/students?limit=many",
			wantCode: http.StatusBadRequest,
			check:    wantFields(map[string]interface{}{"limit": "invalid value"}),
		},
		{
			name:     "student",
			path:     "/v1/students/6401",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "critical", body["riskLevel"])
				assert.Len(t, body["records"], 2)
			},
		},
		{
			name:     "unknown student",
			path:     "/v1/students/9999",
			wantCode: http.StatusNotFound,
			check:    wantFields(map[string]interface{}{"error": "student not found"}),
		},
		{name: "courses", path: "/v1/courses", wantCode: http.StatusOK, check: wantLen("data", 4)},
		{name: "courses never checked", path: "/v1/courses?hasNoChecks=true", wantCode: http.StatusOK, check: wantLen("data", 1)},
		{
			name:     "invalid tri-state",
			path:     "/v1/courses?hasNoChecks=maybe",
			wantCode: http.StatusBadRequest,
			check:    wantFields(map[string]interface{}{"hasNoChecks": "must be true or false"}),
		},
		{
			name:     "invalid study code",
			path:     "/v1/courses?studyCode=X",
			wantCode: http.StatusBadRequest,
			check:    wantFields(map[string]interface{}{"studyCode": "studyCode must be one of C (lecture) or L (lab)"}),
		},
		{
			name:     "attendance report",
			path:     "/v1/attendance-report?faculty=Science&countL=false",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Len(t, body["courseDetails"], 2)
				assert.Equal(t, []interface{}{"Science"}, body["faculties"])
			},
		},
		{
			name:     "consecutive absence",
			path:     "/v1/consecutive-absence?min=4",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, 1.0, body["total"])
				assert.Equal(t, 4.0, body["minConsecutive"])
			},
		},
		{name: "faculty report", path: "/v1/faculty-report", wantCode: http.StatusOK, check: wantLen("data", 3)},
		{
			name:     "faculty report rate out of range",
			path:     "/v1/faculty-report?minAbsenceRate=150",
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Contains(t, body, "minAbsenceRate")
			},
		},
		{
			name:     "charts",
			path:     "/v1/charts",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Len(t, body["riskDistribution"], 4)
				assert.Len(t, body["absenceDistribution"], 10)
			},
		},
		{
			name:     "advisors",
			path:     "/v1/advisors",
			wantCode: http.StatusOK,
			check:    wantFields(map[string]interface{}{"data": []interface{}{"Dr. Anan", "Dr. Somchai"}}),
		},
		{name: "unknown route", path: "/v1/nope", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			s.ServeHTTP(rec, req)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, decode(t, rec))
			}
		})
	}
}

func Test_appHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCode     int
		wantBody     string
		wantShutdown bool
		wantLogged   bool
	}{
		{name: "validation", err: core.NewValidationError(errors.New("bad input")), wantCode: http.StatusBadRequest, wantBody: `{"error":"bad input"}`},
		{name: "not found", err: report.ErrNotFound, wantCode: http.StatusNotFound, wantBody: `{"error":"student not found"}`},
		{name: "server error", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantBody: `{"error":"Internal Server Error"}`, wantLogged: true},
		{name: "shutdown", err: core.NewShutdownError("integrity"), wantCode: http.StatusInternalServerError, wantShutdown: true, wantLogged: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &testutil.Logger{}
			var shutdown bool
			handler := newAppHTTPErrorHandler(logger, core.NewTranslator(), func() { shutdown = true })

			e := echo.New()
			req, rec := newRequest(http.MethodGet, "/")
			handler(tt.err, e.NewContext(req, rec))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			assert.Equal(t, tt.wantShutdown, shutdown)
			lines := logger.Lines()
			if tt.wantLogged {
				require.Len(t, lines, 1)
				assert.True(t, strings.HasPrefix(lines[0], "error: Internal Server Error"))
				assert.Contains(t, lines[0], "192.0.2.1")
			} else {
				assert.Empty(t, lines)
			}
		})
	}
}
