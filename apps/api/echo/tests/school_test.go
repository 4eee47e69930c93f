package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooldash/core/school"
)

func Test_schoolApi_config(t *testing.T) {
	app, deps := setup(t)
	adminToken := getToken(t, deps, "u1")

	sch, err := deps.SchoolSvc.Get(bgCtx, "s1")
	require.NoError(t, err)

	runHTTPTests(t, app, []httpTest{
		{name: "retrieve", path: "/v1/school", token: getToken(t, deps, "u3"), wantCode: http.StatusOK, wantData: marchallObj(t, sch)},
		{name: "update: admin only", method: http.MethodPut, path: "/v1/school/config", token: getToken(t, deps, "u2"), body: []byte(`{}`), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "update: invalid", method: http.MethodPut, path: "/v1/school/config", token: adminToken, body: []byte(`{"period_type": "MONTH", "grading_scale": "NUMERIC", "passing_grade": 11, "academic_year": 2024, "min_attendance": 75}`), wantCode: http.StatusBadRequest},
		{name: "toggle: unknown key", method: http.MethodPost, path: "/v1/school/access/lol/toggle", token: adminToken, wantCode: http.StatusBadRequest},
		{
			name: "toggle", method: http.MethodPost, path: "/v1/school/access/view_grades/toggle", token: adminToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, school.StudentAccess{Enabled: true, ViewGrades: false, ViewAttendance: true, ViewContent: true, ViewTasks: true}),
		},
	})

	conf := sch.Config
	conf.PeriodType = school.PeriodSemester
	conf.PassingGrade = 7
	var updated school.School
	req, rec := newAuthRequest(http.MethodPut, "/v1/school/config", adminToken, marchallObj(t, conf))
	decode(t, app, req, rec, http.StatusOK, &updated)
	assert.Equal(t, school.PeriodSemester, updated.Config.PeriodType)
	assert.Equal(t, 7.0, updated.Config.PassingGrade)
}

func Test_schoolApi_periods(t *testing.T) {
	app, deps := setup(t)
	adminToken := getToken(t, deps, "u1")

	p2, err := deps.SchoolSvc.GetPeriod(bgCtx, "p2")
	require.NoError(t, err)

	runHTTPTests(t, app, []httpTest{
		{name: "current", path: "/v1/school/periods/current", token: getToken(t, deps, "u3"), wantCode: http.StatusOK, wantData: marchallObj(t, p2)},
		{name: "current: vacation", path: "/v1/school/periods/current?date=2024-07-15", token: adminToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "add: admin only", method: http.MethodPost, path: "/v1/school/periods", token: getToken(t, deps, "u2"), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "update: unknown", method: http.MethodPut, path: "/v1/school/periods/lol", token: adminToken, body: []byte(`{}`), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "update: closed", method: http.MethodPut, path: "/v1/school/periods/p1", token: adminToken, body: []byte(`{"name": "First"}`), wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "academic period is closed"})},
		{name: "update: end before start", method: http.MethodPut, path: "/v1/school/periods/p3", token: adminToken, body: []byte(`{"end_date": "2024-07-01"}`), wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{
			"end_date": "end_date must not be before start_date",
		})},
	})

	var p school.AcademicPeriod
	req, rec := newAuthRequest(http.MethodPost, "/v1/school/periods", adminToken)
	decode(t, app, req, rec, http.StatusCreated, &p)
	assert.Equal(t, "Period 5", p.Name)

	req, rec = newAuthRequest(http.MethodPut, "/v1/school/periods/"+p.ID, adminToken, []byte(`{"name": "Recovery", "start_date": "2024-12-16", "end_date": "2024-12-20"}`))
	decode(t, app, req, rec, http.StatusOK, &p)
	assert.Equal(t, "Recovery", p.Name)
	assert.Equal(t, "2024-12-20", p.EndDate)

	req, rec = newAuthRequest(http.MethodPost, "/v1/school/periods/"+p.ID+"/close", adminToken)
	decode(t, app, req, rec, http.StatusOK, &p)
	assert.True(t, p.IsClosed)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/school/periods/"+p.ID, adminToken)
	decode(t, app, req, rec, http.StatusNoContent, nil)

	var periods []school.AcademicPeriod
	req, rec = newAuthRequest(http.MethodGet, "/v1/school/periods", adminToken)
	decode(t, app, req, rec, http.StatusOK, &periods)
	assert.Len(t, periods, 4)
}
