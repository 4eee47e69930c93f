package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/schooldash/apps/api/echo"
	"github.com/trezcool/schooldash/core/attendance"
	"github.com/trezcool/schooldash/core/classwork"
	"github.com/trezcool/schooldash/core/grade"
	"github.com/trezcool/schooldash/core/school"
	inmemdb "github.com/trezcool/schooldash/storage/database/inmem"
)

func classIDs(classes []school.ClassGroup) []string {
	ids := make([]string, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	return ids
}

func Test_classApi_query(t *testing.T) {
	app, deps := setup(t)

	tests := []struct {
		name   string
		userID string
		query  string
		want   []string
	}{
		{name: "admin", userID: "u1", want: []string{"c1", "c2", "c3", "c4", "c5"}},
		{name: "admin: search", userID: "u1", query: "?search=MATH", want: []string{"c1", "c2"}},
		{name: "admin: teacher", userID: "u1", query: "?teacher_id=u4", want: []string{"c4", "c5"}},
		{name: "professor", userID: "u2", want: []string{"c1", "c2", "c3"}},
		{name: "professor: cannot see others", userID: "u2", query: "?teacher_id=u4", want: []string{"c1", "c2", "c3"}},
		{name: "student", userID: "u5", want: []string{"c1", "c2", "c4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var classes []school.ClassGroup
			req, rec := newAuthRequest(http.MethodGet, "/v1/classes"+tt.query, getToken(t, deps, tt.userID))
			decode(t, app, req, rec, http.StatusOK, &classes)
			assert.Equal(t, tt.want, classIDs(classes))
		})
	}

	t.Run("students count", func(t *testing.T) {
		var c map[string]interface{}
		req, rec := newAuthRequest(http.MethodGet, "/v1/classes/c1", getToken(t, deps, "u2"))
		decode(t, app, req, rec, http.StatusOK, &c)
		assert.Equal(t, 15.0, c["students_count"])
		assert.NotContains(t, c, "student_ids")
	})
}

func Test_classApi_access(t *testing.T) {
	app, deps := setup(t)
	prof2Token := getToken(t, deps, "u4")
	studentToken := getToken(t, deps, "u3")

	runHTTPTests(t, app, []httpTest{
		{name: "unknown class", path: "/v1/classes/lol", token: prof2Token, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "not their class", path: "/v1/classes/c1", token: prof2Token, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "not enrolled", path: "/v1/classes/c5", token: studentToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "enrolled", path: "/v1/classes/c4", token: studentToken, wantCode: http.StatusOK},
		{name: "roster: staff only", path: "/v1/classes/c4/students", token: studentToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "grades: staff only", path: "/v1/classes/c4/grades", token: studentToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "attendance: staff only", method: http.MethodPost, path: "/v1/classes/c4/attendance/2024-05-16", token: studentToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
	})

	var roster []school.Student
	req, rec := newAuthRequest(http.MethodGet, "/v1/classes/c4/students", prof2Token)
	decode(t, app, req, rec, http.StatusOK, &roster)
	require.Len(t, roster, 8)
	assert.Equal(t, inmemdb.StudentID(1), roster[0].ID)
	assert.Equal(t, "João Aluno", roster[0].Name)
}

func Test_attendanceApi(t *testing.T) {
	app, deps := setup(t)
	token := getToken(t, deps, "u4")
	base := "/v1/classes/c4/attendance/2024-05-16"
	st1, st2 := inmemdb.StudentID(1), inmemdb.StudentID(2)

	runHTTPTests(t, app, []httpTest{
		{name: "not open", path: base, token: token, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "attendance session not found"})},
		{name: "bad date", method: http.MethodPost, path: "/v1/classes/c4/attendance/16-05-2024", token: token, wantCode: http.StatusBadRequest},
	})

	var sess SessionResponse
	req, rec := newAuthRequest(http.MethodPost, base, token)
	decode(t, app, req, rec, http.StatusOK, &sess)
	require.Len(t, sess.Marks, 8)
	assert.Equal(t, 8, sess.Counts[attendance.StatusPresent])

	// PRESENT -> ABSENT -> LATE
	for i := 0; i < 2; i++ {
		req, rec = newAuthRequest(http.MethodPost, base+"/students/"+st1+"/toggle", token)
		decode(t, app, req, rec, http.StatusOK, &sess)
	}
	status, _ := sess.Status(st1)
	assert.Equal(t, attendance.StatusLate, status)

	req, rec = newAuthRequest(http.MethodPost, base+"/students/"+st2+"/toggle", token)
	decode(t, app, req, rec, http.StatusOK, &sess)
	assert.Equal(t, 6, sess.Counts[attendance.StatusPresent])
	assert.Equal(t, 1, sess.Counts[attendance.StatusAbsent])
	assert.Equal(t, 1, sess.Counts[attendance.StatusLate])

	runHTTPTests(t, app, []httpTest{
		{name: "toggle: not in class", method: http.MethodPost, path: base + "/students/" + inmemdb.StudentID(15) + "/toggle", token: token, wantCode: http.StatusBadRequest},
	})

	var rec1 attendance.Record
	req, rec = newAuthRequest(http.MethodPost, base+"/commit", token)
	decode(t, app, req, rec, http.StatusCreated, &rec1)
	assert.Equal(t, "u4", rec1.CommittedBy)
	assert.Equal(t, attendance.StatusAbsent, rec1.Statuses[st2])

	// the session stays open after commit
	req, rec = newAuthRequest(http.MethodGet, base, token)
	decode(t, app, req, rec, http.StatusOK, &sess)
	assert.Equal(t, 6, sess.Counts[attendance.StatusPresent])

	// re-opening resets
	req, rec = newAuthRequest(http.MethodPost, base, token)
	decode(t, app, req, rec, http.StatusOK, &sess)
	assert.Equal(t, 8, sess.Counts[attendance.StatusPresent])

	var sums []attendance.StudentSummary
	req, rec = newAuthRequest(http.MethodGet, "/v1/classes/c4/attendance/summary", token)
	decode(t, app, req, rec, http.StatusOK, &sums)
	require.Len(t, sums, 8)
	byID := make(map[string]attendance.StudentSummary, len(sums))
	for _, s := range sums {
		byID[s.StudentID] = s
	}
	assert.Equal(t, 100.0, byID[st1].Rate, "late is not an absence in s1")
	assert.Equal(t, 0.0, byID[st2].Rate)
	assert.True(t, byID[st2].BelowMinimum)

	var recs []attendance.Record
	req, rec = newAuthRequest(http.MethodGet, "/v1/classes/c4/attendance", token)
	decode(t, app, req, rec, http.StatusOK, &recs)
	assert.Len(t, recs, 1)
}

func Test_gradeApi(t *testing.T) {
	app, deps := setup(t)
	token := getToken(t, deps, "u2")
	st1 := inmemdb.StudentID(1)

	runHTTPTests(t, app, []httpTest{
		{name: "set: student not in class", method: http.MethodPut, path: "/v1/classes/c3/grades", token: token, body: []byte(`{"student_id": "` + st1 + `", "assessment_id": "a1", "value": 5}`), wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{
			"student_id": "student not in class",
		})},
		{name: "set: assessment not in class", method: http.MethodPut, path: "/v1/classes/c2/grades", token: token, body: []byte(`{"student_id": "` + st1 + `", "assessment_id": "a1", "value": 5}`), wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{
			"assessment_id": "assessment not in class",
		})},
		{name: "set: missing value", method: http.MethodPut, path: "/v1/classes/c1/grades", token: token, body: []byte(`{"student_id": "` + st1 + `", "assessment_id": "a1"}`), wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{
			"value": "this field is required",
		})},
		{name: "set: above max", method: http.MethodPut, path: "/v1/classes/c1/grades", token: token, body: []byte(`{"student_id": "` + st1 + `", "assessment_id": "a1", "value": 11}`), wantCode: http.StatusBadRequest},
		{name: "set", method: http.MethodPut, path: "/v1/classes/c1/grades", token: token, body: []byte(`{"student_id": "` + st1 + `", "assessment_id": "a1", "value": 5.5}`), wantCode: http.StatusOK, wantData: marchallObj(t, grade.Record{
			StudentID: st1, AssessmentID: "a1", Value: 5.5,
		})},
	})

	var sheet grade.Sheet
	req, rec := newAuthRequest(http.MethodGet, "/v1/classes/c1/grades", token)
	decode(t, app, req, rec, http.StatusOK, &sheet)
	require.Len(t, sheet.Rows, 15)
	assert.Equal(t, 5.5, sheet.Rows[0].Grades["a1"])

	var a grade.Assessment
	req, rec = newAuthRequest(http.MethodPost, "/v1/classes/c2/assessments", token, []byte(`{"name": "Quiz", "date": "2024-05-20"}`))
	decode(t, app, req, rec, http.StatusCreated, &a)
	assert.Equal(t, "c2", a.ClassID)
	assert.Equal(t, 10.0, a.MaxScore)

	var as []grade.Assessment
	req, rec = newAuthRequest(http.MethodGet, "/v1/classes/c2/assessments", token)
	decode(t, app, req, rec, http.StatusOK, &as)
	assert.Equal(t, []grade.Assessment{a}, as)
}

func Test_gradeApi_reportCard(t *testing.T) {
	app, deps := setup(t)

	t.Run("student", func(t *testing.T) {
		var card grade.ReportCard
		req, rec := newAuthRequest(http.MethodGet, "/v1/report-card", getToken(t, deps, "u3"))
		decode(t, app, req, rec, http.StatusOK, &card)
		assert.Equal(t, inmemdb.StudentID(1), card.Student.ID)
		require.NotEmpty(t, card.Lines)
		assert.Equal(t, "c1", card.Lines[0].ClassID)
		require.NotNil(t, card.Lines[0].Average)
		assert.Equal(t, 9.3, *card.Lines[0].Average)
		assert.Equal(t, grade.StatusApproved, card.Lines[0].Status)
	})

	t.Run("staff", func(t *testing.T) {
		var card grade.ReportCard
		req, rec := newAuthRequest(http.MethodGet, "/v1/report-card?student_id="+inmemdb.StudentID(2), getToken(t, deps, "u2"))
		decode(t, app, req, rec, http.StatusOK, &card)
		assert.Equal(t, "Pedro Santos", card.Student.Name)
	})

	runHTTPTests(t, app, []httpTest{
		{name: "staff: unknown student", path: "/v1/report-card?student_id=nope", token: getToken(t, deps, "u1"), wantCode: http.StatusNotFound},
		{name: "staff: student of another school", path: "/v1/report-card?student_id=sj1", token: getToken(t, deps, "u1"), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
	})

	t.Run("portal disabled", func(t *testing.T) {
		_, err := deps.SchoolSvc.ToggleStudentAccess(bgCtx, "s1", school.AccessEnabled)
		require.NoError(t, err)
		runHTTPTests(t, app, []httpTest{
			{name: "report card", path: "/v1/report-card", token: getToken(t, deps, "u3"), wantCode: http.StatusForbidden},
			{name: "contents", path: "/v1/classes/c1/contents", token: getToken(t, deps, "u3"), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
			{name: "staff unaffected", path: "/v1/report-card?student_id=" + inmemdb.StudentID(1), token: getToken(t, deps, "u1"), wantCode: http.StatusOK},
		})
	})
}

func Test_classworkApi(t *testing.T) {
	app, deps := setup(t)
	token := getToken(t, deps, "u2")
	studentToken := getToken(t, deps, "u3")

	runHTTPTests(t, app, []httpTest{
		{name: "add: staff only", method: http.MethodPost, path: "/v1/classes/c1/tasks", token: studentToken, body: []byte(`{}`), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "add: invalid", method: http.MethodPost, path: "/v1/classes/c1/tasks", token: token, body: []byte(`{"title": "Sheet 6"}`), wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{
			"due_date": "this field is required",
		})},
	})

	var c classwork.Content
	req, rec := newAuthRequest(http.MethodPost, "/v1/classes/c1/contents", token, []byte(`{"description": "Quadratic equations"}`))
	decode(t, app, req, rec, http.StatusCreated, &c)
	assert.Equal(t, "2024-05-16", c.Date)

	var cs []classwork.Content
	req, rec = newAuthRequest(http.MethodGet, "/v1/classes/c1/contents", studentToken)
	decode(t, app, req, rec, http.StatusOK, &cs)
	require.Len(t, cs, 4)
	assert.Equal(t, c, cs[0])

	var ts []classwork.Task
	req, rec = newAuthRequest(http.MethodGet, "/v1/classes/c1/tasks", studentToken)
	decode(t, app, req, rec, http.StatusOK, &ts)
	assert.Len(t, ts, 2)
}

func Test_gradeApi_schoolReport(t *testing.T) {
	app, deps := setup(t)

	runHTTPTests(t, app, []httpTest{
		{name: "not authed", path: "/v1/reports", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "professor", path: "/v1/reports", token: getToken(t, deps, "u2"), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "student", path: "/v1/reports", token: getToken(t, deps, "u3"), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
	})

	zero := 0.0
	_, err := deps.GradeSvc.SetGrade(bgCtx, grade.SetGrade{StudentID: "st2", AssessmentID: "a3", Value: &zero})
	require.NoError(t, err)

	var report grade.SchoolReport
	req, rec := newAuthRequest(http.MethodGet, "/v1/reports", getToken(t, deps, "u1"))
	decode(t, app, req, rec, http.StatusOK, &report)

	require.Len(t, report.Classes, 5)
	assert.Equal(t, "c1", report.Classes[0].ClassID)
	require.NotNil(t, report.Classes[0].Average)
	assert.InDelta(t, 7.7, *report.Classes[0].Average, 1e-9)
	require.Len(t, report.Distribution, 4)
	assert.Equal(t, "CRITICAL", report.Distribution[3].Label)
	assert.Equal(t, 1, report.Distribution[3].Count)
	assert.Empty(t, report.MonthlyAttendance)
	require.Len(t, report.AtRisk, 1)
	assert.Equal(t, "st2", report.AtRisk[0].Student.ID)
	assert.Equal(t, grade.StatusRecovery, report.AtRisk[0].Status)
}
