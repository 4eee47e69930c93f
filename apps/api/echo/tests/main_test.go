package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	. "github.com/trezcool/schooldash/apps/api/echo"
	"github.com/trezcool/schooldash/core/user"
	testutil "github.com/trezcool/schooldash/tests"
)

var (
	bgCtx = context.Background()

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

// setup serves a freshly seeded app with frozen clocks.
func setup(t *testing.T) (Server, *testutil.Deps) {
	restore := testutil.FreezeTime()
	t.Cleanup(restore)

	deps := testutil.PrepareDeps()
	app := NewServer(ServerDeps{
		Conf:            deps.Conf,
		Logger:          deps.Logger,
		Validate:        deps.Validate,
		Translator:      deps.Translator,
		UserSvc:         deps.UserSvc,
		SchoolSvc:       deps.SchoolSvc,
		CalendarSvc:     deps.CalendarSvc,
		AttendanceSvc:   deps.AttendanceSvc,
		GradeSvc:        deps.GradeSvc,
		ClassworkSvc:    deps.ClassworkSvc,
		AnnouncementSvc: deps.AnnouncementSvc,
	})
	return app, deps
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getUser(t *testing.T, deps *testutil.Deps, id string) user.User {
	usr, err := deps.UserSvc.GetByID(bgCtx, id)
	if err != nil {
		t.Fatalf("getUser(%s): %v", id, err)
	}
	return usr
}

func getToken(t *testing.T, deps *testutil.Deps, userID string) string {
	token, err := GenerateToken(deps.Conf, GetUserClaims(deps.Conf, getUser(t, deps, userID)))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app Server, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

// decode runs the request & unmarshals a successful response into v.
func decode(t *testing.T, app Server, req *http.Request, rec *httptest.ResponseRecorder, wantCode int, v interface{}) {
	t.Helper()
	app.ServeHTTP(rec, req)
	if rec.Code != wantCode {
		t.Fatalf("%s %s: code = %v; wantCode %v; body %s", req.Method, req.URL, rec.Code, wantCode, rec.Body.String())
	}
	if v != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
	}
}
