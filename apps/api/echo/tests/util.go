package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	echoapi "github.com/trezcool/masomo/portal/apps/api/echo"
	"github.com/trezcool/masomo/portal/core"
	in_memdb "github.com/trezcool/masomo/portal/database/in-mem"
	"github.com/trezcool/masomo/portal/tests"
)

var errMissingToken = httpErr{Status: "failed", Message: "user not authenticated"}

type fixture struct {
	app     echoapi.Server
	db      *in_memdb.DB
	admin   in_memdb.Account
	teacher in_memdb.Account
	student in_memdb.Account
}

func setup(t *testing.T) *fixture {
	app, db := testutil.NewServer(t)
	return &fixture{
		app:     app,
		db:      db,
		admin:   testutil.CreateAccount(t, db, core.RoleAdmin, "Admin", "admin@test.cd"),
		teacher: testutil.CreateAccount(t, db, core.RoleTeacher, "Teacher", "teacher@test.cd"),
		student: testutil.CreateAccount(t, db, core.RoleStudent, "Student", "student@test.cd"),
	}
}

func (f *fixture) token(t *testing.T, acc in_memdb.Account) string {
	return testutil.Token(t, f.app, acc)
}

func (f *fixture) serve(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, echoapi.BasePath+tt.path, tt.token, tt.body)
	f.app.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

var errDuplicateEmail = httpErr{
	Status:  "failed",
	Message: "a user with this email already exists",
	Errors:  map[string]string{"email": "a user with this email already exists"},
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
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

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

// decodeData unmarshals the data of a success envelope into v.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) envelope {
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decodeData(): %v; body %s", err, rec.Body.String())
	}
	if v != nil {
		if err := json.Unmarshal(env.Data, v); err != nil {
			t.Fatalf("decodeData(): %v; data %s", err, env.Data)
		}
	}
	return env
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
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
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

func runHTTPTests(t *testing.T, f *fixture, tests []httpTest) {
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, f.serve(tt))
		})
	}
}
