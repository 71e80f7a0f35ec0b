package tests

import (
	"net/http"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/masomo/portal/apps/api/echo"
	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/account"
	"github.com/trezcool/masomo/portal/tests"
)

func Test_accountApi_login(t *testing.T) {
	f := setup(t)
	creds := func(email, pwd string) []byte {
		return marchallObj(t, account.Credentials{Email: email, Password: pwd})
	}

	tests := []httpTest{
		{name: "Invalid body", path: "/admins/login", body: creds("not-an-email", ""), wantCode: http.StatusBadRequest},
		{
			name: "Wrong password", path: "/admins/login", body: creds("admin@test.cd", "nope"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Status: "failed", Message: "invalid login credentials"}),
		},
		{
			name: "Wrong role", path: "/teachers/login", body: creds("admin@test.cd", testutil.Password), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Status: "failed", Message: "invalid login credentials"}),
		},
		{name: "Admin", path: "/admins/login", body: creds("ADMIN@test.cd", testutil.Password)},
		{name: "Teacher", path: "/teachers/login", body: creds("teacher@test.cd", testutil.Password)},
		{name: "Student", path: "/students/login", body: creds("student@test.cd", testutil.Password)},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(tt)
			if tt.wantCode != http.StatusOK {
				checkCodeAndData(t, tt, rec)
				return
			}
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			var token string
			env := decodeData(t, rec, &token)
			assert.Equal(t, "success", env.Status)
			assert.Contains(t, env.Message, "logged in successfully")

			claims := new(echoapi.Claims)
			_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(testutil.SecretKey), nil
			})
			require.NoError(t, err)
			assert.NotEmpty(t, claims.Name)
		})
	}
}

func Test_accountApi_deactivated(t *testing.T) {
	f := setup(t)
	acc := f.student
	acc.IsSuspended = true
	require.NoError(t, f.db.UpdateAccount(acc))

	runHTTPTests(t, f, []httpTest{{
		name: "Suspended student", method: http.MethodPost, path: "/students/login",
		body:     marchallObj(t, account.Credentials{Email: "student@test.cd", Password: testutil.Password}),
		wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Status: "failed", Message: "account deactivated"}),
	}})
}

func Test_accountApi_register(t *testing.T) {
	f := setup(t)
	newAcc := func(name, email, pwd string) []byte {
		return marchallObj(t, account.NewAccount{Name: name, Email: email, Password: pwd, PasswordConfirm: pwd})
	}

	runHTTPTests(t, f, []httpTest{
		{
			name: "Admin self registration", method: http.MethodPost, path: "/admins/register",
			body: newAcc("Root", "root@test.cd", "Sup3r$ecret"), wantCode: http.StatusCreated,
		},
		{
			name: "Duplicate email", method: http.MethodPost, path: "/admins/register",
			body: newAcc("Root", "root@test.cd", "Sup3r$ecret"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, errDuplicateEmail),
		},
		{
			name: "Weak password", method: http.MethodPost, path: "/admins/register",
			body: newAcc("Root", "root2@test.cd", "12345678"), wantCode: http.StatusBadRequest,
		},
		{
			name: "Teacher registration requires auth", method: http.MethodPost, path: "/teachers/admin/register",
			body: newAcc("Jane", "jane@test.cd", "Sup3r$ecret"), wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Teacher registration requires admin", method: http.MethodPost, path: "/teachers/admin/register",
			body: newAcc("Jane", "jane@test.cd", "Sup3r$ecret"), token: f.token(t, f.teacher), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Status: "failed", Message: "permission denied"}),
		},
		{
			name: "Teacher registered by admin", method: http.MethodPost, path: "/teachers/admin/register",
			body: newAcc("Jane", "jane@test.cd", "Sup3r$ecret"), token: f.token(t, f.admin), wantCode: http.StatusCreated,
		},
	})

	_, err := f.db.AccountByEmail(core.RoleTeacher, "jane@test.cd")
	assert.NoError(t, err)
}

func Test_accountApi_profile(t *testing.T) {
	f := setup(t)
	other := testutil.CreateAccount(t, f.db, core.RoleTeacher, "Other", "other@test.cd")

	runHTTPTests(t, f, []httpTest{
		{name: "Auth required", path: "/teachers/profile", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Invalid token", path: "/teachers/profile", token: "not.a.jwt", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Status: "failed", Message: "invalid or expired jwt"}),
		},
		{
			name: "Wrong role", path: "/teachers/profile", token: f.token(t, f.student), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Status: "failed", Message: "permission denied"}),
		},
		{
			name: "Own profile", path: "/teachers/profile", token: f.token(t, f.teacher),
			wantData: marchallObj(t, envelope{Status: "success", Data: marchallObj(t, f.teacher.Profile())}),
		},
		{
			name: "Update", method: http.MethodPut, path: "/teachers/profile", token: f.token(t, f.teacher),
			body: []byte(`{"name":"Mrs Teacher"}`),
		},
		{
			name: "Email taken", method: http.MethodPut, path: "/teachers/profile", token: f.token(t, f.teacher),
			body: []byte(`{"email":"` + other.Email + `"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, errDuplicateEmail),
		},
	})

	acc, err := f.db.AccountByID(core.RoleTeacher, f.teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mrs Teacher", acc.Name)
}

func Test_accountApi_queryStudents(t *testing.T) {
	f := setup(t)
	testutil.CreateAccount(t, f.db, core.RoleStudent, "Bob", "bob@test.cd")
	testutil.CreateAccount(t, f.db, core.RoleStudent, "Bobby", "bobby@test.cd")
	token := f.token(t, f.admin)

	tests := []struct {
		path      string
		wantTotal int
		wantNames []string
	}{
		{path: "/students/admin", wantTotal: 3, wantNames: []string{"Bob", "Bobby", "Student"}},
		{path: "/students/admin?name=bob", wantTotal: 2, wantNames: []string{"Bob", "Bobby"}},
		{path: "/students/admin?name=BOBBY", wantTotal: 1, wantNames: []string{"Bobby"}},
		{path: "/students/admin?page=9", wantTotal: 3, wantNames: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := f.serve(httpTest{method: http.MethodGet, path: tt.path, token: token})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var page struct {
				account.Page
				Students []account.Student `json:"students"`
			}
			decodeData(t, rec, &page)
			assert.Equal(t, tt.wantTotal, page.Total)
			names := make([]string, 0, len(page.Students))
			for _, s := range page.Students {
				names = append(names, s.Name)
			}
			assert.ElementsMatch(t, tt.wantNames, names)
		})
	}

	t.Run("page size", func(t *testing.T) {
		rec := f.serve(httpTest{method: http.MethodGet, path: "/students/admin?limit=2&page=2", token: token})
		var page struct {
			account.Page
			Students []account.Student `json:"students"`
		}
		decodeData(t, rec, &page)
		assert.Equal(t, account.Page{Total: 3, Page: 2, Limit: 2}, page.Page)
		assert.Len(t, page.Students, 1)
	})
}

func Test_accountApi_updateStudent(t *testing.T) {
	f := setup(t)
	token := f.token(t, f.admin)

	runHTTPTests(t, f, []httpTest{
		{name: "Unknown", path: "/students/nope/admin", token: token, wantCode: http.StatusNotFound},
		{
			name: "Suspend", method: http.MethodPut, path: "/students/" + f.student.ID + "/admin", token: token,
			body: []byte(`{"isSuspended":true,"currentClassLevel":"Level 200"}`),
		},
	})

	acc, err := f.db.AccountByID(core.RoleStudent, f.student.ID)
	require.NoError(t, err)
	assert.True(t, acc.IsSuspended)
	assert.Equal(t, "Level 200", acc.ClassLevel)
}
