package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/account"
	"github.com/trezcool/masomo/portal/core/session"
	"github.com/trezcool/masomo/portal/services/gateway"
	"github.com/trezcool/masomo/portal/storage/sessionstore"
)

type postCall struct {
	path string
	body interface{}
}

type fakeAPI struct {
	calls []postCall
	data  string
	err   error
}

func (api *fakeAPI) Post(_ context.Context, path string, body interface{}) (*gateway.Envelope, error) {
	api.calls = append(api.calls, postCall{path: path, body: body})
	if api.err != nil {
		return nil, api.err
	}
	env := gateway.Normalize([]byte(api.data))
	return &env, nil
}

func newTestService(t *testing.T, api *fakeAPI) (*Service, *session.Store) {
	t.Helper()
	store, err := session.NewStore(context.Background(), sessionstore.NewMemoryStorage(), "masomo-auth")
	require.NoError(t, err)
	return NewService(api, store, nil), store
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestService_Login(t *testing.T) {
	creds := account.Credentials{Email: "Admin@Sch.Test", Password: "pwd"}
	jwtToken := signed(t, jwt.MapClaims{"name": "Ada Admin"})

	tests := []struct {
		name     string
		data     string
		wantErr  error
		wantName string
	}{
		{name: "wrapped token", data: `{"status":"success","data":"tok","message":"Admin logged in successfully"}`},
		{name: "unwrapped token", data: `"tok"`},
		{name: "jwt token with name claim", data: `{"data":"` + jwtToken + `"}`, wantName: "Ada Admin"},
		{name: "non-string token", data: `{"token":123}`, wantErr: ErrInvalidCredentials},
		{name: "wrapped non-string token", data: `{"data":{"token":123}}`, wantErr: ErrInvalidCredentials},
		{name: "empty token", data: `{"data":""}`, wantErr: ErrInvalidCredentials},
		{name: "null token", data: `{"data":null}`, wantErr: ErrInvalidCredentials},
		{name: "no body", data: ``, wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{data: tt.data}
			svc, store := newTestService(t, api)

			sess, err := svc.Login(context.Background(), core.RoleAdmin, creds)
			require.Len(t, api.calls, 1)
			assert.Equal(t, "/admins/login", api.calls[0].path)

			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.False(t, store.IsLoggedIn())
				assert.Equal(t, session.Session{}, store.Session())
				return
			}
			require.NoError(t, err)
			assert.True(t, store.IsLoggedIn())
			assert.Equal(t, core.RoleAdmin, sess.Role)
			require.NotNil(t, sess.User)
			assert.Equal(t, "admin@sch.test", sess.User.Email)
			assert.Equal(t, tt.wantName, sess.User.Name)
			assert.Equal(t, sess, store.Session())
		})
	}
}

func TestService_Login_PostsCredentials(t *testing.T) {
	api := &fakeAPI{data: `"tok"`}
	svc, _ := newTestService(t, api)

	for _, role := range core.AllRoles {
		_, err := svc.Login(context.Background(), role, account.Credentials{Email: "u@sch.test", Password: "pwd"})
		require.NoError(t, err)
	}
	require.Len(t, api.calls, 3)
	assert.Equal(t, "/admins/login", api.calls[0].path)
	assert.Equal(t, "/teachers/login", api.calls[1].path)
	assert.Equal(t, "/students/login", api.calls[2].path)

	body, err := json.Marshal(api.calls[2].body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"u@sch.test","password":"pwd"}`, string(body))
}

func TestService_Login_ValidatesBeforeNetwork(t *testing.T) {
	tests := []struct {
		name  string
		role  core.Role
		creds account.Credentials
	}{
		{name: "invalid role", role: core.Role("parent"), creds: account.Credentials{Email: "u@sch.test", Password: "pwd"}},
		{name: "malformed email", role: core.RoleStudent, creds: account.Credentials{Email: "nope", Password: "pwd"}},
		{name: "missing password", role: core.RoleStudent, creds: account.Credentials{Email: "u@sch.test"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{data: `"tok"`}
			svc, store := newTestService(t, api)

			_, err := svc.Login(context.Background(), tt.role, tt.creds)
			require.Error(t, err)
			assert.True(t, core.IsValidationError(err))
			assert.Empty(t, api.calls)
			assert.False(t, store.IsLoggedIn())
		})
	}
}

func TestService_Login_ServerFailureKeepsSession(t *testing.T) {
	api := &fakeAPI{err: &gateway.Error{Status: gateway.StatusFailed, Message: "authentication failed", StatusCode: 400}}
	svc, store := newTestService(t, api)
	require.NoError(t, store.SetAuth(context.Background(), "old", core.RoleTeacher, session.User{}))

	_, err := svc.Login(context.Background(), core.RoleAdmin, account.Credentials{Email: "a@sch.test", Password: "pwd"})
	require.Error(t, err)
	assert.Equal(t, "authentication failed", gateway.ErrorMessage(err))
	assert.Equal(t, "old", store.Token())
	assert.Equal(t, core.RoleTeacher, store.Role())
}

func TestService_Register(t *testing.T) {
	api := &fakeAPI{data: `{"status":"success","data":{"id":"t1"},"message":"Teacher registered successfully"}`}
	svc, store := newTestService(t, api)
	ctx := context.Background()
	require.NoError(t, store.SetAuth(ctx, "admin-token", core.RoleAdmin, session.User{Email: "a@sch.test"}))

	na := account.NewAccount{Name: "Tom Teacher", Email: "tom@sch.test", Password: "Str0ng!Pass", PasswordConfirm: "Str0ng!Pass"}
	require.NoError(t, svc.Register(ctx, core.RoleTeacher, na))
	require.Len(t, api.calls, 1)
	assert.Equal(t, "/teachers/admin/register", api.calls[0].path)

	// registration does not log in as the new account
	assert.Equal(t, "admin-token", store.Token())
	assert.Equal(t, core.RoleAdmin, store.Role())

	err := svc.Register(ctx, core.RoleStudent, account.NewAccount{Name: "S", Email: "s@sch.test", Password: "weak", PasswordConfirm: "weak"})
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))
	assert.Len(t, api.calls, 1, "invalid forms never reach the network")
}

func TestService_Logout(t *testing.T) {
	svc, store := newTestService(t, &fakeAPI{})
	ctx := context.Background()
	require.NoError(t, store.SetAuth(ctx, "tok", core.RoleStudent, session.User{}))

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, store.IsLoggedIn())
	require.NoError(t, svc.Logout(ctx))
}

func TestNameFromToken(t *testing.T) {
	assert.Equal(t, "", nameFromToken("opaque"))
	assert.Equal(t, "sam", nameFromToken(signed(t, jwt.MapClaims{"username": "sam"})))
	assert.Equal(t, "Sam S", nameFromToken(signed(t, jwt.MapClaims{"name": "Sam S", "username": "sam"})))
}
