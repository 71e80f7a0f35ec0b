package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/session"
	"github.com/trezcool/masomo/portal/services/gateway"
	"github.com/trezcool/masomo/portal/storage/sessionstore"
)

func newStore(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.NewStore(context.Background(), sessionstore.NewMemoryStorage(), "masomo-auth")
	require.NoError(t, err)
	return store
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  string
		wantData    string
		wantMessage string
	}{
		{name: "wrapped", body: `{"status":"ok","data":{"id":"1"},"message":"fetched"}`, wantStatus: "ok", wantData: `{"id":"1"}`, wantMessage: "fetched"},
		{name: "wrapped, defaults", body: `{"data":[1,2]}`, wantStatus: "success", wantData: `[1,2]`},
		{name: "wrapped, null data", body: `{"status":"success","data":null}`, wantStatus: "success", wantData: `null`},
		{name: "unwrapped object", body: `{"token":123}`, wantStatus: "success", wantData: `{"token":123}`},
		{name: "unwrapped array", body: `[{"id":"1"}]`, wantStatus: "success", wantData: `[{"id":"1"}]`},
		{name: "unwrapped string", body: `"tok"`, wantStatus: "success", wantData: `"tok"`},
		{name: "plain text", body: `Welcome to Masomo API!`, wantStatus: "success", wantData: `"Welcome to Masomo API!"`},
		{name: "empty", body: ``, wantStatus: "success", wantData: `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := gateway.Normalize([]byte(tt.body))
			assert.Equal(t, tt.wantStatus, env.Status)
			assert.Equal(t, tt.wantMessage, env.Message)
			assert.JSONEq(t, tt.wantData, string(env.Data))
		})
	}
}

func TestClient_AttachesToken(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get(gateway.HeaderRequestID)
		_, _ = w.Write([]byte(`{"status":"success","data":{"name":"Admin"}}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	store := newStore(t)
	api := gateway.New(srv.URL, store)

	_, err := api.Get(ctx, "/admins/profile", nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "no session, no credential")
	assert.NotEmpty(t, gotReqID)

	require.NoError(t, store.SetAuth(ctx, "tok", core.RoleAdmin, session.User{}))
	env, err := api.Get(ctx, "/admins/profile", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)

	var profile struct{ Name string }
	require.NoError(t, env.Decode(&profile))
	assert.Equal(t, "Admin", profile.Name)
}

func TestClient_UnauthorizedForcesLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"failed","message":"token expired"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.SetAuth(ctx, "tok", core.RoleTeacher, session.User{}))

	api := gateway.New(srv.URL, store)
	var events int
	var loggedInDuringEvent bool
	api.OnUnauthorized(func() {
		events++
		loggedInDuringEvent = store.IsLoggedIn()
	})

	_, err := api.Get(ctx, "/exams", nil)
	require.Error(t, err)
	assert.True(t, gateway.IsUnauthorized(err))
	assert.Equal(t, "token expired", gateway.ErrorMessage(err))
	assert.Equal(t, 1, events)
	assert.False(t, loggedInDuringEvent, "session is cleared before the event fires")
	assert.False(t, store.IsLoggedIn())

	// the next call goes out unauthenticated and the event fires again
	_, err = api.Get(ctx, "/exams", nil)
	require.Error(t, err)
	assert.Equal(t, 2, events)
	assert.False(t, store.IsLoggedIn())
}

func TestClient_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		code        int
		body        string
		wantStatus  string
		wantMessage string
	}{
		{name: "server message", code: http.StatusBadRequest, body: `{"status":"failed","message":"Exam not found"}`, wantStatus: "failed", wantMessage: "Exam not found"},
		{name: "custom status", code: http.StatusConflict, body: `{"status":"error","message":"already exists"}`, wantStatus: "error", wantMessage: "already exists"},
		{name: "echo style error", code: http.StatusForbidden, body: `{"error":"permission denied"}`, wantStatus: "failed", wantMessage: "permission denied"},
		{name: "no body", code: http.StatusInternalServerError, body: ``, wantStatus: "failed", wantMessage: "request failed with status code 500"},
		{name: "html body", code: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantStatus: "failed", wantMessage: "request failed with status code 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := gateway.New(srv.URL, newStore(t)).Post(context.Background(), "/exams", map[string]string{"name": "x"})
			require.Error(t, err)

			var gErr *gateway.Error
			require.True(t, errors.As(err, &gErr))
			assert.Equal(t, tt.wantStatus, gErr.Status)
			assert.Equal(t, tt.code, gErr.StatusCode)
			assert.Equal(t, tt.wantMessage, gateway.ErrorMessage(err))
			assert.False(t, gateway.IsUnauthorized(err))
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	store := newStore(t)
	require.NoError(t, store.SetAuth(context.Background(), "tok", core.RoleStudent, session.User{}))

	_, err := gateway.New(url, store).Get(context.Background(), "/students/exams", nil)
	require.Error(t, err)
	assert.Equal(t, 0, gateway.StatusCode(err))
	assert.NotEqual(t, gateway.FallbackMessage, gateway.ErrorMessage(err))
	assert.True(t, store.IsLoggedIn(), "transport failures never log out")
}

func TestClient_SendsJSONBody(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/exam-results/7", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"data":{"isPublished":true}}`))
	}))
	defer srv.Close()

	_, err := gateway.New(srv.URL+"/api/v1/", newStore(t)).Put(context.Background(), "exam-results/7", map[string]bool{"publish": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"publish": true}, got)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "normalized first", err: &gateway.Error{Message: "a", Raw: "b", Err: errors.New("c")}, want: "a"},
		{name: "raw second", err: &gateway.Error{Raw: "b", Err: errors.New("c")}, want: "b"},
		{name: "transport third", err: &gateway.Error{Err: errors.New("c")}, want: "c"},
		{name: "fallback", err: &gateway.Error{}, want: gateway.FallbackMessage},
		{name: "plain error", err: errors.New("boom"), want: "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gateway.ErrorMessage(tt.err))
		})
	}
}
