// Package auth performs the role-specific login and registration calls.
package auth

import (
	"context"
	"encoding/json"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/account"
	"github.com/trezcool/masomo/portal/core/session"
	"github.com/trezcool/masomo/portal/services/gateway"
)

var (
	// errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
)

// API is the part of the gateway the auth service needs.
type API interface {
	Post(ctx context.Context, path string, body interface{}) (*gateway.Envelope, error)
}

type Service struct {
	api    API
	store  *session.Store
	logger core.Logger
}

func NewService(api API, store *session.Store, logger core.Logger) *Service {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Service{api: api, store: store, logger: logger}
}

// Login posts creds to the role's login endpoint and stores the returned token.
// A successful response whose data is not a non-empty string fails with ErrInvalidCredentials.
func (svc *Service) Login(ctx context.Context, role core.Role, creds account.Credentials) (session.Session, error) {
	if err := checkRole(role); err != nil {
		return session.Session{}, err
	}
	if err := creds.Validate(); err != nil {
		return session.Session{}, err
	}

	env, err := svc.api.Post(ctx, role.LoginPath(), creds)
	if err != nil {
		return session.Session{}, err
	}

	var token string
	if err := json.Unmarshal(env.Data, &token); err != nil || token == "" {
		svc.logger.Warn("login response carried no token", map[string]interface{}{"role": role.String()})
		return session.Session{}, ErrInvalidCredentials
	}

	usr := session.User{Name: nameFromToken(token), Email: creds.Email}
	if err := svc.store.SetAuth(ctx, token, role, usr); err != nil {
		return session.Session{}, errors.Wrap(err, "storing session")
	}
	return svc.store.Session(), nil
}

// Register posts a new account to the role's register endpoint. It never logs in.
func (svc *Service) Register(ctx context.Context, role core.Role, na account.NewAccount) error {
	if err := checkRole(role); err != nil {
		return err
	}
	if err := na.Validate(); err != nil {
		return err
	}
	_, err := svc.api.Post(ctx, role.RegisterPath(), na)
	return err
}

func (svc *Service) Logout(ctx context.Context) error {
	return svc.store.Logout(ctx)
}

func checkRole(role core.Role) error {
	if !role.Valid() {
		return core.NewValidationError(ErrInvalidRole, core.FieldError{Field: "role", Error: session.ErrInvalidRole.Error()})
	}
	return nil
}

// nameFromToken reads the display name from the token's claims, without verifying it.
// Opaque tokens yield "".
func nameFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, key := range []string{"name", "username"} {
		if name, ok := claims[key].(string); ok && name != "" {
			return name
		}
	}
	return ""
}
