package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core"
	in_memdb "github.com/trezcool/masomo/portal/database/in-mem"
)

const (
	issuer          = "masomo"
	contextTokenKey = "userToken"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
	Role  core.Role `json:"role"`
}

func (s *server) userClaims(acc in_memdb.Account) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    issuer,
			Subject:   acc.ID,
			ExpiresAt: now.Add(s.opts.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  acc.Name,
		Email: acc.Email,
		Role:  acc.Role,
	}
}

// GenerateToken generates a signed JWT token string for the account.
func (s *server) GenerateToken(acc in_memdb.Account) (string, error) {
	method := jwt.GetSigningMethod(s.jwt.SigningMethod)
	token := jwt.NewWithClaims(method, s.userClaims(acc))

	ss, err := token.SignedString(s.jwt.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (s *server) authenticate(role core.Role, email, pwd string) (in_memdb.Account, error) {
	acc, err := s.opts.DB.AccountByEmail(role, email)
	if err != nil {
		if err == in_memdb.ErrNotFound {
			return acc, errAuthenticationFailed
		}
		return acc, errors.Wrap(err, "finding account by email")
	}
	if err = acc.CheckPassword(pwd); err != nil {
		return acc, errAuthenticationFailed
	}
	if acc.IsWithdrawn || acc.IsSuspended {
		return acc, errAccountDeactivated
	}
	return acc, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
