package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/exam"
	in_memdb "github.com/trezcool/masomo/portal/database/in-mem"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "invalid login credentials")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler writing the
// {status: "failed", message} error envelope.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code := http.StatusInternalServerError
		resp := errorResponse{Status: "failed"}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				origErr = errUnauthorized
			}
			if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
				origErr = herr
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				resp.Message = msg
			} else {
				resp.Message = http.StatusText(code)
			}
		case *core.ValidationError:
			code = http.StatusBadRequest
			resp.Message = origErr.Error()
			if len(origErr.Fields) > 0 {
				resp.Errors = origErr.FieldMap()
			}
		default:
			switch errors.Cause(err) {
			case in_memdb.ErrNotFound:
				code = http.StatusNotFound
				resp.Message = errHttpNotFound.Message.(string)
			case in_memdb.ErrEmailExists:
				code = http.StatusBadRequest
				resp.Message = in_memdb.ErrEmailExists.Error()
				resp.Errors = map[string]string{"email": resp.Message}
			case in_memdb.ErrAlreadySubmitted, exam.ErrNotFullyGraded, exam.ErrAlreadyPublished:
				code = http.StatusBadRequest
				resp.Message = errors.Cause(err).Error()
			default: // any other error is a server error
				resp.Message = http.StatusText(code)
				var usr interface{}
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr = map[string]interface{}{"id": claims.Subject, "email": claims.Email, "role": claims.Role}
				}
				logger.Error(resp.Message, errors.Wrap(err, resp.Message), usr)
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			resp.Message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
