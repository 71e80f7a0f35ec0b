package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// FallbackMessage is shown when nothing better describes a failure.
const FallbackMessage = "Something went wrong. Please try again."

// Error is the normalized form of every failed call: transport failures
// (Err set, StatusCode 0) and non-2xx responses alike.
type Error struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Raw        string `json:"-"` // server "error" field
	StatusCode int    `json:"statusCode"`
	Err        error  `json:"-"` // transport error
}

func (e *Error) Error() string { return ErrorMessage(e) }

func (e *Error) Unwrap() error { return e.Err }

// Unauthorized reports whether the server rejected the credentials.
func (e *Error) Unauthorized() bool { return e.StatusCode == http.StatusUnauthorized }

func newTransportError(err error) *Error {
	return &Error{Status: StatusFailed, Err: err}
}

// newResponseError reads {status, message} (or echo's {error}) from a failed response body.
func newResponseError(code int, body []byte) *Error {
	e := &Error{Status: StatusFailed, StatusCode: code}

	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) == nil {
		if status := stringField(fields, "status"); status != "" {
			e.Status = status
		}
		e.Message = stringField(fields, "message")
		e.Raw = stringField(fields, "error")
	}
	if e.Message == "" && e.Raw == "" {
		e.Err = fmt.Errorf("request failed with status code %d", code)
	}
	return e
}

// ErrorMessage extracts a human-readable message from err. It checks, in order:
// the normalized message, the raw server message, the transport error message
// and finally FallbackMessage.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var gErr *Error
	if !errors.As(err, &gErr) {
		if msg := err.Error(); msg != "" {
			return msg
		}
		return FallbackMessage
	}
	switch {
	case gErr.Message != "":
		return gErr.Message
	case gErr.Raw != "":
		return gErr.Raw
	case gErr.Err != nil && gErr.Err.Error() != "":
		return gErr.Err.Error()
	default:
		return FallbackMessage
	}
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var gErr *Error
	return errors.As(err, &gErr) && gErr.Unauthorized()
}

// StatusCode returns the HTTP status of a failed call, 0 for transport failures.
func StatusCode(err error) int {
	var gErr *Error
	if errors.As(err, &gErr) {
		return gErr.StatusCode
	}
	return 0
}
