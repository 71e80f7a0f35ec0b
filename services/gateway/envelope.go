package gateway

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Envelope is the canonical shape of every successful response.
type Envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Decode unmarshals the envelope data into v.
func (env *Envelope) Decode(v interface{}) error {
	if len(env.Data) == 0 {
		return errors.New("empty response data")
	}
	return errors.Wrap(json.Unmarshal(env.Data, v), "decoding response data")
}

// Normalize turns a successful response body into an Envelope.
// A JSON object with a "data" key is wrapped: status and message default to
// "success" and "". Any other body (scalar, array, object without "data", empty)
// is unwrapped and becomes the data itself.
func Normalize(body []byte) Envelope {
	env := Envelope{Status: StatusSuccess}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		env.Data = json.RawMessage("null")
		return env
	}

	var fields map[string]json.RawMessage
	if trimmed[0] == '{' && json.Unmarshal(trimmed, &fields) == nil {
		if data, ok := fields["data"]; ok {
			if status := stringField(fields, "status"); status != "" {
				env.Status = status
			}
			env.Message = stringField(fields, "message")
			env.Data = data
			return env
		}
	}

	if !json.Valid(trimmed) {
		// plain text body: expose it as a JSON string
		quoted, _ := json.Marshal(string(trimmed))
		env.Data = quoted
		return env
	}
	env.Data = append(json.RawMessage(nil), trimmed...)
	return env
}

// stringField returns fields[key] when it is a JSON string, "" otherwise.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}
