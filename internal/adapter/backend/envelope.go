package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/iho/logiadmin/internal/domain"
)

// ErrRejected marks a request the backend refused for a reason other than
// authentication, such as a validation failure or success=false.
var ErrRejected = errors.New("request rejected by backend")

// StatusError is a non-success answer from the backend.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("backend %s: status %d", e.Endpoint, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap maps the status onto the domain error taxonomy so callers can use
// errors.Is. A 403 matches both ErrForbidden and ErrUnauthorized.
func (e *StatusError) Unwrap() []error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return []error{domain.ErrUnauthorized}
	case e.StatusCode == http.StatusForbidden:
		return []error{domain.ErrForbidden, domain.ErrUnauthorized}
	case e.StatusCode == http.StatusNotFound:
		return []error{domain.ErrNotFound}
	case e.StatusCode >= http.StatusInternalServerError:
		return []error{domain.ErrBackendUnavailable}
	default:
		return []error{ErrRejected}
	}
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// unwrapEnvelope normalizes the three body shapes the backend produces:
// {success, data, message}, a bare array and a bare object. The returned
// payload is the data of an envelope or the body itself.
func unwrapEnvelope(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		return json.RawMessage(trimmed), nil
	case '{':
	default:
		if isNull(trimmed) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: unexpected body %.32q", domain.ErrMalformedResponse, trimmed)
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if env.Success == nil {
		return json.RawMessage(trimmed), nil
	}
	if !*env.Success {
		return nil, &StatusError{StatusCode: http.StatusOK, Message: env.Message}
	}
	if isNull(env.Data) {
		return nil, nil
	}
	return env.Data, nil
}

// unwrapList extracts an array payload. Objects are searched for the first
// array-valued key among keys.
func unwrapList(payload json.RawMessage, keys ...string) (json.RawMessage, error) {
	if isNull(payload) {
		return json.RawMessage("[]"), nil
	}
	if payload[0] == '[' {
		return payload, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	for _, key := range keys {
		if v := bytes.TrimSpace(obj[key]); len(v) > 0 && v[0] == '[' {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: no list in response", domain.ErrMalformedResponse)
}

func errorMessage(body []byte) string {
	var env envelope
	if json.Unmarshal(body, &env) == nil {
		return env.Message
	}
	return ""
}

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
