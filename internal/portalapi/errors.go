package portalapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrTransport          = errors.New("upstream unreachable")
	ErrUnexpectedEnvelope = errors.New("unexpected response envelope")
)

// APIError is a non-2xx answer from the backend with its message extracted
// from whatever error envelope it carried.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}

	return 0
}

// parseError reads the message out of an error envelope, trying in order
// detail, message, error, non_field_errors and finally the per-field
// validation map.
func parseError(status int, body []byte) *APIError {
	fallback := fmt.Sprintf("HTTP %d", status)

	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err == nil {
		if msg := joinValues(list); msg != "" {
			return &APIError{Status: status, Message: msg}
		}
		return &APIError{Status: status, Message: fallback}
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil || len(env) == 0 {
		return &APIError{Status: status, Message: fallback}
	}

	for _, key := range []string{"detail", "message", "error", "non_field_errors"} {
		if raw, ok := env[key]; ok {
			if msg := render(raw); msg != "" {
				return &APIError{Status: status, Message: msg}
			}
		}
	}

	fields := make([]string, 0, len(env))
	for k := range env {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if msg := render(env[field]); msg != "" {
			parts = append(parts, field+": "+msg)
		}
	}
	if len(parts) == 0 {
		return &APIError{Status: status, Message: fallback}
	}

	return &APIError{Status: status, Message: strings.Join(parts, "; ")}
}

func render(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return joinValues(list)
	}

	var null any
	if err := json.Unmarshal(raw, &null); err == nil && null == nil {
		return ""
	}

	return string(raw)
}

func joinValues(list []json.RawMessage) string {
	parts := make([]string, 0, len(list))
	for _, item := range list {
		if msg := render(item); msg != "" {
			parts = append(parts, msg)
		}
	}

	return strings.Join(parts, ", ")
}
