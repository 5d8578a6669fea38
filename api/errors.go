package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two failure classes callers branch on.
var (
	// ErrUnreachable covers transport failures: the server could not be
	// contacted at all.
	ErrUnreachable = errors.New("cannot reach the server")
	// ErrUnauthorized covers 401/403 on a protected call: the credential
	// is missing, expired or insufficient.
	ErrUnauthorized = errors.New("not authorized")
)

// RequestError is a non-success JSON response from the API. The backend
// reports validation failures as a field -> messages map, plus an
// optional "detail" message used as the general error.
type RequestError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// FieldMessages returns the first message per field, the shape the form
// views render under each input.
func (e *RequestError) FieldMessages() map[string]string {
	if len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Fields))
	for field, messages := range e.Fields {
		if len(messages) > 0 {
			out[field] = messages[0]
		}
	}
	return out
}
