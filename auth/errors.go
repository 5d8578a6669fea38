package auth

import "errors"

// ErrInFlight is returned when an operation is triggered while the same
// operation is still pending, guarding against rapid repeated submits.
var ErrInFlight = errors.New("operation already in progress")

// FlowError is a login or registration failure converted to displayable
// state: a general dismissible message plus optional per-field messages
// merged from backend validation.
type FlowError struct {
	Message string
	Fields  FieldErrors
	cause   error
}

func (e *FlowError) Error() string { return e.Message }

// Unwrap exposes the underlying API error so callers can still branch on
// sentinels like api.ErrUnreachable.
func (e *FlowError) Unwrap() error { return e.cause }
