// Package apperror defines the application's error taxonomy.
//
// Every failure the API can report is classified by one of the sentinel
// errors below. The service layer returns *AppError values wrapping a
// sentinel; the HTTP layer translates them to status codes with errors.Is.
// Neither layer ever exposes raw database or library errors to the client.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError describes a single failed field in a request. Loc mirrors the
// request structure ("body"/"query"/"path" followed by the field name) so a
// client can point at exactly what was wrong. Type is a machine-readable
// error kind, Msg the human-readable one.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// AppError is the error type returned by the service layer.
//
// For single-cause failures (not found, conflict, forbidden) only Message is
// set. For validation failures Fields carries one entry per offending field —
// validation never stops at the first problem, it collects everything and
// reports it all at once.
type AppError struct {
	Err     error  // sentinel classifying the error
	Message string // human-readable message for single-cause failures
	Fields  []FieldError
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%d field error(s)", len(e.Fields))
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource. The message format is part of the API
// contract: `no snippet with id X found`.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("no %s with id %s found", resource, id),
	}
}

// Forbidden reports a valid identity with insufficient rights on the target
// resource. Handlers map this to 403.
func Forbidden() *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: "Access denied for the resource",
	}
}

// Unauthorized reports a missing or unusable identity. Handlers map this to
// 401 with a WWW-Authenticate: Bearer header.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Conflict reports a uniqueness violation, e.g. a duplicate pseudo or email.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Validation bundles the given field errors into a single 422-class error.
func Validation(fields ...FieldError) *AppError {
	return &AppError{
		Err:    ErrValidation,
		Fields: fields,
	}
}

// MissingField reports a mandatory field absent from the request body.
func MissingField(field string) FieldError {
	return FieldError{
		Loc:  []string{"body", field},
		Msg:  "field required",
		Type: "value_error.missing",
	}
}

// UnknownReference reports a language or style name that does not resolve to
// a seeded entity. kind is the singular resource name ("language", "style");
// the message points the caller at the listing endpoint.
func UnknownReference(kind, value string) FieldError {
	return FieldError{
		Loc: []string{"body", kind},
		Msg: fmt.Sprintf("No %s %s found. Please look at /%ss for the list of available %ss.",
			kind, value, kind, kind),
		Type: "value_error",
	}
}

// Aggregator collects field errors over the course of one request's
// validation. All checks run to completion before the result is consulted,
// so a request with several independent problems reports them together.
type Aggregator struct {
	fields []FieldError
}

// Add records a field error.
func (a *Aggregator) Add(f FieldError) {
	a.fields = append(a.fields, f)
}

// Empty reports whether no errors were collected.
func (a *Aggregator) Empty() bool {
	return len(a.fields) == 0
}

// Err returns nil if nothing was collected, otherwise a validation AppError
// carrying every collected field error in insertion order.
func (a *Aggregator) Err() error {
	if len(a.fields) == 0 {
		return nil
	}
	return Validation(a.fields...)
}
