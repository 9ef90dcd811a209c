package errors

import (
	"fmt"
	"net/http"
)

// Kind classifies an application error. The HTTP boundary maps kinds to
// status codes directly instead of matching on message fragments.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindNotFound     Kind = "NOT_FOUND"
	KindNoTranscript Kind = "NO_TRANSCRIPT"
	KindUpstream     Kind = "UPSTREAM"
	KindSignature    Kind = "SIGNATURE"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL"
)

// AppError is the application error type carried between the service
// layer and the HTTP boundary.
type AppError struct {
	Raw      error
	HTTPCode int
	Kind     Kind
	Message  string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause
func (e *AppError) Unwrap() error {
	return e.Raw
}

// ErrValidation reports a bad request. The message is user facing and, for
// a handful of fields, fixed verbatim by the API contract.
func ErrValidation(message string) *AppError {
	return &AppError{
		HTTPCode: http.StatusBadRequest,
		Kind:     KindValidation,
		Message:  message,
	}
}

// ErrNotFound reports that an id did not resolve to a resource.
func ErrNotFound(resource string) *AppError {
	return &AppError{
		HTTPCode: http.StatusNotFound,
		Kind:     KindNotFound,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

// ErrNoTranscript reports a process request on a meeting that has no
// transcript source. Remapped to 400 rather than 500 on purpose: the
// caller can fix it by attaching a transcript.
func ErrNoTranscript() *AppError {
	return &AppError{
		HTTPCode: http.StatusBadRequest,
		Kind:     KindNoTranscript,
		Message:  "Meeting has no transcript to process",
	}
}

// ErrUpstream reports a failed third-party call (LLM, notetaker provider,
// transcript download).
func ErrUpstream(service string, err error) *AppError {
	return &AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Kind:     KindUpstream,
		Message:  fmt.Sprintf("Upstream call failed: %s", service),
	}
}

// ErrSignature reports a webhook signature that did not verify.
func ErrSignature() *AppError {
	return &AppError{
		HTTPCode: http.StatusUnauthorized,
		Kind:     KindSignature,
		Message:  "Invalid signature",
	}
}

// ErrConflict reports an operation rejected because of the resource's
// current state (e.g. a meeting already being processed).
func ErrConflict(message string) *AppError {
	return &AppError{
		HTTPCode: http.StatusConflict,
		Kind:     KindConflict,
		Message:  message,
	}
}

// ErrInternal wraps anything unexpected.
func ErrInternal(err error) *AppError {
	return &AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Kind:     KindInternal,
		Message:  "Internal server error",
	}
}
