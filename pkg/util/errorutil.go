package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by the clients, the stores and the portal.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeHTTP         = "HTTP_ERROR"
	CodeTransport    = "TRANSPORT_ERROR"
	CodeDecode       = "DECODE_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
	CodeFailed       = "OPERATION_FAILED"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
	// Redirect, when set, tells the client where to navigate next.
	Redirect string
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// WithRedirect attaches a navigation target to err.
func WithRedirect(err error, path string) error {
	domainErr := ToDomainError(err)
	if domainErr == nil {
		return nil
	}
	out := *domainErr
	out.Redirect = path
	return &out
}

// NewValidationError carries per-field messages in Details.
func NewValidationError(message string, fields map[string]string) error {
	details := make(map[string]any, len(fields))
	for field, msg := range fields {
		details[field] = msg
	}
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewHTTPError reports a non-2xx answer from a remote service.
func NewHTTPError(status int) error {
	return &DomainError{
		Code:       CodeHTTP,
		Message:    fmt.Sprintf("HTTP error! status: %d", status),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"status": status},
	}
}

// NewTransportError wraps a failure to reach a remote service.
func NewTransportError(err error) error {
	return &DomainError{
		Code:       CodeTransport,
		Message:    "remote service unreachable",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewDecodeError wraps a malformed payload from a remote service.
func NewDecodeError(err error) error {
	return &DomainError{
		Code:       CodeDecode,
		Message:    "malformed response payload",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewOperationFailed reports a store operation that answered false; message
// is the notification shown to the user.
func NewOperationFailed(message string, status int) error {
	if message == "" {
		message = "Something went wrong. Please try again."
	}
	return NewDomainError(CodeFailed, message, status, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// RemoteStatus returns the status carried by an HTTP error, or 0.
func RemoteStatus(err error) int {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return 0
	}
	if domainErr.Code == CodeUnauthorized {
		return http.StatusUnauthorized
	}
	if status, ok := domainErr.Details["status"].(int); ok {
		return status
	}
	return 0
}

// UserMessage is the text shown to a person for err.
func UserMessage(err error) string {
	domainErr := ToDomainError(err)
	switch domainErr.Code {
	case CodeUnauthorized:
		return "Your session has expired. Please sign in again."
	case CodeTransport:
		return "Unable to reach the server. Please try again."
	case CodeDecode:
		return "Received an unexpected response from the server."
	case CodeHTTP, CodeValidation, CodeNotFound, CodeForbidden, CodeConflict, CodeFailed:
		return domainErr.Message
	default:
		return "Something went wrong. Please try again."
	}
}
