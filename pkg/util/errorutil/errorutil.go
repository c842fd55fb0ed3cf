package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// Error codes, one per HTTP status the API emits.
const (
	CodeAuthMissing = "AUTH_MISSING"
	CodeAuthInvalid = "AUTH_INVALID"
	CodeNotFound    = "NOT_FOUND"
	CodeValidation  = "VALIDATION_FAILED"
	CodeUnexpected  = "INTERNAL_ERROR"
)

// Messages used by the authentication gate and the route fallback.
const (
	MsgNoToken       = "No token passed."
	MsgInvalidToken  = "Invalid token passed."
	MsgRouteNotFound = "Could not find this route."
	MsgInvalidInputs = "Invalid inputs passed, please check your data."
	MsgUnknown       = "An unknown error occurred!"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
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
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

func NewAuthMissing() error {
	return NewDomainError(CodeAuthMissing, MsgNoToken, http.StatusUnauthorized)
}

func NewAuthInvalid() error {
	return NewDomainError(CodeAuthInvalid, MsgInvalidToken, http.StatusForbidden)
}

// NewUnauthorized is used by handlers for credential failures (bad password).
func NewUnauthorized(message string) error {
	return NewDomainError(CodeAuthMissing, message, http.StatusUnauthorized)
}

func NewNotFound(message string) error {
	return NewDomainError(CodeNotFound, message, http.StatusNotFound)
}

func NewValidationError(message string, err error) error {
	return &DomainError{Code: CodeValidation, Message: message, HTTPStatus: http.StatusUnprocessableEntity, Err: err}
}

// NewUnexpected wraps err with a caller-facing message and status 500.
func NewUnexpected(message string, err error) error {
	if message == "" {
		message = MsgUnknown
	}
	return &DomainError{Code: CodeUnexpected, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
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
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusNotFound {
			return NewDomainError(CodeNotFound, MsgRouteNotFound, http.StatusNotFound)
		}
		return NewDomainError(codeForStatus(fiberErr.Code), fiberErr.Message, fiberErr.Code)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewDomainError(CodeNotFound, "resource not found", http.StatusNotFound)
	}
	return &DomainError{
		Code:       CodeUnexpected,
		Message:    MsgUnknown,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return CodeAuthMissing
	case http.StatusForbidden:
		return CodeAuthInvalid
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	default:
		return CodeUnexpected
	}
}
