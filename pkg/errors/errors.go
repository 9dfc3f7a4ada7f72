package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Partnership engine error codes. These are stable: the presentation
// layer translates them, raw internals never reach the end user.
const (
	ErrInvalidMessage ErrorCode = iota + 1000
	ErrSelfPartnership
	ErrDuplicateRequest
	ErrNotFound
	ErrAlreadyResolved
	ErrUnauthorized
	ErrNotActive
	ErrConflict
	ErrInfrastructure
	ErrBadRequest
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code to a transport status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrInvalidMessage, ErrSelfPartnership, ErrBadRequest:
		return http.StatusBadRequest
	case ErrDuplicateRequest, ErrConflict:
		return http.StatusConflict
	case ErrNotFound:
		return http.StatusNotFound
	case ErrAlreadyResolved, ErrNotActive:
		return http.StatusUnprocessableEntity
	case ErrUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Label returns the stable string form of the code.
func (e *AppError) Label() string {
	switch e.Code {
	case ErrInvalidMessage:
		return "INVALID_MESSAGE"
	case ErrSelfPartnership:
		return "SELF_PARTNERSHIP"
	case ErrDuplicateRequest:
		return "DUPLICATE_REQUEST"
	case ErrNotFound:
		return "NOT_FOUND"
	case ErrAlreadyResolved:
		return "ALREADY_RESOLVED"
	case ErrUnauthorized:
		return "UNAUTHORIZED"
	case ErrNotActive:
		return "NOT_ACTIVE"
	case ErrConflict:
		return "CONFLICT"
	case ErrBadRequest:
		return "BAD_REQUEST"
	default:
		return "INFRASTRUCTURE_ERROR"
	}
}

// Error constructors
func NewInvalidMessage(message string) *AppError {
	return &AppError{Code: ErrInvalidMessage, Message: message}
}

func NewSelfPartnership() *AppError {
	return &AppError{Code: ErrSelfPartnership, Message: "initiator and counterparty are the same entity"}
}

func NewDuplicateRequest() *AppError {
	return &AppError{Code: ErrDuplicateRequest, Message: "a partnership request already exists for this pair"}
}

func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewAlreadyResolved() *AppError {
	return &AppError{Code: ErrAlreadyResolved, Message: "this party has already decided on the request"}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: message}
}

func NewNotActive() *AppError {
	return &AppError{Code: ErrNotActive, Message: "partnership is not active"}
}

func NewConflict(err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: "record was modified concurrently, re-read and retry",
		Err:     err,
	}
}

func NewInfrastructure(err error) *AppError {
	return &AppError{Code: ErrInfrastructure, Message: "infrastructure error", Err: err}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{Code: ErrBadRequest, Message: message, Err: err}
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError unwraps err into an AppError, defaulting unknown errors to
// the infrastructure code.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInfrastructure(err)
}
