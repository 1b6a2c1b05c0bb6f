package models

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure so the HTTP layer can pick a status code
// without inspecting message strings.
type ErrorCode string

const (
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeStorage      ErrorCode = "STORAGE"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

// Error is the coded error type used across services. Message is safe to
// return to clients; Err carries the internal cause and is never serialized.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// IsCode reports whether err carries the given classification.
func IsCode(err error, code ErrorCode) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

var (
	ErrUserNotFound         = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound         = NewError(ErrCodeNotFound, "task not found")
	ErrProjectNotFound      = NewError(ErrCodeNotFound, "project not found")
	ErrNotificationNotFound = NewError(ErrCodeNotFound, "notification not found")
	ErrUserAlreadyExists    = NewError(ErrCodeConflict, "user already exists")
	ErrInvalidToken         = NewError(ErrCodeInvalidToken, "invalid token")
)
