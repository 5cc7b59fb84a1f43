package services

import (
	"errors"
	"sort"
	"strings"
)

// Базовые виды ошибок. Handlers map these to HTTP statuses; every domain error
// below unwraps to exactly one of them.
var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrForbidden        = errors.New("operation not allowed for the current user")
	ErrNotFound         = errors.New("requested resource not found")
	ErrAlreadyExists    = errors.New("resource already exists")
	ErrAlreadyEnrolled  = errors.New("user is already enrolled in this event")
	ErrCapacityExceeded = errors.New("event has no remaining seats")
	ErrInvalidInput     = errors.New("invalid input")
	ErrBadCredentials   = errors.New("invalid username or password")
)

// kindError carries its own message while matching its kind via errors.Is.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	// Не найдено
	ErrUserNotFound  = newKindError(ErrNotFound, "user not found")
	ErrClubNotFound  = newKindError(ErrNotFound, "club not found")
	ErrEventNotFound = newKindError(ErrNotFound, "event not found")
	ErrNewsNotFound  = newKindError(ErrNotFound, "news not found")
	ErrTopicNotFound = newKindError(ErrNotFound, "forum topic not found")
	ErrMediaNotFound = newKindError(ErrNotFound, "media not found")

	// Конфликты
	ErrUserEmailConflict    = newKindError(ErrAlreadyExists, "email address is already in use")
	ErrUserUsernameConflict = newKindError(ErrAlreadyExists, "username is already in use")
	ErrClubNameConflict     = newKindError(ErrAlreadyExists, "club name is already in use")

	// Доступ
	ErrNotClubLeader = newKindError(ErrForbidden, "only the club leader can perform this action")
	ErrNotClubMember = newKindError(ErrForbidden, "only club members can perform this action")

	// Входные данные
	ErrPasswordMismatch     = newKindError(ErrInvalidInput, "passwords do not match")
	ErrInvalidResetToken    = newKindError(ErrInvalidInput, "reset token is invalid or expired")
	ErrUnsupportedFileType  = newKindError(ErrInvalidInput, "file type is not allowed")
	ErrEmptyFile            = newKindError(ErrInvalidInput, "file is empty")
	ErrInvalidEventCapacity = newKindError(ErrInvalidInput, "event capacity must be positive")
)

// ValidationError lists per-field problems. It unwraps to ErrInvalidInput.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func newFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
