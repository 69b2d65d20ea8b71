package apperror

import (
	"errors"
	"fmt"
)

// Kind is the stable category of a failure exposed to callers.
type Kind string

const (
	KindNotFound             Kind = "not_found"
	KindInvalidTransition    Kind = "invalid_transition"
	KindCaregiverUnavailable Kind = "caregiver_unavailable"
	KindInvalidSchedule      Kind = "invalid_schedule"
	KindValidation           Kind = "validation_error"
	KindForbidden            Kind = "forbidden"
	KindStorageFailure       Kind = "storage_failure"
	KindNotificationFailure  Kind = "notification_failure"
)

// Error carries a Kind, a caller-facing message and the underlying cause.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, apperror.ErrNotFound) works
// regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable reports whether the caller may retry the same request unchanged.
func (e *Error) Retryable() bool {
	return e.Kind == KindStorageFailure
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidTransition    = &Error{Kind: KindInvalidTransition, Message: "invalid transition"}
	ErrCaregiverUnavailable = &Error{Kind: KindCaregiverUnavailable, Message: "caregiver unavailable"}
	ErrInvalidSchedule      = &Error{Kind: KindInvalidSchedule, Message: "invalid schedule"}
	ErrValidation           = &Error{Kind: KindValidation, Message: "validation error"}
	ErrForbidden            = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrStorageFailure       = &Error{Kind: KindStorageFailure, Message: "storage failure"}
	ErrNotificationFailure  = &Error{Kind: KindNotificationFailure, Message: "notification failure"}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func InvalidTransition(message string) *Error {
	return &Error{Kind: KindInvalidTransition, Message: message}
}

func CaregiverUnavailable(message string) *Error {
	return &Error{Kind: KindCaregiverUnavailable, Message: message}
}

func InvalidSchedule(message string, err error) *Error {
	return &Error{Kind: KindInvalidSchedule, Message: message, Err: err}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Storage(err error) *Error {
	return &Error{Kind: KindStorageFailure, Message: "storage failure", Err: err}
}

func Notification(err error) *Error {
	return &Error{Kind: KindNotificationFailure, Message: "notification failure", Err: err}
}

// From classifies err. Errors that are not already an *Error are treated as storage
// failures, since every other kind is raised explicitly by the usecases.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Storage(err)
}

// KindOf returns the Kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return From(err).Kind
}
