package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers and transports.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindDependency   Kind = "dependency"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// Sentinels, one per kind. Match with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrDependency   = errors.New("missing dependency")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

var sentinels = map[Kind]error{
	KindValidation:   ErrValidation,
	KindConflict:     ErrConflict,
	KindNotFound:     ErrNotFound,
	KindDependency:   ErrDependency,
	KindUnauthorized: ErrUnauthorized,
	KindInternal:     ErrInternal,
}

// Error carries a kind, the operation that failed and an optional cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// Error implements error.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		if e.Err != nil {
			msg = e.Err.Error()
		} else {
			msg = string(e.Kind)
		}
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// New builds an Error of the given kind.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap builds an Error of the given kind around err.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validation is shorthand for New(KindValidation, ...) with formatting.
func Validation(op, format string, args ...any) *Error {
	return New(KindValidation, op, fmt.Sprintf(format, args...))
}

// NotFound is shorthand for a NotFound error naming the missing entity.
func NotFound(op, entity, id string) *Error {
	return New(KindNotFound, op, fmt.Sprintf("%s %q not found", entity, id))
}

// Conflict is shorthand for a Conflict error naming the duplicated entity.
func Conflict(op, entity string, err error) *Error {
	return &Error{Kind: KindConflict, Op: op, Message: entity + " already exists", Err: err}
}

// Dependency is shorthand for a Dependency error.
func Dependency(op, message string, err error) *Error {
	return &Error{Kind: KindDependency, Op: op, Message: message, Err: err}
}

// KindOf reports the kind of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for kind, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}

// Message returns a caller-safe message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return sentinels[e.Kind].Error()
	}
	if s, ok := sentinels[KindOf(err)]; ok {
		return s.Error()
	}
	return ErrInternal.Error()
}
