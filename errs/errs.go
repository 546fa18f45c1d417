// Package errs defines the error kinds shared by every module.
//
// Module errors carry a Kind so the HTTP layer can map them to a status
// with errors.Is. Errors crossing a mono request-reply boundary arrive as
// plain text; FromRemote restores their kind.
package errs

import (
	"errors"
	"strings"
)

// Kind classifies an error for the outside world.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindConflict        Kind = "conflict"
	KindNotFound        Kind = "not_found"
	KindStorage         Kind = "storage"
)

var kinds = []Kind{KindValidation, KindUnauthenticated, KindConflict, KindNotFound, KindStorage}

// Error is a classified error with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// Kind sentinels. errors.Is(err, ErrNotFound) matches any not_found error.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrStorage         = &Error{Kind: KindStorage}
)

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Storage wraps a persistence failure. The cause stays available through
// errors.Unwrap for logging but never reaches the message.
func Storage(cause error) *Error {
	return &Error{Kind: KindStorage, Message: "storage failure", cause: cause}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target has the same kind and, when the target has a
// message, the same message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// KindOf returns the kind of err, or "" when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf returns the client-safe message of a classified error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// FromRemote rebuilds a classified error from the text of an error returned
// by a request-reply call. Unclassified errors are returned unchanged.
func FromRemote(err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != "" {
		return err
	}

	text := err.Error()
	for _, kind := range kinds {
		marker := string(kind) + ": "
		idx := strings.Index(text, marker)
		if idx < 0 {
			continue
		}
		return &Error{
			Kind:    kind,
			Message: strings.TrimSpace(text[idx+len(marker):]),
			cause:   err,
		}
	}
	return err
}
