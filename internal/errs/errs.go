// Package errs defines the error kinds shared by the builder, the storage
// layer and the HTTP surface. Every failure path returns one of these; nothing
// is swallowed into an empty result.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindPermission
	KindConflict
	KindStorage
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error // Wrapped cause, may be nil.
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Permission(format string, args ...any) error {
	return &Error{Kind: KindPermission, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Storage wraps an underlying driver/transport error. The message is safe to
// log with full context; HTTP callers only ever see a generic 500.
func Storage(err error, format string, args ...any) error {
	return &Error{Kind: KindStorage, Msg: fmt.Sprintf(format, args...), Err: err}
}

func kindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func IsValidation(err error) bool { k, ok := kindOf(err); return ok && k == KindValidation }
func IsNotFound(err error) bool   { k, ok := kindOf(err); return ok && k == KindNotFound }
func IsPermission(err error) bool { k, ok := kindOf(err); return ok && k == KindPermission }
func IsConflict(err error) bool   { k, ok := kindOf(err); return ok && k == KindConflict }
func IsStorage(err error) bool    { k, ok := kindOf(err); return ok && k == KindStorage }
