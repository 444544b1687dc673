// Package msgerr defines application errors that carry a numeric code and a
// message key, so the text shown to a user is resolved through a message
// store in the caller's locale.
//
//	var ErrInvalidParams = msgerr.New(2, "invalid_params")
//
//	return ErrInvalidParams.With(msgfmt.Args{"field": "name"})
//
// Errors that did not originate as a coded error are wrapped with Wrap and
// have no code or key.
package msgerr

import (
	"errors"
	"fmt"
	"maps"

	"github.com/lifei6671/msgfmt"
)

// Formatter resolves a message key in a locale. *msgfmt.Store implements it.
type Formatter interface {
	Format(locale, key string, args msgfmt.Args) (string, bool, error)
}

// Error is a coded, localizable error. The zero value is not useful; use New
// or Wrap.
type Error struct {
	code  int
	key   string
	args  msgfmt.Args
	cause error
}

// New returns an error with code whose user-facing text is message key.
func New(code int, key string) *Error {
	return &Error{code: code, key: key}
}

// Wrap turns an arbitrary error into an unknown Error. Wrapping an *Error
// returns it unchanged, and a nil err yields nil.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{cause: err}
}

// With returns a copy of e carrying args for the message.
func (e *Error) With(args msgfmt.Args) *Error {
	cp := *e
	cp.args = maps.Clone(args)
	return &cp
}

// Code returns the error code. It reports false for unknown errors.
func (e *Error) Code() (int, bool) {
	if e.key == "" {
		return 0, false
	}
	return e.code, true
}

// Key returns the message key, empty for unknown errors.
func (e *Error) Key() string {
	return e.key
}

func (e *Error) Args() msgfmt.Args {
	return maps.Clone(e.args)
}

func (e *Error) Error() string {
	if e.key == "" {
		return fmt.Sprintf("unknown error, %v", e.cause)
	}
	return fmt.Sprintf("%s (code %d)", e.key, e.code)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches coded errors by code, whatever their args.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e.key == "" || t.key == "" {
		return false
	}
	return e.code == t.code
}

// Localize renders the message of e in locale. The key is returned when f has
// no translation, and unknown errors render as their cause.
func (e *Error) Localize(f Formatter, locale string) string {
	if e.key == "" {
		return e.Error()
	}
	out, ok, err := f.Format(locale, e.key, e.args)
	if err != nil || !ok {
		return e.key
	}
	return out
}

// Message renders any error for a user in locale.
func Message(f Formatter, locale string, err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Localize(f, locale)
	}
	return err.Error()
}
