package msgfmt

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLocale   = errors.New("msgfmt: locale cannot be empty")
	ErrNilPluralRule = errors.New("msgfmt: plural rule factory cannot be nil")
)

// IOError reports a resource directory or resource file that could not be read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("msgfmt: read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports malformed resource syntax. Line is 1-based; File is set
// once the error is attributed to a scanned resource file.
type ParseError struct {
	File   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("msgfmt: %s:%d: %s", e.File, e.Line, e.Reason)
	}
	return fmt.Sprintf("msgfmt: line %d: %s", e.Line, e.Reason)
}
