package loader

import (
	"errors"
	"fmt"
)

// ErrParse indicates a malformed input file.
var ErrParse = errors.New("parse error")

// ParseError locates a malformed line. Wraps ErrParse for errors.Is() compatibility.
type ParseError struct {
	File string
	Line int // 1-based, 0 when the whole input is affected
	Msg  string
	Err  error // Optional underlying error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", ErrParse.Error(), loc, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrParse.Error(), loc, e.Msg)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}
