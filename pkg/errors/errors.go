// Package errors is the error model shared by the canvas, the CLI and the
// HTTP API.
//
// Every failure a user can act on carries a [Code]. The CLI prints
// [UserMessage] and exits non-zero; the server maps the code to an HTTP
// status and returns both in a JSON body. Script failures are reported as
// [ScriptError], which adds the line and column of the offending statement.
//
//	err := errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidMode) {
//	    ...
//	}
//
//	err = errors.Wrap(errors.ErrCodeStoreUnavailable, err, "dial %s", addr)
package errors

import (
	"errors"
	"fmt"
)

// Code names a class of failure. Codes are stable; clients match on them.
type Code string

// Rejected input.
const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidMode     Code = "INVALID_MODE"
	ErrCodeInvalidScript   Code = "INVALID_SCRIPT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidLayout   Code = "INVALID_LAYOUT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
)

// Missing things.
const (
	ErrCodeDocumentNotFound Code = "DOCUMENT_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
)

// Environment and bugs.
const (
	ErrCodeStoreUnavailable Code = "STORE_UNAVAILABLE"
	ErrCodeTimeout          Code = "TIMEOUT"
	ErrCodeUnsupported      Code = "UNSUPPORTED"
	ErrCodeInternal         Code = "INTERNAL_ERROR"
)

// Error is a coded failure. Message is what a user reads; Cause, if any,
// stays reachable through errors.Is and errors.As.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// codeOf finds the outermost coded error in err's chain.
func codeOf(err error) (Code, bool) {
	if err == nil {
		return "", false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	var se *ScriptError
	if errors.As(err, &se) {
		return se.Code(), true
	}
	return "", false
}

// Is reports whether the outermost code in err's chain is code.
func Is(err error, code Code) bool {
	c, ok := codeOf(err)
	return ok && c == code
}

// GetCode returns the outermost code in err's chain, or "" for uncoded
// errors.
func GetCode(err error) Code {
	c, _ := codeOf(err)
	return c
}

// UserMessage strips the code and cause from a coded error. Other errors
// are returned as their Error string.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ScriptError locates a failed script statement. Line and Column are
// 1-based; zero means unknown.
type ScriptError struct {
	Line    int
	Column  int
	Message string
	Cause   error
}

func (e *ScriptError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Line <= 0 {
		return msg
	}
	if e.Column <= 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, msg)
}

func (e *ScriptError) Unwrap() error { return e.Cause }

// Code is always ErrCodeInvalidScript.
func (e *ScriptError) Code() Code { return ErrCodeInvalidScript }
