package result

import (
	"errors"
	"fmt"
)

// Result is the outcome of a fallible plugin operation. The zero value is a
// successful result.
type Result struct {
	Code Code
}

// New returns a result carrying code.
func New(code Code) Result {
	return Result{Code: code}
}

// OK returns a successful result.
func OK() Result {
	return Result{Code: Success}
}

// IsSuccess reports whether the result is Success.
func (r Result) IsSuccess() bool {
	return r.Code == Success
}

// Is reports whether the result carries code.
func (r Result) Is(code Code) bool {
	return r.Code == code
}

func (r Result) String() string {
	return fmt.Sprintf("%s (%d)", r.Code.Name(), r.Code.Value())
}

// Err converts the result into an error for callers that work with Go errors.
// A successful result yields nil.
func (r Result) Err(op string) error {
	if r.IsSuccess() {
		return nil
	}
	return &Error{Op: op, Code: r.Code}
}

// Error is a non-success outcome expressed as a Go error.
type Error struct {
	// Op is the operation that produced the outcome, e.g. "registry.New".
	Op   string
	Code Code
	// Err is an optional underlying cause.
	Err error
}

// Errorf builds an *Error for op with code and a formatted cause.
func Errorf(op string, code Code, format string, args ...any) *Error {
	return &Error{Op: op, Code: code, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code.Message())
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code.Message(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error or a bare Code by code only.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Code:
		return e.Code == t
	case *Error:
		return t != nil && e.Code == t.Code
	}
	return false
}

// CodeOf extracts the code from err. Nil maps to Success and errors that do
// not carry a code map to InvalidArgument.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	if c, ok := err.(Code); ok {
		return c
	}
	return InvalidArgument
}
