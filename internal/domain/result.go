package domain

import "fmt"

const (
	// CodeTransport marks a failure where no HTTP exchange completed.
	CodeTransport = -1
	// CodeParsing marks a response whose body was empty or unreadable.
	CodeParsing = -2
)

// WireError is the uniform error record produced at the transport boundary.
// Code and Message are nil when upstream did not supply them.
type WireError struct {
	HTTPCode int
	Code     *string
	Message  *string
}

// NewWireError builds a WireError with both the tag and message present.
func NewWireError(httpCode int, code, message string) *WireError {
	return &WireError{HTTPCode: httpCode, Code: &code, Message: &message}
}

func (e *WireError) Error() string {
	return fmt.Sprintf("HttpCode: %d, ErrorCode: %s, ErrorMessage: %s",
		e.HTTPCode, nullable(e.Code), nullable(e.Message))
}

// CodeValue returns the machine error tag or "".
func (e *WireError) CodeValue() string {
	if e == nil || e.Code == nil {
		return ""
	}
	return *e.Code
}

// MessageValue returns the upstream message or "".
func (e *WireError) MessageValue() string {
	if e == nil || e.Message == nil {
		return ""
	}
	return *e.Message
}

func nullable(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}

// Result is the outcome of one remote or local fetch: either Data or Err is
// meaningful, never both. A nil Err marks success.
type Result[T any] struct {
	Data T
	Err  *WireError
}

func Success[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

func Failure[T any](err *WireError) Result[T] {
	if err == nil {
		err = &WireError{HTTPCode: CodeTransport}
	}
	return Result[T]{Err: err}
}

func (r Result[T]) IsSuccess() bool { return r.Err == nil }

// Outcome is a Result whose error has been classified for display.
type Outcome[T any] struct {
	Data T
	Err  *Error
}

func (o Outcome[T]) IsSuccess() bool { return o.Err == nil }

// ToOutcome classifies a failed Result through MapWireError.
func ToOutcome[T any](r Result[T]) Outcome[T] {
	if r.IsSuccess() {
		return Outcome[T]{Data: r.Data}
	}
	return Outcome[T]{Err: MapWireError(r.Err)}
}
