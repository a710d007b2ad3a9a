// Package outcome provides the result type returned by every business
// operation that can fail for an expected reason. Expected failures travel
// as values; only genuinely unexpected faults are converted at the service
// boundary via FromError.
package outcome

import (
	"fmt"
	"strings"
)

// Void is the value type for outcomes that carry no payload, such as
// validation rule results.
type Void struct{}

// Outcome is an immutable success-or-failure container. Exactly one of the
// value and the failure fields is meaningful; construct it only through OK,
// Fail, FromError or FailureOf.
type Outcome[T any] struct {
	ok      bool
	value   T
	code    string
	message string
	details []string
}

// OK returns a successful outcome carrying v.
func OK[T any](v T) Outcome[T] {
	return Outcome[T]{ok: true, value: v}
}

// Fail returns a failed outcome with a stable machine-readable code, a
// human-readable message and optional ordered detail strings.
func Fail[T any](code, message string, details ...string) Outcome[T] {
	return Outcome[T]{code: code, message: message, details: details}
}

// FromError converts an unexpected fault into a generic <OP>_ERROR failure.
// Only the error text is captured as a detail; internal structure never
// reaches the caller.
func FromError[T any](op string, err error) Outcome[T] {
	o := Outcome[T]{
		code:    op + "_ERROR",
		message: "The operation could not be completed",
	}
	if err != nil {
		o.details = []string{err.Error()}
	}
	return o
}

// FailureOf copies a failure from an outcome of a different value type,
// preserving code, message and details verbatim. Calling it on a successful
// outcome is a programming error.
func FailureOf[T, U any](src Outcome[U]) Outcome[T] {
	if src.ok {
		panic(fmt.Sprintf("outcome: FailureOf called on success (code=%q)", src.code))
	}
	return Outcome[T]{code: src.code, message: src.message, details: src.details}
}

// FaultOf re-codes an operational failure under the given operation,
// preserving message and details. Orchestrators use it so a fault caught
// deeper in the call chain surfaces with the per-operation <OP>_ERROR code.
// Calling it on a successful outcome is a programming error.
func FaultOf[T, U any](src Outcome[U], op string) Outcome[T] {
	if src.ok {
		panic(fmt.Sprintf("outcome: FaultOf called on success (code=%q)", src.code))
	}
	return Outcome[T]{code: op + "_ERROR", message: src.message, details: src.details}
}

// Success reports whether the outcome carries a value.
func (o Outcome[T]) Success() bool { return o.ok }

// Value returns the carried value; the zero value on failure.
func (o Outcome[T]) Value() T { return o.value }

// Code returns the machine-readable failure code; empty on success.
func (o Outcome[T]) Code() string { return o.code }

// IsFault reports whether the outcome is an operational <OP>_ERROR failure,
// as opposed to a business-rule failure with its own stable code.
func (o Outcome[T]) IsFault() bool {
	return !o.ok && strings.HasSuffix(o.code, "_ERROR")
}

// Message returns the human-readable failure message; empty on success.
func (o Outcome[T]) Message() string { return o.message }

// Details returns a copy of the ordered failure details.
func (o Outcome[T]) Details() []string {
	if o.details == nil {
		return nil
	}
	out := make([]string, len(o.details))
	copy(out, o.details)
	return out
}
