package errors

import (
	"fmt"
	"strings"
)

// Kind categorizes the error. Exactly one kind applies to every failure that
// reaches the boundary.
type Kind string

const (
	KindInput      Kind = "input_error"      // empty or invalid input bytes
	KindNotFound   Kind = "not_found"        // handle absent from the registry
	KindParse      Kind = "parse_error"      // no supported format matched
	KindAlgorithm  Kind = "algorithm_error"  // kernel operation did not complete
	KindIO         Kind = "io_error"         // export or write failure
	KindAllocation Kind = "allocation_error" // buffer allocation failed
)

// Error is the structured error type used throughout solidcore. It is built
// wherever a failure originates and flattened to sentinel-plus-message only
// at the outermost boundary call.
type Error struct {
	Cause  error
	Op     string // boundary operation, e.g. "load", "boolean"
	Kind   Kind
	Detail string
	Handle uint64 // offending handle, 0 when not handle-related
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(e.Op)
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Handle != 0 {
		fmt.Fprintf(&b, " (handle %d)", e.Handle)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Errors match on Kind
// alone, so callers can test categories with sentinel values:
//
//	if errors.Is(err, &errors.Error{Kind: errors.KindNotFound}) { ... }
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// KindOf extracts the Kind from any error produced by this package. Errors
// from elsewhere report an empty Kind.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}

// Convenience constructors for the boundary failure modes.

// Input creates an invalid-input error.
func Input(op, detail string) *Error {
	return &Error{Op: op, Kind: KindInput, Detail: detail}
}

// NotFound creates a missing-handle error.
func NotFound(op string, handle uint64) *Error {
	return &Error{
		Op:     op,
		Kind:   KindNotFound,
		Detail: "handle not found",
		Handle: handle,
	}
}

// Parse creates a no-format-matched error naming every attempted format.
func Parse(op string, attempted []string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindParse,
		Detail: "failed to parse as " + strings.Join(attempted, ", "),
	}
}

// Algorithm creates a kernel-failure error.
func Algorithm(op, detail string) *Error {
	return &Error{Op: op, Kind: KindAlgorithm, Detail: detail}
}

// IO creates an export/write failure error.
func IO(op, detail string, cause error) *Error {
	return &Error{Op: op, Kind: KindIO, Detail: detail, Cause: cause}
}

// Allocation creates a buffer allocation failure error.
func Allocation(op string, size int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
	}
}

// Wrap attaches op and kind to an existing error, preserving the cause chain.
// If cause is already an *Error it is returned unchanged so the original
// classification survives facade layering.
func Wrap(op string, kind Kind, cause error) *Error {
	if e, ok := cause.(*Error); ok {
		return e
	}
	return &Error{Op: op, Kind: kind, Detail: "kernel failure", Cause: cause}
}
