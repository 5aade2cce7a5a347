// Package errors provides the structured error types used across solidcore.
//
// Errors are categorized by Op (the boundary operation that failed) and Kind
// (the error category). The Kind is machine-checkable via errors.Is, while
// the message text is what eventually flows through the boundary error
// channel.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.Input("load", "empty input data")
//	err := errors.NotFound("bounds", handle)
//	err := errors.Parse("load", []string{"STL (binary)", "STL (ASCII)", "OBJ"})
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
