// Package errors provides structured error types for the cstruct library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindOverflow).
//		Path("car", "wheels").
//		Type("uint8").
//		Detail("value 300 does not fit").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncation(errors.PhaseEncode, path, 12, 8)
//	err := errors.BufferSize(errors.PhaseDecode, 16, 24)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
