// Package errors provides structured error types for the stack item marshaller
// and its RPC collaborator.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: item path, Go type and wire tag, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindMalformedWireValue).
//		Path("stack[0]", "value[2]").
//		WireType("Integer").
//		Detail("invalid decimal %q", text).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnsupportedType(path, "float64")
//	err := errors.UnknownTag(path, "Bogus")
//
// All errors implement the standard error interface and support errors.Is/As.
// Sentinels such as ErrUnsupportedType match on Phase and Kind only:
//
//	if errors.Is(err, fairyerrors.ErrMalformedWireValue) { ... }
package errors
