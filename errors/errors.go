package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode    Phase = "encode"    // Go to wire
	PhaseDecode    Phase = "decode"    // wire to Go
	PhaseValidate  Phase = "validate"  // identifier and input validation
	PhaseTransport Phase = "transport" // remote procedure calls and iterator paging
	PhaseConfig    Phase = "config"    // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupportedType    Kind = "unsupported_type"
	KindMalformedWireValue Kind = "malformed_wire_value"
	KindInvalidLength      Kind = "invalid_length"
	KindInvalidData        Kind = "invalid_data"
	KindInvalidInput       Kind = "invalid_input"
	KindUnhashableKey      Kind = "unhashable_key"
	KindOverflow           Kind = "overflow"
	KindTransport          Kind = "transport"
	KindRPC                Kind = "rpc_error"
	KindNotInitialized     Kind = "not_initialized"
)

// Sentinels for errors.Is. Only Phase and Kind take part in matching.
var (
	ErrUnsupportedType    = &Error{Phase: PhaseEncode, Kind: KindUnsupportedType}
	ErrMalformedWireValue = &Error{Phase: PhaseDecode, Kind: KindMalformedWireValue}
	ErrInvalidLength      = &Error{Phase: PhaseValidate, Kind: KindInvalidLength}
	ErrTransport          = &Error{Phase: PhaseTransport, Kind: KindTransport}
	ErrRPC                = &Error{Phase: PhaseTransport, Kind: KindRPC}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	WireType string
	Detail   string
	Path     []string
}

// Error renders as "phase: kind at path (wire T, go T): detail: cause",
// leaving out the parts that are unset.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Phase))
	b.WriteString(": ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		fmt.Fprintf(&b, " at %s", strings.Join(e.Path, "."))
	}

	switch {
	case e.WireType != "" && e.GoType != "":
		fmt.Fprintf(&b, " (wire %s, go %s)", e.WireType, e.GoType)
	case e.WireType != "":
		fmt.Fprintf(&b, " (wire %s)", e.WireType)
	case e.GoType != "":
		fmt.Fprintf(&b, " (go %s)", e.GoType)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes Cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same Phase and Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder assembles an Error field by field.
type Builder struct {
	err Error
}

// New starts a Builder for phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WireType sets the wire type tag
func (b *Builder) WireType(t string) *Builder {
	b.err.WireType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// UnsupportedType reports a native value with no wire mapping
func UnsupportedType(path []string, goType string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindUnsupportedType,
		Path:   path,
		GoType: goType,
		Detail: "no stack item mapping",
	}
}

// MalformedWireValue reports a wire payload the decoder cannot interpret
func MalformedWireValue(path []string, wireType string, detail string) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindMalformedWireValue,
		Path:     path,
		WireType: wireType,
		Detail:   detail,
	}
}

// UnknownTag reports an unrecognized type tag
func UnknownTag(path []string, tag string) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindMalformedWireValue,
		Path:     path,
		WireType: tag,
		Detail:   fmt.Sprintf("unknown type %q", tag),
		Value:    tag,
	}
}

// InvalidLength reports a fixed-width identifier of the wrong size
func InvalidLength(what string, got, want int) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInvalidLength,
		Detail: fmt.Sprintf("%s must be %d bytes, got %d", what, want, got),
		Value:  got,
	}
}

// UnhashableKey reports a map key that cannot be used as a native map key
func UnhashableKey(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnhashableKey,
		Path:   path,
		GoType: goType,
		Detail: "map key must be a scalar, identifier or struct of those",
	}
}

// Overflow reports a depth or page limit being exceeded
func Overflow(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: detail,
	}
}

// InvalidData reports a value that is well-formed but unusable
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput reports a caller mistake caught before any work is done
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotInitialized creates a not-initialized error for a missing collaborator
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Transport wraps a failed remote call
func Transport(method string, cause error) *Error {
	return &Error{
		Phase:  PhaseTransport,
		Kind:   KindTransport,
		Detail: method,
		Cause:  cause,
	}
}

// Wrap attaches phase, kind and detail to a foreign error
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// RPCError is the error object of a JSON-RPC response
type RPCError struct {
	Data    json.RawMessage
	Message string
	Code    int64
}

func (e *RPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("rpc error %d: %s: %s", e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// RPC wraps a server-side error for the given method
func RPC(method string, rpcErr *RPCError) *Error {
	return &Error{
		Phase:  PhaseTransport,
		Kind:   KindRPC,
		Detail: method,
		Cause:  rpcErr,
		Value:  rpcErr.Code,
	}
}

// VMFault reports an invocation that ended with a VM exception
func VMFault(method, exception string) *Error {
	return &Error{
		Phase:  PhaseTransport,
		Kind:   KindRPC,
		Detail: fmt.Sprintf("%s: vm fault: %s", method, exception),
		Value:  exception,
	}
}
