package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDefine Phase = "define" // descriptor construction
	PhaseLayout Phase = "layout" // offset/size computation
	PhaseEncode Phase = "encode" // value tree to bytes
	PhaseDecode Phase = "decode" // bytes to value tree
	PhaseLoad   Phase = "load"   // schema file loading
)

// Kind categorizes the error
type Kind string

const (
	KindDefinition   Kind = "definition"    // malformed type descriptor
	KindCyclic       Kind = "cyclic"        // composite contains itself
	KindTruncation   Kind = "truncation"    // fixed buffer capacity exceeded
	KindBufferSize   Kind = "buffer_size"   // decode input length mismatch
	KindOverflow     Kind = "overflow"      // value outside representable range
	KindTypeMismatch Kind = "type_mismatch" // value has wrong Go type
	KindFieldUnknown Kind = "field_unknown" // value tree names no such field
	KindInvalidEnum  Kind = "invalid_enum"  // label not defined by the enum
	KindUnsupported  Kind = "unsupported"
	KindInvalidData  Kind = "invalid_data"
	KindNotFound     Kind = "not_found"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
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

// Type sets the descriptor type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
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

// Convenience constructors for common error patterns

// Definition creates a malformed definition error
func Definition(path []string, detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseDefine,
		Kind:   KindDefinition,
		Path:   path,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Cyclic creates a cyclic composition error
func Cyclic(path []string, typeName string) *Error {
	return &Error{
		Phase:  PhaseDefine,
		Kind:   KindCyclic,
		Path:   path,
		Type:   typeName,
		Detail: "composite directly or indirectly contains itself",
	}
}

// Truncation creates a fixed buffer capacity error
func Truncation(phase Phase, path []string, got, capacity int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncation,
		Path:   path,
		Detail: fmt.Sprintf("source data is %d bytes but capacity is %d", got, capacity),
		Value:  got,
	}
}

// BufferSize creates a decode input length mismatch error
func BufferSize(phase Phase, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBufferSize,
		Detail: fmt.Sprintf("buffer is %d bytes, expected %d", got, want),
		Value:  got,
	}
}

// Overflow creates a representable range error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Type:   target,
		Detail: fmt.Sprintf("value %v does not fit", value),
		Value:  value,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, expected string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Type:   expected,
		Detail: fmt.Sprintf("got Go type %s", goType),
	}
}

// FieldUnknown creates an unknown field error
func FieldUnknown(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldUnknown,
		Path:   path,
		Detail: fmt.Sprintf("no field %q in composite", fieldName),
	}
}

// InvalidEnum creates an undefined enum label error
func InvalidEnum(phase Phase, path []string, label string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEnum,
		Path:   path,
		Detail: fmt.Sprintf("%q is not a constant of this enum", label),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}
