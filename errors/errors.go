package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which lifecycle stage the error occurred in
type Phase string

const (
	PhaseConstruct Phase = "construct" // building a host or device instance
	PhaseLaunch    Phase = "launch"    // submitting a task to the device
	PhaseCast      Phase = "cast"      // pointer casts
	PhaseAlloc     Phase = "alloc"     // device memory allocation
	PhaseResolve   Phase = "resolve"   // address resolution
	PhaseRegistry  Phase = "registry"  // registration table operations
	PhaseTeardown  Phase = "teardown"  // final release of a lineage
	PhaseConfig    Phase = "config"    // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch Kind = "type_mismatch"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindUnsupported  Kind = "unsupported"
	KindAllocation   Kind = "allocation"
	KindOverflow     Kind = "overflow"
	KindNilPointer   Kind = "nil_pointer"
	KindNotFound     Kind = "not_found"
	KindClosed       Kind = "closed"
	KindInvalidInput Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	HostType   string
	DeviceType string
	Detail     string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.HostType != "" || e.DeviceType != "" {
		b.WriteString(": ")
		if e.HostType != "" && e.DeviceType != "" {
			b.WriteString("host type ")
			b.WriteString(e.HostType)
			b.WriteString(", device type ")
			b.WriteString(e.DeviceType)
		} else if e.HostType != "" {
			b.WriteString("host type ")
			b.WriteString(e.HostType)
		} else {
			b.WriteString("device type ")
			b.WriteString(e.DeviceType)
		}
	}

	if e.Detail != "" {
		if e.HostType != "" || e.DeviceType != "" {
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

// HostType sets the host-side type name
func (b *Builder) HostType(t string) *Builder {
	b.err.HostType = t
	return b
}

// DeviceType sets the device-side type name
func (b *Builder) DeviceType(t string) *Builder {
	b.err.DeviceType = t
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

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, hostType, deviceType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		HostType:   hostType,
		DeviceType: deviceType,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
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

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, hostType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNilPointer,
		HostType: hostType,
		Detail:   "nil pointer",
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, addr uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %d not found", what, addr),
		Value:  addr,
	}
}

// Closed creates an error for operations on a closed device or table
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
