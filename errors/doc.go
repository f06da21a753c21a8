// Package errors provides structured error types for the CHAI library.
//
// Errors are categorized by Phase (which lifecycle stage failed) and Kind
// (error category). The Error type carries the host- and device-side type
// names involved plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCast, errors.KindTypeMismatch).
//		HostType("*shapes.Square").
//		DeviceType("shapes.Circle").
//		Detail("device instance does not implement target interface").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseConstruct, "*main.rawValue", "Base")
//	err := errors.AllocationFailed(errors.PhaseAlloc, 4096)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
