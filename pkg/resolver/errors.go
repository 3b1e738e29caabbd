package resolver

import (
	"errors"
	"fmt"
)

// ErrorCode represents the type of resolution error that occurred.
//
// The set is closed: every failure of Resolve, ResolvePath and
// ResolveJunction is reported as exactly one of these codes, and distinct
// conditions are never conflated (a dead parent handle is StaleHandle, a
// missing child under a live parent is NotFound).
type ErrorCode int

const (
	// ErrFaultyArgument indicates a required argument is missing or an
	// argument combination is inconsistent (handle without name).
	ErrFaultyArgument ErrorCode = iota + 1

	// ErrInvalidArgument indicates syntactically malformed input, such as
	// a relative path where an absolute one is required.
	ErrInvalidArgument

	// ErrStaleHandle indicates a supplied handle no longer refers to a
	// live object.
	ErrStaleHandle

	// ErrNotFound indicates a named child does not exist under an
	// otherwise valid, live parent.
	ErrNotFound

	// ErrNotADirectory indicates traversal was attempted through a
	// non-directory object.
	ErrNotADirectory

	// ErrCrossDevice indicates traversal was attempted through a junction
	// via the plain resolution path.
	ErrCrossDevice

	// ErrAccessDenied indicates the directory traversal permission check
	// failed.
	ErrAccessDenied

	// ErrNameTooLong indicates a name exceeds MaxNameLen.
	ErrNameTooLong

	// ErrServerFault indicates an internal invariant violation, such as an
	// unrecognized object kind reported by the store.
	ErrServerFault

	// ErrIO indicates any other storage-primitive failure.
	ErrIO
)

// String returns a human-readable name for the error code.
func (e ErrorCode) String() string {
	switch e {
	case ErrFaultyArgument:
		return "FaultyArgument"
	case ErrInvalidArgument:
		return "InvalidArgument"
	case ErrStaleHandle:
		return "StaleHandle"
	case ErrNotFound:
		return "NotFound"
	case ErrNotADirectory:
		return "NotADirectory"
	case ErrCrossDevice:
		return "CrossDevice"
	case ErrAccessDenied:
		return "AccessDenied"
	case ErrNameTooLong:
		return "NameTooLong"
	case ErrServerFault:
		return "ServerFault"
	case ErrIO:
		return "IOError"
	default:
		return fmt.Sprintf("Unknown(%d)", int(e))
	}
}

// ResolveError represents a namespace resolution error with an error code.
type ResolveError struct {
	Code    ErrorCode
	Message string
	Path    string
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path: %s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from err.
// Returns ErrIO for errors that are not ResolveErrors, and 0 for nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return 0
	}
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Code
	}
	return ErrIO
}

// ============================================================================
// Factory Functions
// ============================================================================

// NewFaultyArgumentError creates a FaultyArgument error.
func NewFaultyArgumentError(message string) *ResolveError {
	return &ResolveError{
		Code:    ErrFaultyArgument,
		Message: message,
	}
}

// NewInvalidArgumentError creates an InvalidArgument error.
func NewInvalidArgumentError(message string) *ResolveError {
	return &ResolveError{
		Code:    ErrInvalidArgument,
		Message: message,
	}
}

// NewStaleHandleError creates a StaleHandle error for a handle whose
// referent no longer exists.
func NewStaleHandleError(handle ObjectHandle) *ResolveError {
	return &ResolveError{
		Code:    ErrStaleHandle,
		Message: "handle no longer refers to a live object",
		Path:    handle.String(),
	}
}

// NewNotFoundError creates a NotFound error for a missing child name.
func NewNotFoundError(name string) *ResolveError {
	return &ResolveError{
		Code:    ErrNotFound,
		Message: "no such object",
		Path:    name,
	}
}

// NewNotADirectoryError creates a NotADirectory error.
func NewNotADirectoryError(kind ObjectKind) *ResolveError {
	return &ResolveError{
		Code:    ErrNotADirectory,
		Message: fmt.Sprintf("cannot traverse %s object", kind),
	}
}

// NewCrossDeviceError creates a CrossDevice error for a junction hit on the
// plain resolution path.
func NewCrossDeviceError(handle ObjectHandle) *ResolveError {
	return &ResolveError{
		Code:    ErrCrossDevice,
		Message: "junction crossing requires ResolveJunction",
		Path:    handle.String(),
	}
}

// NewAccessDeniedError creates an AccessDenied error.
func NewAccessDeniedError(reason string) *ResolveError {
	return &ResolveError{
		Code:    ErrAccessDenied,
		Message: reason,
	}
}

// NewNameTooLongError creates a NameTooLong error.
func NewNameTooLongError(name string) *ResolveError {
	return &ResolveError{
		Code:    ErrNameTooLong,
		Message: fmt.Sprintf("name exceeds %d bytes", MaxNameLen),
		Path:    name,
	}
}

// NewServerFaultError creates a ServerFault error.
func NewServerFaultError(message string) *ResolveError {
	return &ResolveError{
		Code:    ErrServerFault,
		Message: message,
	}
}

// NewIOError creates a generic storage I/O error.
func NewIOError(message string) *ResolveError {
	return &ResolveError{
		Code:    ErrIO,
		Message: message,
	}
}

// ============================================================================
// Predicates
// ============================================================================

// IsNotFoundError checks if an error is a ResolveError with ErrNotFound code.
func IsNotFoundError(err error) bool {
	return CodeOf(err) == ErrNotFound
}

// IsStaleHandleError checks if an error is a ResolveError with ErrStaleHandle code.
func IsStaleHandleError(err error) bool {
	return CodeOf(err) == ErrStaleHandle
}

// IsAccessDeniedError checks if an error is a ResolveError with ErrAccessDenied code.
func IsAccessDeniedError(err error) bool {
	return CodeOf(err) == ErrAccessDenied
}

// IsCrossDeviceError checks if an error is a ResolveError with ErrCrossDevice code.
func IsCrossDeviceError(err error) bool {
	return CodeOf(err) == ErrCrossDevice
}
