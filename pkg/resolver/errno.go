package resolver

import (
	"errors"

	"golang.org/x/sys/unix"
)

// MapErrno translates a POSIX errno from a storage primitive into the
// resolution error taxonomy.
//
// This is the single point where native error codes become portable codes;
// callers never re-derive an error class from observed side effects. Note
// that ENOENT maps to NotFound here: the "missing parent vs missing child"
// distinction is positional and applied by the resolver, which upgrades
// NotFound to StaleHandle for failures on an already-held handle (see
// mapHandleError).
func MapErrno(errno unix.Errno) ErrorCode {
	switch errno {
	case unix.ENOENT:
		return ErrNotFound
	case unix.ESTALE:
		return ErrStaleHandle
	case unix.ENOTDIR:
		return ErrNotADirectory
	case unix.EXDEV:
		return ErrCrossDevice
	case unix.EACCES, unix.EPERM:
		return ErrAccessDenied
	case unix.EINVAL:
		return ErrInvalidArgument
	case unix.EFAULT:
		return ErrFaultyArgument
	case unix.ENAMETOOLONG:
		return ErrNameTooLong
	default:
		return ErrIO
	}
}

// mapStoreError normalizes an arbitrary store failure into a ResolveError.
//
// Errors already carrying a taxonomy code pass through unchanged; raw errnos
// go through MapErrno; anything else is a generic I/O error.
func mapStoreError(err error) *ResolveError {
	var re *ResolveError
	if errors.As(err, &re) {
		return re
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return &ResolveError{Code: MapErrno(errno), Message: errno.Error()}
	}
	return NewIOError(err.Error())
}

// mapHandleError normalizes a failure to open or stat an already-held
// handle.
//
// At this step "no such object" means the handle pointed at something that
// has since been removed, so NotFound is upgraded to StaleHandle. Lookups by
// name never go through this path and keep the NotFound/StaleHandle
// distinction intact.
func mapHandleError(err error, handle ObjectHandle) *ResolveError {
	re := mapStoreError(err)
	if re.Code == ErrNotFound {
		return NewStaleHandleError(handle)
	}
	return re
}
