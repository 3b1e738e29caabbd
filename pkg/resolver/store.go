package resolver

import "context"

// ============================================================================
// Handle Store Contract
// ============================================================================

// HandleStore is the underlying filesystem primitive the resolver consumes.
//
// A store mints handles, opens them into transient references and resolves
// names inside an open reference. The resolver treats handles as opaque and
// never re-walks a path string to reach an object it already holds a handle
// for.
//
// Implementations must be safe for concurrent use on distinct handles. The
// resolver wraps each call in its admission gate, so stores do not need
// their own throttling.
type HandleStore interface {
	// RootHandle returns the well-known handle of the namespace root.
	// It must not touch backing storage.
	RootHandle() ObjectHandle

	// OpenByHandle opens the object identified by h and returns a
	// transient reference to it. A handle whose referent no longer exists
	// fails with NotFound or ESTALE; the resolver reports either as
	// StaleHandle.
	OpenByHandle(ctx context.Context, h ObjectHandle) (ObjectRef, error)
}

// ObjectRef is a transient, file-descriptor-like reference to an open
// object.
//
// A reference is held for a single resolution step and must be released via
// Close on every path. Stat and LookupName operate on the same open
// reference, which is what closes the window between the directory-type
// check and the name lookup.
type ObjectRef interface {
	// Stat fetches the current metadata of the open object.
	Stat(ctx context.Context) (*ObjectInfo, error)

	// LookupName resolves a child name within the open directory to the
	// child's handle. A missing name fails with NotFound.
	LookupName(ctx context.Context, name Name) (ObjectHandle, error)

	// Close releases the reference. Close is idempotent.
	Close() error
}

// PathTranslator is an optional bulk primitive a store may offer: direct
// translation of an absolute path string to a handle in one call.
//
// When the configured store implements it, ResolvePath uses it instead of
// folding Resolve over the components.
type PathTranslator interface {
	// HandleByPath resolves an absolute path to a handle in a single
	// store call.
	HandleByPath(ctx context.Context, path string) (ObjectHandle, error)
}
