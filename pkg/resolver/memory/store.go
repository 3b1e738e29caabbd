// Package memory provides an in-memory HandleStore implementation.
//
// It is the reference store used by the resolver's test suite and is also
// suitable for embedding a synthetic namespace. All operations are safe for
// concurrent use.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/resolvefs/pkg/resolver"
)

// object is the stored state of one filesystem object.
type object struct {
	info     resolver.ObjectInfo
	parent   resolver.ObjectHandle
	children map[resolver.Name]resolver.ObjectHandle
}

// Store is an in-memory handle store.
//
// Handles are minted from random UUIDs, so they are stable across renames
// and never reused after removal: opening a removed object's handle fails
// with NotFound, which the resolver reports as StaleHandle.
type Store struct {
	mu      sync.RWMutex
	root    resolver.ObjectHandle
	objects map[resolver.ObjectHandle]*object
}

// New creates a store with a root directory owned by root:root, mode 0o755.
func New() *Store {
	return NewWithRoot(0o755, 0, 0)
}

// NewWithRoot creates a store whose root directory has the given mode and
// ownership.
func NewWithRoot(mode uint32, uid, gid uint32) *Store {
	s := &Store{objects: make(map[resolver.ObjectHandle]*object)}

	now := time.Now()
	s.root = newHandle()
	s.objects[s.root] = &object{
		info: resolver.ObjectInfo{
			Kind:  resolver.KindDirectory,
			Mode:  mode,
			UID:   uid,
			GID:   gid,
			Nlink: 2,
			Atime: now,
			Mtime: now,
			Ctime: now,
		},
		children: make(map[resolver.Name]resolver.ObjectHandle),
	}
	return s
}

// newHandle mints a fresh opaque handle from two random UUIDs.
func newHandle() resolver.ObjectHandle {
	var h resolver.ObjectHandle
	a, b := uuid.New(), uuid.New()
	copy(h[:16], a[:])
	copy(h[16:], b[:])
	return h
}

// ============================================================================
// HandleStore Implementation
// ============================================================================

// RootHandle implements resolver.HandleStore.
func (s *Store) RootHandle() resolver.ObjectHandle {
	return s.root
}

// OpenByHandle implements resolver.HandleStore.
// Returns NotFound if the handle's referent no longer exists.
func (s *Store) OpenByHandle(ctx context.Context, h resolver.ObjectHandle) (resolver.ObjectRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.objects[h]; !exists {
		return nil, &resolver.ResolveError{
			Code:    resolver.ErrNotFound,
			Message: "object not found",
			Path:    h.String(),
		}
	}

	return &objectRef{store: s, handle: h}, nil
}

// objectRef is a transient reference to an open object.
//
// The store re-reads the object on every call, so an object removed between
// open and stat surfaces as NotFound, matching what a real filesystem
// reports for a dead descriptor's inode.
type objectRef struct {
	store  *Store
	handle resolver.ObjectHandle
	closed bool
}

// Stat implements resolver.ObjectRef.
func (r *objectRef) Stat(ctx context.Context) (*resolver.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	obj, exists := r.store.objects[r.handle]
	if !exists {
		return nil, &resolver.ResolveError{
			Code:    resolver.ErrNotFound,
			Message: "object not found",
			Path:    r.handle.String(),
		}
	}

	info := obj.info
	return &info, nil
}

// LookupName implements resolver.ObjectRef.
func (r *objectRef) LookupName(ctx context.Context, name resolver.Name) (resolver.ObjectHandle, error) {
	if err := ctx.Err(); err != nil {
		return resolver.ObjectHandle{}, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	obj, exists := r.store.objects[r.handle]
	if !exists {
		return resolver.ObjectHandle{}, &resolver.ResolveError{
			Code:    resolver.ErrNotFound,
			Message: "object not found",
			Path:    r.handle.String(),
		}
	}

	child, exists := obj.children[name]
	if !exists {
		return resolver.ObjectHandle{}, resolver.NewNotFoundError(string(name))
	}
	return child, nil
}

// Close implements resolver.ObjectRef.
func (r *objectRef) Close() error {
	r.closed = true
	return nil
}
