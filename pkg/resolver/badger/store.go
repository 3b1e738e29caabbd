// Package badger provides a BadgerDB-backed HandleStore.
//
// The namespace persists across process restarts: handles minted in one run
// keep resolving in the next, which is the property protocol servers rely on
// when clients cache handles.
package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/marmos91/resolvefs/pkg/resolver"
)

// Store is a persistent handle store backed by BadgerDB.
type Store struct {
	db   *badgerdb.DB
	root resolver.ObjectHandle
}

// Open opens (or creates) a store at the given directory.
// A fresh database gets a root directory owned by root:root, mode 0o755.
func Open(path string) (*Store, error) {
	opts := badgerdb.DefaultOptions(path)
	opts.Logger = nil // badger's own logger is too chatty for a library

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store at %q: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.loadOrCreateRoot(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadOrCreateRoot() error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keyRoot))
		if err == nil {
			return item.Value(func(val []byte) error {
				h, err := resolver.HandleFromBytes(val)
				if err != nil {
					return err
				}
				s.root = h
				return nil
			})
		}
		if !errors.Is(err, badgerdb.ErrKeyNotFound) {
			return err
		}

		now := time.Now()
		s.root = newHandle()
		info := &resolver.ObjectInfo{
			Kind:  resolver.KindDirectory,
			Mode:  0o755,
			Nlink: 2,
			Atime: now,
			Mtime: now,
			Ctime: now,
		}
		data, err := encodeInfo(info)
		if err != nil {
			return err
		}
		if err := txn.Set(keyObject(s.root), data); err != nil {
			return err
		}
		return txn.Set([]byte(keyRoot), s.root[:])
	})
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
func (s *Store) OpenByHandle(ctx context.Context, h resolver.ObjectHandle) (resolver.ObjectRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err := s.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(keyObject(h))
		return err
	})
	if err != nil {
		return nil, mapBadgerError(err, h.String())
	}

	return &objectRef{store: s, handle: h}, nil
}

// objectRef is a transient reference to an open object.
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

	var info *resolver.ObjectInfo
	err := r.store.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(keyObject(r.handle))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			info, err = decodeInfo(val)
			return err
		})
	})
	if err != nil {
		return nil, mapBadgerError(err, r.handle.String())
	}
	return info, nil
}

// LookupName implements resolver.ObjectRef.
func (r *objectRef) LookupName(ctx context.Context, name resolver.Name) (resolver.ObjectHandle, error) {
	if err := ctx.Err(); err != nil {
		return resolver.ObjectHandle{}, err
	}

	var child resolver.ObjectHandle
	err := r.store.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(keyChild(r.handle, name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			child, err = resolver.HandleFromBytes(val)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return resolver.ObjectHandle{}, resolver.NewNotFoundError(string(name))
		}
		return resolver.ObjectHandle{}, mapBadgerError(err, string(name))
	}
	return child, nil
}

// Close implements resolver.ObjectRef.
func (r *objectRef) Close() error {
	r.closed = true
	return nil
}

// ============================================================================
// FederationResolver Implementation
// ============================================================================

// SetFederationMapping registers the target namespace root for a junction.
func (s *Store) SetFederationMapping(junction, target resolver.ObjectHandle) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(keyFederation(junction), target[:])
	})
}

// ResolveFederationMapping implements resolver.FederationResolver.
// An absent mapping is reported as NotFound, never fabricated.
func (s *Store) ResolveFederationMapping(ctx context.Context, junction resolver.ObjectHandle) (resolver.ObjectHandle, error) {
	if err := ctx.Err(); err != nil {
		return resolver.ObjectHandle{}, err
	}

	var target resolver.ObjectHandle
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(keyFederation(junction))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			target, err = resolver.HandleFromBytes(val)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return resolver.ObjectHandle{}, &resolver.ResolveError{
				Code:    resolver.ErrNotFound,
				Message: "no federation mapping for junction",
				Path:    junction.String(),
			}
		}
		return resolver.ObjectHandle{}, mapBadgerError(err, junction.String())
	}
	return target, nil
}

// mapBadgerError translates badger failures into the resolution taxonomy.
func mapBadgerError(err error, path string) error {
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return &resolver.ResolveError{
			Code:    resolver.ErrNotFound,
			Message: "object not found",
			Path:    path,
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &resolver.ResolveError{
		Code:    resolver.ErrIO,
		Message: err.Error(),
		Path:    path,
	}
}
