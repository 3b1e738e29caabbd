package badger

import (
	"errors"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/marmos91/resolvefs/pkg/resolver"
)

// ============================================================================
// Namespace Builders
// ============================================================================
//
// Store maintenance operations for building the persistent namespace. Like
// the memory store's builders, these are not part of the resolution core.

// MkDir creates a directory under parent and returns its handle.
func (s *Store) MkDir(parent resolver.ObjectHandle, name resolver.Name, mode uint32, uid, gid uint32) (resolver.ObjectHandle, error) {
	return s.create(parent, name, resolver.ObjectInfo{
		Kind:  resolver.KindDirectory,
		Mode:  mode,
		UID:   uid,
		GID:   gid,
		Nlink: 2,
	})
}

// CreateFile creates a regular file under parent and returns its handle.
func (s *Store) CreateFile(parent resolver.ObjectHandle, name resolver.Name, mode uint32, uid, gid uint32) (resolver.ObjectHandle, error) {
	return s.create(parent, name, resolver.ObjectInfo{
		Kind:  resolver.KindRegularFile,
		Mode:  mode,
		UID:   uid,
		GID:   gid,
		Nlink: 1,
	})
}

// CreateJunction creates a junction under parent. Pair with
// SetFederationMapping to make it resolvable.
func (s *Store) CreateJunction(parent resolver.ObjectHandle, name resolver.Name, mode uint32, uid, gid uint32) (resolver.ObjectHandle, error) {
	return s.create(parent, name, resolver.ObjectInfo{
		Kind:  resolver.KindJunction,
		Mode:  mode,
		UID:   uid,
		GID:   gid,
		Nlink: 2,
	})
}

func (s *Store) create(parent resolver.ObjectHandle, name resolver.Name, info resolver.ObjectInfo) (resolver.ObjectHandle, error) {
	if _, err := resolver.ParseName(string(name)); err != nil {
		return resolver.ObjectHandle{}, err
	}

	now := time.Now()
	info.Atime = now
	info.Mtime = now
	info.Ctime = now

	handle := newHandle()
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		// Parent must be a live directory.
		item, err := txn.Get(keyObject(parent))
		if err != nil {
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return resolver.NewStaleHandleError(parent)
			}
			return err
		}
		var parentInfo *resolver.ObjectInfo
		if err := item.Value(func(val []byte) error {
			parentInfo, err = decodeInfo(val)
			return err
		}); err != nil {
			return err
		}
		if parentInfo.Kind != resolver.KindDirectory && parentInfo.Kind != resolver.KindJunction {
			return resolver.NewNotADirectoryError(parentInfo.Kind)
		}

		if _, err := txn.Get(keyChild(parent, name)); err == nil {
			return &resolver.ResolveError{
				Code:    resolver.ErrInvalidArgument,
				Message: "name already exists",
				Path:    string(name),
			}
		} else if !errors.Is(err, badgerdb.ErrKeyNotFound) {
			return err
		}

		data, err := encodeInfo(&info)
		if err != nil {
			return err
		}
		if err := txn.Set(keyObject(handle), data); err != nil {
			return err
		}
		return txn.Set(keyChild(parent, name), handle[:])
	})
	if err != nil {
		return resolver.ObjectHandle{}, err
	}
	return handle, nil
}

// Remove unlinks name from parent and deletes its object metadata. Child
// entries of a removed directory are removed with it.
func (s *Store) Remove(parent resolver.ObjectHandle, name resolver.Name) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		entryKey := keyChild(parent, name)
		item, err := txn.Get(entryKey)
		if err != nil {
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return resolver.NewNotFoundError(string(name))
			}
			return err
		}

		var child resolver.ObjectHandle
		if err := item.Value(func(val []byte) error {
			child, err = resolver.HandleFromBytes(val)
			return err
		}); err != nil {
			return err
		}

		if err := removeTree(txn, child); err != nil {
			return err
		}
		return txn.Delete(entryKey)
	})
}

// removeTree deletes an object and, recursively, its directory entries.
func removeTree(txn *badgerdb.Txn, h resolver.ObjectHandle) error {
	prefix := keyChildPrefix(h)

	// Collect child entries first: badger iterators must not outlive
	// writes in the same transaction over their key range.
	type entry struct {
		key    []byte
		handle resolver.ObjectHandle
	}
	var entries []entry

	opts := badgerdb.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)
		var childHandle resolver.ObjectHandle
		if err := item.Value(func(val []byte) error {
			var err error
			childHandle, err = resolver.HandleFromBytes(val)
			return err
		}); err != nil {
			it.Close()
			return err
		}
		entries = append(entries, entry{key: key, handle: childHandle})
	}
	it.Close()

	for _, e := range entries {
		if err := removeTree(txn, e.handle); err != nil {
			return err
		}
		if err := txn.Delete(e.key); err != nil {
			return err
		}
	}

	if err := txn.Delete(keyFederation(h)); err != nil && !errors.Is(err, badgerdb.ErrKeyNotFound) {
		return err
	}
	return txn.Delete(keyObject(h))
}
