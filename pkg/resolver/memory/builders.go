package memory

import (
	"time"

	"github.com/marmos91/resolvefs/pkg/resolver"
)

// ============================================================================
// Namespace Builders
// ============================================================================
//
// These methods build and mutate the synthetic namespace. They are store
// maintenance, not part of the resolution core: the resolver itself never
// creates or removes objects.

// MkDir creates a directory under parent and returns its handle.
func (s *Store) MkDir(parent resolver.ObjectHandle, name resolver.Name, mode uint32, uid, gid uint32) (resolver.ObjectHandle, error) {
	return s.create(parent, name, resolver.ObjectInfo{
		Kind:  resolver.KindDirectory,
		Mode:  mode,
		UID:   uid,
		GID:   gid,
		Nlink: 2,
	}, true)
}

// CreateFile creates a regular file under parent and returns its handle.
func (s *Store) CreateFile(parent resolver.ObjectHandle, name resolver.Name, mode uint32, uid, gid uint32) (resolver.ObjectHandle, error) {
	return s.create(parent, name, resolver.ObjectInfo{
		Kind:  resolver.KindRegularFile,
		Mode:  mode,
		UID:   uid,
		GID:   gid,
		Nlink: 1,
	}, false)
}

// CreateSymlink creates a symbolic link under parent.
func (s *Store) CreateSymlink(parent resolver.ObjectHandle, name resolver.Name, mode uint32, uid, gid uint32) (resolver.ObjectHandle, error) {
	return s.create(parent, name, resolver.ObjectInfo{
		Kind:  resolver.KindSymlink,
		Mode:  mode,
		UID:   uid,
		GID:   gid,
		Nlink: 1,
	}, false)
}

// CreateJunction creates a junction (fileset mount point) under parent.
// The federation mapping to the target namespace is managed separately.
func (s *Store) CreateJunction(parent resolver.ObjectHandle, name resolver.Name, mode uint32, uid, gid uint32) (resolver.ObjectHandle, error) {
	return s.create(parent, name, resolver.ObjectInfo{
		Kind:  resolver.KindJunction,
		Mode:  mode,
		UID:   uid,
		GID:   gid,
		Nlink: 2,
	}, true)
}

// CreateObject creates an object of an arbitrary kind under parent.
// Useful for exercising kinds the builders above do not cover.
func (s *Store) CreateObject(parent resolver.ObjectHandle, name resolver.Name, info resolver.ObjectInfo) (resolver.ObjectHandle, error) {
	return s.create(parent, name, info, info.Kind == resolver.KindDirectory)
}

func (s *Store) create(parent resolver.ObjectHandle, name resolver.Name, info resolver.ObjectInfo, dir bool) (resolver.ObjectHandle, error) {
	if _, err := resolver.ParseName(string(name)); err != nil {
		return resolver.ObjectHandle{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parentObj, exists := s.objects[parent]
	if !exists {
		return resolver.ObjectHandle{}, resolver.NewStaleHandleError(parent)
	}
	if parentObj.children == nil {
		return resolver.ObjectHandle{}, resolver.NewNotADirectoryError(parentObj.info.Kind)
	}
	if _, taken := parentObj.children[name]; taken {
		return resolver.ObjectHandle{}, &resolver.ResolveError{
			Code:    resolver.ErrInvalidArgument,
			Message: "name already exists",
			Path:    string(name),
		}
	}

	now := time.Now()
	info.Atime = now
	info.Mtime = now
	info.Ctime = now

	handle := newHandle()
	obj := &object{info: info, parent: parent}
	if dir {
		obj.children = make(map[resolver.Name]resolver.ObjectHandle)
	}

	s.objects[handle] = obj
	parentObj.children[name] = handle
	parentObj.info.Mtime = now
	parentObj.info.Ctime = now

	return handle, nil
}

// Remove unlinks name from parent and deletes its object (recursively for
// directories). Handles of removed objects become stale.
func (s *Store) Remove(parent resolver.ObjectHandle, name resolver.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parentObj, exists := s.objects[parent]
	if !exists {
		return resolver.NewStaleHandleError(parent)
	}

	child, exists := parentObj.children[name]
	if !exists {
		return resolver.NewNotFoundError(string(name))
	}

	s.removeTree(child)
	delete(parentObj.children, name)

	now := time.Now()
	parentObj.info.Mtime = now
	parentObj.info.Ctime = now
	return nil
}

func (s *Store) removeTree(h resolver.ObjectHandle) {
	obj, exists := s.objects[h]
	if !exists {
		return
	}
	for _, child := range obj.children {
		s.removeTree(child)
	}
	delete(s.objects, h)
}
