package memory_test

import (
	"context"
	"testing"

	"github.com/marmos91/resolvefs/pkg/resolver"
	"github.com/marmos91/resolvefs/pkg/resolver/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RootHandle(t *testing.T) {
	t.Parallel()

	t.Run("root exists and is a directory", func(t *testing.T) {
		t.Parallel()
		store := memory.New()

		ref, err := store.OpenByHandle(context.Background(), store.RootHandle())
		require.NoError(t, err)
		defer ref.Close()

		info, err := ref.Stat(context.Background())
		require.NoError(t, err)
		assert.Equal(t, resolver.KindDirectory, info.Kind)
		assert.Equal(t, uint32(0o755), info.Mode)
	})

	t.Run("root ownership is configurable", func(t *testing.T) {
		t.Parallel()
		store := memory.NewWithRoot(0o700, 1000, 1000)

		ref, err := store.OpenByHandle(context.Background(), store.RootHandle())
		require.NoError(t, err)
		defer ref.Close()

		info, err := ref.Stat(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint32(0o700), info.Mode)
		assert.Equal(t, uint32(1000), info.UID)
		assert.Equal(t, uint32(1000), info.GID)
	})

	t.Run("distinct stores mint distinct roots", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, memory.New().RootHandle(), memory.New().RootHandle())
	})
}

func TestStore_OpenByHandle(t *testing.T) {
	t.Parallel()

	t.Run("unknown handle is NotFound", func(t *testing.T) {
		t.Parallel()
		store := memory.New()

		var bogus resolver.ObjectHandle
		bogus[0] = 0xff

		_, err := store.OpenByHandle(context.Background(), bogus)
		require.Error(t, err)
		assert.True(t, resolver.IsNotFoundError(err))
	})

	t.Run("canceled context is honored", func(t *testing.T) {
		t.Parallel()
		store := memory.New()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.OpenByHandle(ctx, store.RootHandle())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("removal between open and stat surfaces as NotFound", func(t *testing.T) {
		t.Parallel()
		store := memory.New()
		root := store.RootHandle()

		dir, err := store.MkDir(root, "dir", 0o755, 0, 0)
		require.NoError(t, err)

		ref, err := store.OpenByHandle(context.Background(), dir)
		require.NoError(t, err)
		defer ref.Close()

		require.NoError(t, store.Remove(root, "dir"))

		_, err = ref.Stat(context.Background())
		require.Error(t, err)
		assert.True(t, resolver.IsNotFoundError(err))
	})
}

func TestStore_LookupName(t *testing.T) {
	t.Parallel()

	store := memory.New()
	root := store.RootHandle()
	docs, err := store.MkDir(root, "docs", 0o755, 0, 0)
	require.NoError(t, err)

	ref, err := store.OpenByHandle(context.Background(), root)
	require.NoError(t, err)
	defer ref.Close()

	t.Run("finds an existing child", func(t *testing.T) {
		handle, err := ref.LookupName(context.Background(), "docs")
		require.NoError(t, err)
		assert.Equal(t, docs, handle)
	})

	t.Run("missing child is NotFound", func(t *testing.T) {
		_, err := ref.LookupName(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, resolver.IsNotFoundError(err))
	})

	t.Run("names are case sensitive", func(t *testing.T) {
		_, err := ref.LookupName(context.Background(), "DOCS")
		require.Error(t, err)
		assert.True(t, resolver.IsNotFoundError(err))
	})
}

func TestStore_Builders(t *testing.T) {
	t.Parallel()

	t.Run("object kinds", func(t *testing.T) {
		t.Parallel()
		store := memory.New()
		root := store.RootHandle()

		cases := []struct {
			name   resolver.Name
			create func() (resolver.ObjectHandle, error)
			kind   resolver.ObjectKind
		}{
			{"dir", func() (resolver.ObjectHandle, error) { return store.MkDir(root, "dir", 0o755, 0, 0) }, resolver.KindDirectory},
			{"file", func() (resolver.ObjectHandle, error) { return store.CreateFile(root, "file", 0o644, 0, 0) }, resolver.KindRegularFile},
			{"link", func() (resolver.ObjectHandle, error) { return store.CreateSymlink(root, "link", 0o777, 0, 0) }, resolver.KindSymlink},
			{"mnt", func() (resolver.ObjectHandle, error) { return store.CreateJunction(root, "mnt", 0o755, 0, 0) }, resolver.KindJunction},
		}

		for _, tc := range cases {
			handle, err := tc.create()
			require.NoError(t, err, tc.name)

			ref, err := store.OpenByHandle(context.Background(), handle)
			require.NoError(t, err)
			info, err := ref.Stat(context.Background())
			require.NoError(t, err)
			ref.Close()

			assert.Equal(t, tc.kind, info.Kind, tc.name)
		}
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		t.Parallel()
		store := memory.New()
		root := store.RootHandle()

		_, err := store.MkDir(root, "twice", 0o755, 0, 0)
		require.NoError(t, err)

		_, err = store.CreateFile(root, "twice", 0o644, 0, 0)
		require.Error(t, err)
		assert.Equal(t, resolver.ErrInvalidArgument, resolver.CodeOf(err))
	})

	t.Run("invalid name is rejected", func(t *testing.T) {
		t.Parallel()
		store := memory.New()

		_, err := store.MkDir(store.RootHandle(), "a/b", 0o755, 0, 0)
		require.Error(t, err)
		assert.Equal(t, resolver.ErrInvalidArgument, resolver.CodeOf(err))
	})

	t.Run("stale parent is rejected", func(t *testing.T) {
		t.Parallel()
		store := memory.New()
		root := store.RootHandle()

		dir, err := store.MkDir(root, "dir", 0o755, 0, 0)
		require.NoError(t, err)
		require.NoError(t, store.Remove(root, "dir"))

		_, err = store.MkDir(dir, "child", 0o755, 0, 0)
		require.Error(t, err)
		assert.True(t, resolver.IsStaleHandleError(err))
	})

	t.Run("non-directory parent is rejected", func(t *testing.T) {
		t.Parallel()
		store := memory.New()

		file, err := store.CreateFile(store.RootHandle(), "file", 0o644, 0, 0)
		require.NoError(t, err)

		_, err = store.MkDir(file, "child", 0o755, 0, 0)
		require.Error(t, err)
		assert.Equal(t, resolver.ErrNotADirectory, resolver.CodeOf(err))
	})
}

func TestStore_Remove(t *testing.T) {
	t.Parallel()

	t.Run("removed handles go stale recursively", func(t *testing.T) {
		t.Parallel()
		store := memory.New()
		root := store.RootHandle()

		dir, err := store.MkDir(root, "dir", 0o755, 0, 0)
		require.NoError(t, err)
		nested, err := store.CreateFile(dir, "nested", 0o644, 0, 0)
		require.NoError(t, err)

		require.NoError(t, store.Remove(root, "dir"))

		for _, handle := range []resolver.ObjectHandle{dir, nested} {
			_, err := store.OpenByHandle(context.Background(), handle)
			require.Error(t, err)
			assert.True(t, resolver.IsNotFoundError(err))
		}
	})

	t.Run("removing a missing name is NotFound", func(t *testing.T) {
		t.Parallel()
		store := memory.New()

		err := store.Remove(store.RootHandle(), "missing")
		require.Error(t, err)
		assert.True(t, resolver.IsNotFoundError(err))
	})

	t.Run("handles are never reused", func(t *testing.T) {
		t.Parallel()
		store := memory.New()
		root := store.RootHandle()

		first, err := store.MkDir(root, "dir", 0o755, 0, 0)
		require.NoError(t, err)
		require.NoError(t, store.Remove(root, "dir"))

		second, err := store.MkDir(root, "dir", 0o755, 0, 0)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}
