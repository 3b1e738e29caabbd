package resolver_test

import (
	"context"
	"testing"

	"github.com/marmos91/resolvefs/pkg/resolver"
	"github.com/marmos91/resolvefs/pkg/resolver/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_ResolvePath(t *testing.T) {
	t.Parallel()

	t.Run("slash resolves to the root handle", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture(t, resolver.Options{})

		handle, attrs, err := f.resolver.ResolvePath(authContext(0, 0), "/", 0)

		require.NoError(t, err)
		assert.Equal(t, f.store.RootHandle(), handle)
		assert.Nil(t, attrs)
	})

	t.Run("relative path is InvalidArgument", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture(t, resolver.Options{})

		_, _, err := f.resolver.ResolvePath(authContext(0, 0), "docs/report.txt", 0)

		require.Error(t, err)
		assert.Equal(t, resolver.ErrInvalidArgument, resolver.CodeOf(err))
	})

	t.Run("empty path is InvalidArgument", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture(t, resolver.Options{})

		_, _, err := f.resolver.ResolvePath(authContext(0, 0), "", 0)

		require.Error(t, err)
		assert.Equal(t, resolver.ErrInvalidArgument, resolver.CodeOf(err))
	})

	t.Run("nil auth context is FaultyArgument", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture(t, resolver.Options{})

		_, _, err := f.resolver.ResolvePath(nil, "/docs", 0)

		require.Error(t, err)
		assert.Equal(t, resolver.ErrFaultyArgument, resolver.CodeOf(err))
	})

	t.Run("walk matches component-wise resolution", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture(t, resolver.Options{})
		ctx := authContext(0, 0)
		root := f.store.RootHandle()

		docs, _, err := f.resolver.Resolve(ctx, &root, namePtr("docs"), 0)
		require.NoError(t, err)
		report, _, err := f.resolver.Resolve(ctx, &docs, namePtr("report.txt"), 0)
		require.NoError(t, err)

		walked, _, err := f.resolver.ResolvePath(ctx, "/docs/report.txt", 0)
		require.NoError(t, err)

		assert.Equal(t, report, walked)
	})

	t.Run("repeated slashes collapse", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture(t, resolver.Options{})

		handle, _, err := f.resolver.ResolvePath(authContext(0, 0), "//docs//report.txt", 0)

		require.NoError(t, err)
		assert.Equal(t, f.report, handle)
	})

	t.Run("walk short-circuits on the first failure", func(t *testing.T) {
		t.Parallel()

		base := memory.New()
		root := base.RootHandle()
		_, err := base.MkDir(root, "a", 0o755, 0, 0)
		require.NoError(t, err)

		counting := &countingStore{HandleStore: base}
		r := resolver.New(counting, resolver.Options{})

		_, _, err = r.ResolvePath(authContext(0, 0), "/a/missing/deeper/still", 0)

		require.Error(t, err)
		assert.True(t, resolver.IsNotFoundError(err))
		// "a" and "missing" were looked up; the components past the
		// failure never reached the store.
		assert.Equal(t, 2, counting.lookups)
	})

	t.Run("fetches attributes for the final object", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture(t, resolver.Options{})

		_, attrs, err := f.resolver.ResolvePath(authContext(0, 0), "/docs/report.txt", resolver.AttrBasic)

		require.NoError(t, err)
		require.NotNil(t, attrs)
		assert.Equal(t, resolver.KindRegularFile, attrs.Info.Kind)
	})

	t.Run("intermediate traversal is permission checked", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture(t, resolver.Options{})
		_, err := f.store.CreateFile(f.private, "secret", 0o644, 1000, 1000)
		require.NoError(t, err)

		_, _, err = f.resolver.ResolvePath(authContext(2000, 2000), "/private/secret", 0)

		require.Error(t, err)
		assert.True(t, resolver.IsAccessDeniedError(err))
	})
}

// ============================================================================
// Bulk Path Translation
// ============================================================================

// translatingStore layers a HandleByPath primitive over the memory store,
// recording how it was called.
type translatingStore struct {
	*memory.Store
	calls []string
	table map[string]resolver.ObjectHandle
}

func (s *translatingStore) HandleByPath(_ context.Context, path string) (resolver.ObjectHandle, error) {
	s.calls = append(s.calls, path)
	handle, ok := s.table[path]
	if !ok {
		return resolver.ObjectHandle{}, resolver.NewNotFoundError(path)
	}
	return handle, nil
}

func TestResolver_ResolvePath_Translator(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*translatingStore, *resolver.Resolver, resolver.ObjectHandle) {
		t.Helper()
		base := memory.New()
		docs, err := base.MkDir(base.RootHandle(), "docs", 0o755, 0, 0)
		require.NoError(t, err)
		report, err := base.CreateFile(docs, "report.txt", 0o644, 0, 0)
		require.NoError(t, err)

		store := &translatingStore{
			Store: base,
			table: map[string]resolver.ObjectHandle{"/docs/report.txt": report},
		}
		return store, resolver.New(store, resolver.Options{}), report
	}

	t.Run("translates the whole path in one call", func(t *testing.T) {
		t.Parallel()
		store, r, report := setup(t)

		handle, _, err := r.ResolvePath(authContext(0, 0), "/docs/report.txt", 0)

		require.NoError(t, err)
		assert.Equal(t, report, handle)
		assert.Equal(t, []string{"/docs/report.txt"}, store.calls)
	})

	t.Run("translator failure is mapped", func(t *testing.T) {
		t.Parallel()
		_, r, _ := setup(t)

		_, _, err := r.ResolvePath(authContext(0, 0), "/docs/missing", 0)

		require.Error(t, err)
		assert.True(t, resolver.IsNotFoundError(err))
	})

	t.Run("root bypasses the translator", func(t *testing.T) {
		t.Parallel()
		store, r, _ := setup(t)

		handle, _, err := r.ResolvePath(authContext(0, 0), "/", 0)

		require.NoError(t, err)
		assert.Equal(t, store.RootHandle(), handle)
		assert.Empty(t, store.calls)
	})
}
