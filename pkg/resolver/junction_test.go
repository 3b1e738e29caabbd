package resolver_test

import (
	"context"
	"testing"

	"github.com/marmos91/resolvefs/pkg/resolver"
	"github.com/marmos91/resolvefs/pkg/resolver/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_ResolveJunction(t *testing.T) {
	t.Parallel()

	t.Run("resolves a mapped junction to the fileset root", func(t *testing.T) {
		t.Parallel()

		// The mounted fileset lives in its own namespace with its own root.
		fileset := memory.New()

		federation := resolver.NewStaticFederation()
		f := newTestFixture(t, resolver.Options{Federation: federation})
		federation.SetMapping(f.mnt, fileset.RootHandle())

		target, _, err := f.resolver.ResolveJunction(authContext(0, 0), f.mnt, 0)

		require.NoError(t, err)
		assert.Equal(t, fileset.RootHandle(), target)
	})

	t.Run("unmapped junction is NotFound", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture(t, resolver.Options{Federation: resolver.NewStaticFederation()})

		_, _, err := f.resolver.ResolveJunction(authContext(0, 0), f.mnt, 0)

		require.Error(t, err)
		assert.True(t, resolver.IsNotFoundError(err))
	})

	t.Run("missing federation collaborator is NotFound", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture(t, resolver.Options{})

		_, _, err := f.resolver.ResolveJunction(authContext(0, 0), f.mnt, 0)

		require.Error(t, err)
		assert.True(t, resolver.IsNotFoundError(err))
	})

	t.Run("zero junction handle is FaultyArgument", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture(t, resolver.Options{Federation: resolver.NewStaticFederation()})

		_, _, err := f.resolver.ResolveJunction(authContext(0, 0), resolver.ObjectHandle{}, 0)

		require.Error(t, err)
		assert.Equal(t, resolver.ErrFaultyArgument, resolver.CodeOf(err))
	})

	t.Run("nil auth context is FaultyArgument", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture(t, resolver.Options{Federation: resolver.NewStaticFederation()})

		_, _, err := f.resolver.ResolveJunction(nil, f.mnt, 0)

		require.Error(t, err)
		assert.Equal(t, resolver.ErrFaultyArgument, resolver.CodeOf(err))
	})

	t.Run("foreign target attributes degrade instead of failing", func(t *testing.T) {
		t.Parallel()

		// The target root belongs to another namespace, so the local
		// attribute provider cannot stat it.
		fileset := memory.New()

		federation := resolver.NewStaticFederation()
		f := newTestFixture(t, resolver.Options{Federation: federation})
		federation.SetMapping(f.mnt, fileset.RootHandle())

		target, attrs, err := f.resolver.ResolveJunction(authContext(0, 0), f.mnt, resolver.AttrBasic)

		require.NoError(t, err)
		assert.Equal(t, fileset.RootHandle(), target)
		require.NotNil(t, attrs)
		assert.True(t, attrs.Degraded())
	})
}

func TestStaticFederation(t *testing.T) {
	t.Parallel()

	t.Run("set and remove mappings", func(t *testing.T) {
		t.Parallel()

		junction := testHandle(1)
		target := testHandle(2)

		federation := resolver.NewStaticFederation()
		federation.SetMapping(junction, target)

		got, err := federation.ResolveFederationMapping(context.Background(), junction)
		require.NoError(t, err)
		assert.Equal(t, target, got)

		federation.RemoveMapping(junction)

		_, err = federation.ResolveFederationMapping(context.Background(), junction)
		require.Error(t, err)
		assert.True(t, resolver.IsNotFoundError(err))
	})

	t.Run("replacing a mapping takes effect", func(t *testing.T) {
		t.Parallel()

		junction := testHandle(1)
		federation := resolver.NewStaticFederation()
		federation.SetMapping(junction, testHandle(2))
		federation.SetMapping(junction, testHandle(3))

		got, err := federation.ResolveFederationMapping(context.Background(), junction)
		require.NoError(t, err)
		assert.Equal(t, testHandle(3), got)
	})
}

// testHandle builds a distinct non-zero handle from a tag byte.
func testHandle(tag byte) resolver.ObjectHandle {
	var h resolver.ObjectHandle
	for i := range h {
		h[i] = tag
	}
	return h
}
