package resolver_test

import (
	"strings"
	"testing"

	"github.com/marmos91/resolvefs/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	t.Parallel()

	t.Run("accepts ordinary names", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"report.txt", "a", ".", "..", ".hidden", "with space", "名前"} {
			name, err := resolver.ParseName(s)
			require.NoError(t, err, s)
			assert.Equal(t, resolver.Name(s), name)
		}
	})

	t.Run("accepts a name of exactly the limit", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.ParseName(strings.Repeat("x", resolver.MaxNameLen))
		assert.NoError(t, err)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.ParseName("")
		require.Error(t, err)
		assert.Equal(t, resolver.ErrInvalidArgument, resolver.CodeOf(err))
	})

	t.Run("rejects separators and NUL", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"a/b", "/", "a\x00b"} {
			_, err := resolver.ParseName(s)
			require.Error(t, err, s)
			assert.Equal(t, resolver.ErrInvalidArgument, resolver.CodeOf(err))
		}
	})

	t.Run("rejects an overlong name", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.ParseName(strings.Repeat("x", resolver.MaxNameLen+1))
		require.Error(t, err)
		assert.Equal(t, resolver.ErrNameTooLong, resolver.CodeOf(err))
	})
}

func TestParsePath(t *testing.T) {
	t.Parallel()

	t.Run("root", func(t *testing.T) {
		t.Parallel()
		p, err := resolver.ParsePath("/")
		require.NoError(t, err)
		assert.Empty(t, p)
		assert.Equal(t, "/", p.String())
	})

	t.Run("plain path", func(t *testing.T) {
		t.Parallel()
		p, err := resolver.ParsePath("/a/b/c")
		require.NoError(t, err)
		assert.Equal(t, resolver.Path{"a", "b", "c"}, p)
		assert.Equal(t, "/a/b/c", p.String())
	})

	t.Run("collapses repeated and trailing separators", func(t *testing.T) {
		t.Parallel()
		p, err := resolver.ParsePath("//a///b/")
		require.NoError(t, err)
		assert.Equal(t, resolver.Path{"a", "b"}, p)
	})

	t.Run("rejects relative paths", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"", "a/b", "./a"} {
			_, err := resolver.ParsePath(s)
			require.Error(t, err, s)
			assert.Equal(t, resolver.ErrInvalidArgument, resolver.CodeOf(err))
		}
	})

	t.Run("propagates component validation", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.ParsePath("/a/" + strings.Repeat("x", resolver.MaxNameLen+1))
		require.Error(t, err)
		assert.Equal(t, resolver.ErrNameTooLong, resolver.CodeOf(err))
	})
}

func TestObjectHandle(t *testing.T) {
	t.Parallel()

	t.Run("hex round trip", func(t *testing.T) {
		t.Parallel()
		h := testHandle(0xab)

		parsed, err := resolver.ParseHandle(h.String())
		require.NoError(t, err)
		assert.Equal(t, h, parsed)
	})

	t.Run("zero detection", func(t *testing.T) {
		t.Parallel()
		assert.True(t, resolver.ObjectHandle{}.IsZero())
		assert.False(t, testHandle(1).IsZero())
	})

	t.Run("rejects wrong lengths", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.HandleFromBytes(make([]byte, resolver.HandleSize-1))
		require.Error(t, err)
		assert.Equal(t, resolver.ErrInvalidArgument, resolver.CodeOf(err))

		_, err = resolver.ParseHandle("abcd")
		require.Error(t, err)
		assert.Equal(t, resolver.ErrInvalidArgument, resolver.CodeOf(err))
	})

	t.Run("rejects non-hex input", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.ParseHandle(strings.Repeat("zz", resolver.HandleSize))
		require.Error(t, err)
		assert.Equal(t, resolver.ErrInvalidArgument, resolver.CodeOf(err))
	})
}
