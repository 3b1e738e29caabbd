package resolver_test

import (
	"testing"

	"github.com/marmos91/resolvefs/pkg/resolver"
	"github.com/stretchr/testify/assert"
)

func TestUnixAccessChecker_CheckTraverse(t *testing.T) {
	t.Parallel()

	identity := func(uid, gid uint32, extra ...uint32) *resolver.Identity {
		return &resolver.Identity{
			UID:  resolver.Uint32Ptr(uid),
			GID:  resolver.Uint32Ptr(gid),
			GIDs: append([]uint32{gid}, extra...),
		}
	}

	dir := func(mode, uid, gid uint32) *resolver.ObjectInfo {
		return &resolver.ObjectInfo{
			Kind: resolver.KindDirectory,
			Mode: mode,
			UID:  uid,
			GID:  gid,
		}
	}

	checker := resolver.UnixAccessChecker{}

	cases := []struct {
		name     string
		info     *resolver.ObjectInfo
		identity *resolver.Identity
		allowed  bool
	}{
		{"root bypasses everything", dir(0o000, 1000, 1000), identity(0, 0), true},
		{"owner with execute bit", dir(0o700, 1000, 1000), identity(1000, 1000), true},
		{"owner without execute bit", dir(0o600, 1000, 1000), identity(1000, 1000), false},
		{"owner bits shadow group bits", dir(0o070, 1000, 1000), identity(1000, 1000), false},
		{"primary group member", dir(0o710, 1000, 2000), identity(1001, 2000), true},
		{"supplementary group member", dir(0o710, 1000, 2000), identity(1001, 3000, 2000), true},
		{"group member without execute bit", dir(0o760, 1000, 2000), identity(1001, 2000), false},
		{"other with world execute", dir(0o701, 1000, 1000), identity(2000, 2000), true},
		{"other without world execute", dir(0o770, 1000, 1000), identity(2000, 2000), false},
		{"anonymous gets world bits", dir(0o701, 1000, 1000), nil, true},
		{"anonymous denied without world bits", dir(0o770, 1000, 1000), nil, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := checker.CheckTraverse(tc.info, tc.identity)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, resolver.IsAccessDeniedError(err))
			}
		})
	}
}

func TestIdentity_HasGID(t *testing.T) {
	t.Parallel()

	id := &resolver.Identity{
		GID:  resolver.Uint32Ptr(100),
		GIDs: []uint32{100, 200, 300},
	}

	assert.True(t, id.HasGID(100))
	assert.True(t, id.HasGID(300))
	assert.False(t, id.HasGID(400))

	var none *resolver.Identity
	assert.False(t, none.HasGID(100))
}
