package resolver

import "context"

// ============================================================================
// Authentication Context
// ============================================================================

// AuthContext contains authentication information for a single resolution.
//
// It is borrowed by reference for the duration of one call and never
// retained. The Context field carries cancellation signals and deadlines;
// they are honored by the underlying storage primitives, not reinterpreted
// by the resolver.
type AuthContext struct {
	// Context carries cancellation signals and deadlines.
	Context context.Context

	// Identity contains the effective client identity after any upstream
	// mapping rules (squashing) have been applied.
	Identity *Identity

	// ClientAddr is the network address of the client, when known.
	// Format: "IP:port" or just "IP".
	ClientAddr string
}

// Ctx returns the carried context, or context.Background when none is set.
func (c *AuthContext) Ctx() context.Context {
	if c == nil || c.Context == nil {
		return context.Background()
	}
	return c.Context
}

// Identity represents a client's Unix-style identity.
//
// A nil UID means anonymous: only world permission bits apply.
type Identity struct {
	// UID is the user ID. nil for anonymous access.
	UID *uint32

	// GID is the primary group ID. nil for anonymous access.
	GID *uint32

	// GIDs is a list of supplementary group IDs used for group membership
	// checks.
	GIDs []uint32

	// gidSet is a cached map for O(1) group membership lookups, built
	// lazily from GIDs. Not safe for concurrent first use; identities are
	// per-request values.
	gidSet map[uint32]struct{}
}

// HasGID checks if the identity carries gid as primary or supplementary
// group.
func (i *Identity) HasGID(gid uint32) bool {
	if i == nil {
		return false
	}
	if i.GID != nil && *i.GID == gid {
		return true
	}
	if i.gidSet == nil && len(i.GIDs) > 0 {
		i.gidSet = make(map[uint32]struct{}, len(i.GIDs))
		for _, g := range i.GIDs {
			i.gidSet[g] = struct{}{}
		}
	}
	_, ok := i.gidSet[gid]
	return ok
}

// Uint32Ptr returns a pointer to v. Convenience for building identities.
func Uint32Ptr(v uint32) *uint32 {
	return &v
}
