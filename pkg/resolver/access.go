package resolver

// Permission represents an access right on a filesystem object.
type Permission uint32

const (
	// PermissionRead allows reading object content or listing a directory.
	PermissionRead Permission = 1 << iota

	// PermissionWrite allows modifying object content or directory entries.
	PermissionWrite

	// PermissionTraverse allows looking up a name inside a directory.
	// This is the execute bit on directories, distinct from read.
	PermissionTraverse
)

// AccessChecker decides whether an identity may exercise a permission on an
// object, given its metadata snapshot.
//
// The resolver needs exactly one check: traverse permission on the parent
// directory before any name lookup. The policy engine behind richer checks
// (ACLs, share-level rules) lives outside this package; implementations can
// plug one in here.
type AccessChecker interface {
	// CheckTraverse returns nil if identity may look up names inside the
	// directory described by info, or an AccessDenied error.
	CheckTraverse(info *ObjectInfo, identity *Identity) error
}

// UnixAccessChecker implements the classic Unix mode-bit permission model:
//   - Root (UID 0): bypass, all permissions granted
//   - Owner: owner bits (mode >> 6)
//   - Group member: group bits (mode >> 3)
//   - Other / anonymous: world bits
type UnixAccessChecker struct{}

// CheckTraverse implements AccessChecker.
func (UnixAccessChecker) CheckTraverse(info *ObjectInfo, identity *Identity) error {
	if granted := unixPermissions(info, identity, PermissionTraverse); granted&PermissionTraverse == 0 {
		return NewAccessDeniedError("traverse permission denied")
	}
	return nil
}

// unixPermissions computes granted permissions from mode bits and identity.
func unixPermissions(info *ObjectInfo, identity *Identity, requested Permission) Permission {
	if identity == nil || identity.UID == nil {
		// Anonymous users only get world permissions.
		return permissionsFromBits(info.Mode&0x7) & requested
	}

	uid := *identity.UID
	if uid == 0 {
		// Root bypass.
		return requested
	}

	var bits uint32
	switch {
	case uid == info.UID:
		bits = (info.Mode >> 6) & 0x7
	case identity.HasGID(info.GID):
		bits = (info.Mode >> 3) & 0x7
	default:
		bits = info.Mode & 0x7
	}

	return permissionsFromBits(bits) & requested
}

// permissionsFromBits maps a 3-bit Unix rwx pattern to Permission flags.
func permissionsFromBits(bits uint32) Permission {
	var granted Permission
	if bits&0x4 != 0 {
		granted |= PermissionRead
	}
	if bits&0x2 != 0 {
		granted |= PermissionWrite
	}
	if bits&0x1 != 0 {
		granted |= PermissionTraverse
	}
	return granted
}
