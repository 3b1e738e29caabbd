package resolver

import "time"

// ObjectKind represents the type of a filesystem object.
//
// The kind is derived from store metadata at resolution time and is never
// cached authoritatively by the resolver.
type ObjectKind int

const (
	// KindDirectory is a plain directory that may be traversed.
	KindDirectory ObjectKind = iota

	// KindRegularFile is a regular file.
	KindRegularFile

	// KindSymlink is a symbolic link. The resolver does not follow links;
	// traversal through one fails with NotADirectory.
	KindSymlink

	// KindXAttrDir is an extended-attribute container exposed as a
	// pseudo-directory. It cannot be traversed by name lookup.
	KindXAttrDir

	// KindJunction is a directory that is the mount point of another
	// namespace instance. Plain resolution refuses to cross it; callers
	// must use ResolveJunction explicitly.
	KindJunction

	// KindOther covers kinds the resolver has no traversal semantics for
	// (devices, sockets, FIFOs). Encountering one as a lookup parent is an
	// internal-consistency violation.
	KindOther
)

// String returns a human-readable name for the object kind.
func (k ObjectKind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindRegularFile:
		return "regular"
	case KindSymlink:
		return "symlink"
	case KindXAttrDir:
		return "xattrdir"
	case KindJunction:
		return "junction"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// ObjectInfo is a point-in-time metadata snapshot for a filesystem object,
// as reported by the handle store.
type ObjectInfo struct {
	// Kind is the object type.
	Kind ObjectKind `json:"kind"`

	// Mode contains Unix permission bits (0o7777 max).
	Mode uint32 `json:"mode"`

	// UID is the owner user ID.
	UID uint32 `json:"uid"`

	// GID is the owner group ID.
	GID uint32 `json:"gid"`

	// Nlink is the number of hard links referencing the object.
	Nlink uint32 `json:"nlink"`

	// Size is the object size in bytes.
	Size uint64 `json:"size"`

	// Atime is the last access time.
	Atime time.Time `json:"atime"`

	// Mtime is the last content modification time.
	Mtime time.Time `json:"mtime"`

	// Ctime is the last metadata change time.
	Ctime time.Time `json:"ctime"`
}

// ============================================================================
// Attribute Masks and Results
// ============================================================================

// AttrMask is a bitset of attribute categories a caller wants fetched
// alongside a resolution.
type AttrMask uint32

const (
	// AttrKind requests the object kind.
	AttrKind AttrMask = 1 << iota

	// AttrMode requests the permission bits.
	AttrMode

	// AttrOwner requests UID/GID.
	AttrOwner

	// AttrSize requests the size and link count.
	AttrSize

	// AttrTimes requests atime/mtime/ctime.
	AttrTimes

	// AttrReadError marks a degraded result: the resolution itself
	// succeeded but attributes could not be fetched. When set, it is the
	// only bit set and the Info field must be ignored.
	AttrReadError
)

// AttrBasic requests every regular attribute category.
const AttrBasic = AttrKind | AttrMode | AttrOwner | AttrSize | AttrTimes

// AttrResult carries the attributes fetched for a resolved handle.
//
// Mask reports which of the requested categories were satisfied. A result
// whose Mask is exactly AttrReadError is degraded: the handle it accompanies
// is valid, the metadata is not. Callers that treat a degraded result as a
// hard resolution failure are misusing the API.
type AttrResult struct {
	// Mask is the set of satisfied attribute categories, or AttrReadError
	// alone for a degraded result.
	Mask AttrMask `json:"mask"`

	// Info holds the fetched attribute values. Only the categories present
	// in Mask are meaningful.
	Info ObjectInfo `json:"info"`
}

// Degraded returns true if attributes could not be fetched for an otherwise
// successful resolution.
func (r *AttrResult) Degraded() bool {
	return r != nil && r.Mask&AttrReadError != 0
}

// DegradedAttrResult returns the marker result used when an attribute fetch
// fails during a successful resolution: the requested mask is cleared and
// replaced with the single AttrReadError bit.
func DegradedAttrResult() *AttrResult {
	return &AttrResult{Mask: AttrReadError}
}
