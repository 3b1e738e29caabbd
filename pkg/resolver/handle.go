package resolver

import (
	"encoding/hex"
)

// HandleSize is the size of an object handle in bytes.
//
// Handles are fixed-size so they can be embedded in protocol messages with
// hard handle-length limits (NFS v3 allows at most 64 bytes) and compared
// with ==.
const HandleSize = 32

// ObjectHandle is an opaque, persistent identifier for a filesystem object
// within one namespace instance.
//
// A handle is not derived from the object's path: it survives renames of the
// object and of any ancestor. The resolver never inspects handle contents;
// only the store that minted a handle can interpret it.
//
// ObjectHandle is a value type. It is comparable, freely copyable and has no
// destruction step.
type ObjectHandle [HandleSize]byte

// String returns the hex-encoded handle, primarily for logging.
func (h ObjectHandle) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero returns true if the handle is all zeros (never minted by a store).
func (h ObjectHandle) IsZero() bool {
	return h == ObjectHandle{}
}

// HandleFromBytes copies b into an ObjectHandle.
// Returns an InvalidArgument error when b is not exactly HandleSize bytes.
func HandleFromBytes(b []byte) (ObjectHandle, error) {
	var h ObjectHandle
	if len(b) != HandleSize {
		return h, NewInvalidArgumentError("object handle must be exactly 32 bytes")
	}
	copy(h[:], b)
	return h, nil
}

// ParseHandle parses a hex-encoded handle string, the inverse of String.
func ParseHandle(s string) (ObjectHandle, error) {
	var h ObjectHandle
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, NewInvalidArgumentError("object handle is not valid hex")
	}
	return HandleFromBytes(b)
}
