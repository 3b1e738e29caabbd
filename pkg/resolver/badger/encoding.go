package badger

import (
	"encoding/json"

	"github.com/marmos91/resolvefs/pkg/resolver"
)

// ============================================================================
// Database Key Namespace Design
// ============================================================================
//
// BadgerDB is a key-value store, so prefixed keys organize the data types
// into logical namespaces and prevent collisions. Handles are random
// 32-byte values minted at creation time, so keys stay stable across
// renames.
//
// Data Type             Prefix   Key Format                    Value Type
// =========================================================================
// Object Info           "o:"     o:<handle>                    ObjectInfo (JSON)
// Children Map          "c:"     c:<parentHandle><name>        child handle (bytes)
// Federation Mapping    "j:"     j:<junctionHandle>            target handle (bytes)
// Root Handle           "cfg:"   cfg:root                      handle (bytes)

const (
	prefixObject     = "o:"
	prefixChild      = "c:"
	prefixFederation = "j:"
	keyRoot          = "cfg:root"
)

// keyObject generates a key for object metadata: "o:<handle>"
func keyObject(h resolver.ObjectHandle) []byte {
	key := make([]byte, 0, len(prefixObject)+resolver.HandleSize)
	key = append(key, prefixObject...)
	return append(key, h[:]...)
}

// keyChild generates a key for a directory entry: "c:<parentHandle><name>"
func keyChild(parent resolver.ObjectHandle, name resolver.Name) []byte {
	key := make([]byte, 0, len(prefixChild)+resolver.HandleSize+len(name))
	key = append(key, prefixChild...)
	key = append(key, parent[:]...)
	return append(key, name...)
}

// keyChildPrefix generates the scan prefix for all entries of a directory.
func keyChildPrefix(parent resolver.ObjectHandle) []byte {
	key := make([]byte, 0, len(prefixChild)+resolver.HandleSize)
	key = append(key, prefixChild...)
	return append(key, parent[:]...)
}

// keyFederation generates a key for a junction mapping: "j:<handle>"
func keyFederation(junction resolver.ObjectHandle) []byte {
	key := make([]byte, 0, len(prefixFederation)+resolver.HandleSize)
	key = append(key, prefixFederation...)
	return append(key, junction[:]...)
}

// encodeInfo serializes object metadata to JSON.
func encodeInfo(info *resolver.ObjectInfo) ([]byte, error) {
	return json.Marshal(info)
}

// decodeInfo deserializes object metadata from JSON.
func decodeInfo(data []byte) (*resolver.ObjectInfo, error) {
	var info resolver.ObjectInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
