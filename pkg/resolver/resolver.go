// Package resolver implements handle-based namespace resolution: it turns an
// opaque directory handle plus a single name (or a full absolute path, or a
// junction object) into the handle of the target object.
//
// Every other filesystem operation addresses objects exclusively through the
// handles this package produces, so the package is strict about three
// things: directory-type invariants are enforced before any lookup,
// filesystem-boundary crossings (junctions) are detected and refused on the
// plain path, and every storage failure is mapped into a small closed error
// taxonomy (see ErrorCode).
package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/marmos91/resolvefs/internal/logger"
)

// Resolver is the core resolution engine.
//
// It is safe for concurrent use: each call operates on its own transient
// store reference and the only shared state is the admission gate bounding
// concurrent storage calls.
type Resolver struct {
	store      HandleStore
	attrs      AttributeProvider
	access     AccessChecker
	gate       *Gate
	federation FederationResolver
	metrics    *ResolverMetrics
}

// Options configures optional resolver collaborators.
//
// Zero-value fields get defaults: Unix mode-bit access checking, attribute
// fetches served by the handle store itself, a gate of DefaultMaxInFlight,
// no federation and no metrics.
type Options struct {
	// Attributes serves attribute fetches for resolved handles.
	Attributes AttributeProvider

	// Access performs the directory traversal permission check.
	Access AccessChecker

	// Gate bounds concurrent outbound storage calls.
	Gate *Gate

	// Federation resolves junction objects to foreign namespace roots.
	// When nil, ResolveJunction fails for every junction.
	Federation FederationResolver

	// Metrics records resolution outcomes. nil disables recording.
	Metrics *ResolverMetrics
}

// New creates a Resolver on top of the given handle store.
func New(store HandleStore, opts Options) *Resolver {
	if store == nil {
		panic("resolver: nil handle store")
	}
	r := &Resolver{
		store:      store,
		attrs:      opts.Attributes,
		access:     opts.Access,
		gate:       opts.Gate,
		federation: opts.Federation,
		metrics:    opts.Metrics,
	}
	if r.attrs == nil {
		r.attrs = &StoreAttributeProvider{Store: store}
	}
	if r.access == nil {
		r.access = UnixAccessChecker{}
	}
	if r.gate == nil {
		r.gate = NewGate(DefaultMaxInFlight)
	}
	return r
}

// RootHandle returns the well-known handle of the namespace root.
func (r *Resolver) RootHandle() ObjectHandle {
	return r.store.RootHandle()
}

// Resolve resolves a single name within a parent directory to the child's
// handle.
//
// The degenerate case: when parent and name are both nil, Resolve returns
// the namespace root handle without touching backing storage and without an
// access check. Supplying exactly one of the two is a FaultyArgument error.
//
// Otherwise the parent is opened, its metadata fetched and classified (only
// directories may be traversed; junctions fail with CrossDevice, other kinds
// with NotADirectory), traverse permission is checked, and the name is
// resolved within the same open reference. Using one reference for both the
// metadata fetch and the lookup is what prevents a check-to-use race against
// concurrent renames.
//
// When mask is non-zero, attributes for the resolved handle are fetched as
// well. An attribute fetch failure does not fail the resolution: the handle
// is returned with a degraded AttrResult (see AttrReadError).
func (r *Resolver) Resolve(ctx *AuthContext, parent *ObjectHandle, name *Name, mask AttrMask) (ObjectHandle, *AttrResult, error) {
	start := time.Now()
	handle, attrs, err := r.resolve(ctx, parent, name, mask)
	r.metrics.ObserveResolution("resolve", err, time.Since(start))
	return handle, attrs, err
}

func (r *Resolver) resolve(ctx *AuthContext, parent *ObjectHandle, name *Name, mask AttrMask) (ObjectHandle, *AttrResult, error) {
	var zero ObjectHandle

	if ctx == nil {
		return zero, nil, NewFaultyArgumentError("auth context is required")
	}

	// Both absent: resolve the namespace root.
	if parent == nil && name == nil {
		root := r.store.RootHandle()
		return root, r.fetchAttributes(ctx, root, mask), nil
	}

	// One-sided arguments are inconsistent, not merely invalid.
	if parent == nil || name == nil {
		return zero, nil, NewFaultyArgumentError("parent handle and name must be supplied together")
	}

	if _, err := ParseName(string(*name)); err != nil {
		return zero, nil, err
	}

	ref, err := r.openByHandle(ctx.Ctx(), *parent)
	if err != nil {
		return zero, nil, err
	}
	defer ref.Close()

	info, err := r.statRef(ctx.Ctx(), ref, *parent)
	if err != nil {
		return zero, nil, err
	}

	switch info.Kind {
	case KindDirectory:
		// OK
	case KindJunction:
		return zero, nil, NewCrossDeviceError(*parent)
	case KindRegularFile, KindSymlink, KindXAttrDir:
		return zero, nil, NewNotADirectoryError(info.Kind)
	default:
		return zero, nil, NewServerFaultError(fmt.Sprintf("unrecognized object kind %d", int(info.Kind)))
	}

	logger.Debug("lookup", "parent", parent.String(), "name", string(*name))

	// The access check must precede any name lookup: directory contents
	// are never probed without traversal rights.
	if err := r.access.CheckTraverse(info, ctx.Identity); err != nil {
		return zero, nil, mapStoreError(err)
	}

	child, err := r.lookupNameAt(ctx.Ctx(), ref, *name)
	if err != nil {
		return zero, nil, err
	}

	return child, r.fetchAttributes(ctx, child, mask), nil
}

// fetchAttributes fetches attributes for a successfully resolved handle.
// Failure degrades the result instead of propagating: the structural answer
// (the handle) is worth more to callers than the metadata convenience.
func (r *Resolver) fetchAttributes(ctx *AuthContext, h ObjectHandle, mask AttrMask) *AttrResult {
	mask &^= AttrReadError
	if mask == 0 {
		return nil
	}

	res, err := r.attrs.FetchAttributes(ctx, h, mask)
	if err != nil {
		logger.Warn("attribute fetch degraded",
			"handle", h.String(),
			"error", err)
		r.metrics.IncDegradedAttributes()
		return DegradedAttrResult()
	}
	return res
}

// ============================================================================
// Gated Store Calls
// ============================================================================
//
// Each helper acquires the admission gate immediately before its store call
// and releases it immediately after, so unrelated steps of a resolution are
// never serialized against each other.

func (r *Resolver) gateAcquire(ctx context.Context) error {
	start := time.Now()
	if err := r.gate.Acquire(ctx); err != nil {
		return err
	}
	r.metrics.ObserveGateWait(time.Since(start))
	return nil
}

func (r *Resolver) openByHandle(ctx context.Context, h ObjectHandle) (ObjectRef, error) {
	if err := r.gateAcquire(ctx); err != nil {
		return nil, err
	}
	ref, err := r.store.OpenByHandle(ctx, h)
	r.gate.Release()
	if err != nil {
		return nil, mapHandleError(err, h)
	}
	return ref, nil
}

func (r *Resolver) statRef(ctx context.Context, ref ObjectRef, h ObjectHandle) (*ObjectInfo, error) {
	if err := r.gateAcquire(ctx); err != nil {
		return nil, err
	}
	info, err := ref.Stat(ctx)
	r.gate.Release()
	if err != nil {
		// A vanished referent at this step means the handle is stale,
		// never that a name was not found.
		return nil, mapHandleError(err, h)
	}
	return info, nil
}

func (r *Resolver) lookupNameAt(ctx context.Context, ref ObjectRef, name Name) (ObjectHandle, error) {
	if err := r.gateAcquire(ctx); err != nil {
		return ObjectHandle{}, err
	}
	child, err := ref.LookupName(ctx, name)
	r.gate.Release()
	if err != nil {
		return ObjectHandle{}, mapStoreError(err)
	}
	return child, nil
}
