package resolver

import (
	"context"
	"sync"
	"time"
)

// FederationResolver resolves the federation mapping from a junction object
// to the root handle of the namespace mounted there.
//
// The backing mapping store is an external collaborator: a static table, a
// database, a fileset registry. Implementations report an absent mapping
// with a NotFound error; they never fabricate a root handle.
type FederationResolver interface {
	// ResolveFederationMapping returns the target namespace root for the
	// given junction handle.
	ResolveFederationMapping(ctx context.Context, junction ObjectHandle) (ObjectHandle, error)
}

// ResolveJunction resolves a junction object to the root handle of the
// namespace it mounts.
//
// The caller is responsible for having classified the object as a junction
// (Resolve reports CrossDevice exactly when it meets one); this operation
// does not re-validate the kind. An unmapped junction, or a resolver
// configured without federation, is a hard NotFound: silently succeeding
// with an empty target would hand callers an unusable handle.
//
// Attributes of the target root follow the same degrade-not-fail policy as
// Resolve.
func (r *Resolver) ResolveJunction(ctx *AuthContext, junction ObjectHandle, mask AttrMask) (ObjectHandle, *AttrResult, error) {
	start := time.Now()
	handle, attrs, err := r.resolveJunction(ctx, junction, mask)
	r.metrics.ObserveResolution("resolve_junction", err, time.Since(start))
	return handle, attrs, err
}

func (r *Resolver) resolveJunction(ctx *AuthContext, junction ObjectHandle, mask AttrMask) (ObjectHandle, *AttrResult, error) {
	var zero ObjectHandle

	if ctx == nil {
		return zero, nil, NewFaultyArgumentError("auth context is required")
	}
	if junction.IsZero() {
		return zero, nil, NewFaultyArgumentError("junction handle is required")
	}

	if r.federation == nil {
		return zero, nil, &ResolveError{
			Code:    ErrNotFound,
			Message: "fileset federation is not provisioned",
			Path:    junction.String(),
		}
	}

	if err := r.gateAcquire(ctx.Ctx()); err != nil {
		return zero, nil, err
	}
	target, err := r.federation.ResolveFederationMapping(ctx.Ctx(), junction)
	r.gate.Release()
	if err != nil {
		return zero, nil, mapStoreError(err)
	}
	if target.IsZero() {
		return zero, nil, NewServerFaultError("federation mapping produced a zero handle")
	}

	return target, r.fetchAttributes(ctx, target, mask), nil
}

// ============================================================================
// Static Federation Table
// ============================================================================

// StaticFederation is an in-memory FederationResolver backed by a plain
// junction-to-root table. Suitable for configurations where the set of
// filesets is known up front.
type StaticFederation struct {
	mu       sync.RWMutex
	mappings map[ObjectHandle]ObjectHandle
}

// NewStaticFederation creates an empty federation table.
func NewStaticFederation() *StaticFederation {
	return &StaticFederation{mappings: make(map[ObjectHandle]ObjectHandle)}
}

// SetMapping registers or replaces the target root for a junction.
func (f *StaticFederation) SetMapping(junction, target ObjectHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mappings[junction] = target
}

// RemoveMapping deletes the mapping for a junction, if present.
func (f *StaticFederation) RemoveMapping(junction ObjectHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.mappings, junction)
}

// ResolveFederationMapping implements FederationResolver.
func (f *StaticFederation) ResolveFederationMapping(_ context.Context, junction ObjectHandle) (ObjectHandle, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	target, ok := f.mappings[junction]
	if !ok {
		return ObjectHandle{}, &ResolveError{
			Code:    ErrNotFound,
			Message: "no federation mapping for junction",
			Path:    junction.String(),
		}
	}
	return target, nil
}
