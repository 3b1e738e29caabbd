package resolver

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultMaxInFlight is the default number of storage calls a resolver may
// have in flight simultaneously.
const DefaultMaxInFlight = 64

// Gate is a bounded admission control around outbound storage calls.
//
// It protects the underlying store from being overwhelmed by concurrent
// resolutions. The gate is scoped per storage call: the resolver acquires it
// immediately before each store call and releases it immediately after, on
// every exit path, rather than holding it for a whole resolution. Steps that
// do not touch storage (argument checks, kind classification, the access
// check) never serialize on it.
//
// A nil *Gate performs no limiting.
type Gate struct {
	sem *semaphore.Weighted
}

// NewGate creates a gate admitting at most maxInFlight concurrent storage
// calls. Non-positive values fall back to DefaultMaxInFlight.
func NewGate(maxInFlight int64) *Gate {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	return &Gate{sem: semaphore.NewWeighted(maxInFlight)}
}

// Acquire blocks until a slot is available or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	if g == nil {
		return nil
	}
	return g.sem.Acquire(ctx, 1)
}

// Release returns a slot acquired with Acquire.
func (g *Gate) Release() {
	if g == nil {
		return
	}
	g.sem.Release(1)
}
