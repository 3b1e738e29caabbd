package resolver

import "time"

// ResolvePath resolves an absolute path string to the handle of the object
// it names.
//
// The path must be syntactically absolute; anything else fails with
// InvalidArgument. "/" resolves directly to the root handle without touching
// storage.
//
// When the handle store implements PathTranslator, the whole path is
// translated in a single bulk store call. Otherwise resolution is a
// left-to-right fold of Resolve over the components, starting from the root
// handle; the fold short-circuits on the first failure and propagates it
// unchanged. Attributes for the final object follow the same
// degrade-not-fail policy as Resolve.
func (r *Resolver) ResolvePath(ctx *AuthContext, path string, mask AttrMask) (ObjectHandle, *AttrResult, error) {
	start := time.Now()
	handle, attrs, err := r.resolvePath(ctx, path, mask)
	r.metrics.ObserveResolution("resolve_path", err, time.Since(start))
	return handle, attrs, err
}

func (r *Resolver) resolvePath(ctx *AuthContext, path string, mask AttrMask) (ObjectHandle, *AttrResult, error) {
	var zero ObjectHandle

	if ctx == nil {
		return zero, nil, NewFaultyArgumentError("auth context is required")
	}

	parsed, err := ParsePath(path)
	if err != nil {
		return zero, nil, err
	}

	if len(parsed) == 0 {
		root := r.store.RootHandle()
		return root, r.fetchAttributes(ctx, root, mask), nil
	}

	if translator, ok := r.store.(PathTranslator); ok {
		return r.translatePath(ctx, translator, parsed, mask)
	}

	handle := r.store.RootHandle()
	for i := range parsed {
		name := parsed[i]
		child, _, err := r.Resolve(ctx, &handle, &name, 0)
		if err != nil {
			return zero, nil, err
		}
		handle = child
	}

	return handle, r.fetchAttributes(ctx, handle, mask), nil
}

// translatePath resolves the whole path with the store's bulk primitive.
func (r *Resolver) translatePath(ctx *AuthContext, translator PathTranslator, path Path, mask AttrMask) (ObjectHandle, *AttrResult, error) {
	if err := r.gateAcquire(ctx.Ctx()); err != nil {
		return ObjectHandle{}, nil, err
	}
	handle, err := translator.HandleByPath(ctx.Ctx(), path.String())
	r.gate.Release()
	if err != nil {
		return ObjectHandle{}, nil, mapStoreError(err)
	}
	return handle, r.fetchAttributes(ctx, handle, mask), nil
}
