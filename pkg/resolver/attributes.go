package resolver

// AttributeProvider fetches attributes for a freshly resolved handle.
//
// Attribute retrieval is a collaborator, not part of the resolution core: a
// fetch failure degrades the result (see DegradedAttrResult) instead of
// failing the resolution.
type AttributeProvider interface {
	// FetchAttributes returns the attributes selected by mask for the
	// object identified by h.
	FetchAttributes(ctx *AuthContext, h ObjectHandle, mask AttrMask) (*AttrResult, error)
}

// StoreAttributeProvider is the default AttributeProvider: it opens the
// handle on the same store the resolver uses and snapshots its metadata.
type StoreAttributeProvider struct {
	Store HandleStore
}

// FetchAttributes implements AttributeProvider.
func (p *StoreAttributeProvider) FetchAttributes(ctx *AuthContext, h ObjectHandle, mask AttrMask) (*AttrResult, error) {
	ref, err := p.Store.OpenByHandle(ctx.Ctx(), h)
	if err != nil {
		return nil, mapHandleError(err, h)
	}
	defer ref.Close()

	info, err := ref.Stat(ctx.Ctx())
	if err != nil {
		return nil, mapHandleError(err, h)
	}

	return &AttrResult{
		Mask: mask &^ AttrReadError,
		Info: *info,
	}, nil
}
