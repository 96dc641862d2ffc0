package riff

// Contents is a fully-decoded, owning chunk tree. It is what remains
// once a reader has been walked to the bottom: leaf payloads are
// copied out of the backing store, and the zero-copy or lazy handles
// are gone. Kind tells which fields are meaningful: Raw for a leaf,
// Type and Children for a typed container, Children alone for an
// untyped one.
type Contents struct {
	ID       FourCC
	Kind     Classification
	Type     FourCC
	Raw      []byte
	Children []*Contents
}

// Contents decodes the chunk and everything below it. Decoding aborts
// on the first structural error anywhere in the subtree.
func (c RAMChunk) Contents() (*Contents, error) {
	out := &Contents{ID: c.ID(), Kind: c.Classification()}
	switch out.Kind {
	case TypedContainer:
		typ, err := c.Type()
		if err != nil {
			return nil, err
		}
		out.Type = typ
		fallthrough
	case UntypedContainer:
		it := c.Children()
		for it.Next() {
			child, err := it.Chunk().Contents()
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, child)
		}
		if err := it.Err(); err != nil {
			return nil, err
		}
	default:
		raw, err := c.RawContent()
		if err != nil {
			return nil, err
		}
		out.Raw = append([]byte(nil), raw...)
	}
	return out, nil
}

// Contents decodes the chunk and everything below it through the lazy
// reader. Same semantics as the eager version; the backing store is
// re-read for every field on the way down.
func (c DiskChunk) Contents() (*Contents, error) {
	id, err := c.ID()
	if err != nil {
		return nil, err
	}
	out := &Contents{ID: id, Kind: Classify(id)}
	switch out.Kind {
	case TypedContainer:
		typ, err := c.Type()
		if err != nil {
			return nil, err
		}
		out.Type = typ
		fallthrough
	case UntypedContainer:
		it, err := c.Children()
		if err != nil {
			return nil, err
		}
		for it.Next() {
			child, err := it.Chunk().Contents()
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, child)
		}
		if err := it.Err(); err != nil {
			return nil, err
		}
	default:
		raw, err := c.RawContent()
		if err != nil {
			return nil, err
		}
		out.Raw = raw
	}
	return out, nil
}

// Node converts the decoded tree into builder nodes, closing the
// read-modify-write loop: decode a file, edit the Contents, rebuild
// and Encode.
func (c *Contents) Node() (*Node, error) {
	switch c.Kind {
	case TypedContainer:
		children, err := contentsNodes(c.Children)
		if err != nil {
			return nil, err
		}
		return NewTypedContainer(c.ID, c.Type, children...)
	case UntypedContainer:
		children, err := contentsNodes(c.Children)
		if err != nil {
			return nil, err
		}
		return NewUntypedContainer(c.ID, children...)
	default:
		return NewLeaf(c.ID, c.Raw)
	}
}

func contentsNodes(cs []*Contents) ([]*Node, error) {
	nodes := make([]*Node, 0, len(cs))
	for _, c := range cs {
		n, err := c.Node()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
