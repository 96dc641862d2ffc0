package riff

import (
	"bytes"
	"fmt"
	"math"

	"github.com/robert-malhotra/go-riff/internal/binary"
)

// Node is the builder's owning, mutable chunk. Leaves hold their
// content (already padded to even length); containers hold their
// children. payloadLen is kept equal to the true encoded size of the
// contents after every mutation and re-derived once more at encode
// time, so a nested child mutated after being attached cannot leave a
// stale length in the output.
type Node struct {
	id         FourCC
	typ        FourCC
	hasType    bool
	container  bool
	payloadLen uint32
	raw        []byte // padded; logical length is payloadLen
	children   []*Node
}

// NewLeaf constructs a leaf node with the given content. The content is
// copied, and a single zero pad byte is appended when its length is
// odd; PayloadLen still reports the unpadded logical length. It fails
// with ErrSizeOverflow when the content cannot be described by the
// 32-bit length field.
func NewLeaf(id FourCC, content []byte) (*Node, error) {
	if uint64(len(content)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: leaf %s content is %d bytes", ErrSizeOverflow, id, len(content))
	}
	raw := make([]byte, len(content), len(content)+1)
	copy(raw, content)
	if len(raw)%2 == 1 {
		raw = append(raw, 0)
	}
	return &Node{
		id:         id,
		payloadLen: uint32(len(content)),
		raw:        raw,
	}, nil
}

// NewTypedContainer constructs a RIFF or LIST container with the given
// form type and children. It fails with ErrNotContainer when id does
// not classify as a typed container.
func NewTypedContainer(id, formType FourCC, children ...*Node) (*Node, error) {
	if Classify(id) != TypedContainer {
		return nil, fmt.Errorf("%w: %s cannot head a typed container", ErrNotContainer, id)
	}
	n := &Node{
		id:        id,
		typ:       formType,
		hasType:   true,
		container: true,
		children:  append([]*Node(nil), children...),
	}
	if err := n.deriveLen(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewUntypedContainer constructs a seqt-class container with the given
// children. It fails with ErrNotContainer when id does not classify as
// an untyped container.
func NewUntypedContainer(id FourCC, children ...*Node) (*Node, error) {
	if Classify(id) != UntypedContainer {
		return nil, fmt.Errorf("%w: %s cannot head an untyped container", ErrNotContainer, id)
	}
	n := &Node{
		id:        id,
		container: true,
		children:  append([]*Node(nil), children...),
	}
	if err := n.deriveLen(); err != nil {
		return nil, err
	}
	return n, nil
}

// ID returns the node's chunk id.
func (n *Node) ID() FourCC {
	return n.id
}

// PayloadLen returns the node's current payload length: the unpadded
// content length for a leaf, the form type plus encoded children for a
// container.
func (n *Node) PayloadLen() uint32 {
	return n.payloadLen
}

// Type returns a typed container's form type; ErrNotContainer
// otherwise.
func (n *Node) Type() (FourCC, error) {
	if !n.hasType {
		return FourCC{}, fmt.Errorf("%w: %s has no form type", ErrNotContainer, n.id)
	}
	return n.typ, nil
}

// Children returns the node's current children. The slice is the
// node's own; treat it as read-only and mutate through AddChild.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild appends a child to a container and re-derives the payload
// length from scratch over all current children. It fails with
// ErrNotContainer on a leaf and with ErrSizeOverflow when the new
// total no longer fits the 32-bit field; on overflow the child is not
// retained.
func (n *Node) AddChild(c *Node) error {
	if !n.container {
		return fmt.Errorf("%w: cannot add a child to leaf %s", ErrNotContainer, n.id)
	}
	n.children = append(n.children, c)
	if err := n.deriveLen(); err != nil {
		n.children = n.children[:len(n.children)-1]
		return err
	}
	return nil
}

// deriveLen recomputes payloadLen from the node's contents. The sum is
// taken over the true encoded size of every descendant, not over
// stored lengths, so it also refreshes any child whose own subtree was
// mutated after attachment.
func (n *Node) deriveLen() error {
	total, err := n.derivedPayload()
	if err != nil {
		return err
	}
	n.payloadLen = uint32(total)
	return nil
}

// derivedPayload computes the true payload length of the node in wide
// arithmetic, recursively re-deriving every descendant and storing the
// result on the way back up.
func (n *Node) derivedPayload() (uint64, error) {
	if !n.container {
		return uint64(n.payloadLen), nil
	}
	var total uint64
	if n.hasType {
		total = typeLen
	}
	for _, c := range n.children {
		p, err := c.derivedPayload()
		if err != nil {
			return 0, err
		}
		c.payloadLen = uint32(p)
		total += encodedLen(p)
		if total > math.MaxUint32 {
			return 0, fmt.Errorf("%w: container %s payload reaches %d bytes", ErrSizeOverflow, n.id, total)
		}
	}
	return total, nil
}

// Encode serializes the tree rooted at root into wire bytes in a
// single depth-first forward pass. The root must carry the RIFF id.
// All lengths are re-derived immediately before writing, so the output
// is consistent even if a nested child was mutated after being
// attached. The only failure modes are ErrNotRIFF for a foreign root
// and ErrSizeOverflow for payloads the 32-bit field cannot describe.
func Encode(root *Node) ([]byte, error) {
	if root.id != IDRIFF {
		return nil, fmt.Errorf("%w: root id is %s", ErrNotRIFF, root.id)
	}
	if err := root.deriveLen(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(int(encodedLen(uint64(root.payloadLen))))
	w := binary.NewWriter(&buf)
	root.encode(w)
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("encoding chunk tree: %w", err)
	}
	return buf.Bytes(), nil
}

// encode writes one node and its subtree. Errors are sticky inside the
// writer and collected once by Encode.
func (n *Node) encode(w *binary.Writer) {
	w.WriteFourCC(n.id.Bytes())
	w.WriteUint32(n.payloadLen)
	if n.hasType {
		w.WriteFourCC(n.typ.Bytes())
	}
	if n.container {
		for _, c := range n.children {
			c.encode(w)
		}
		return
	}
	w.WriteBytes(n.raw)
}
