package riff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFourCC(t *testing.T, s string) FourCC {
	t.Helper()
	id, err := FourCCFromString(s)
	require.NoError(t, err)
	return id
}

func TestEncodeMinimal(t *testing.T) {
	leaf, err := NewLeaf(mustFourCC(t, "test"), []byte{0xFF})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), leaf.PayloadLen())

	root, err := NewTypedContainer(IDRIFF, mustFourCC(t, "smpl"), leaf)
	require.NoError(t, err)
	assert.Equal(t, uint32(14), root.PayloadLen())

	out, err := Encode(root)
	require.NoError(t, err)
	assert.Equal(t, setMinimal(), out)
}

// Builder output against a reference encoding, then back through the
// eager reader to the same (id, content) pairs in order.
func TestRoundTripTwoLeaves(t *testing.T) {
	tst1, err := NewLeaf(mustFourCC(t, "tst1"), []byte{0xFF})
	require.NoError(t, err)
	tst2, err := NewLeaf(mustFourCC(t, "tst2"), []byte{0xEE})
	require.NoError(t, err)

	root, err := NewTypedContainer(IDRIFF, mustFourCC(t, "smpl"), tst1, tst2)
	require.NoError(t, err)

	out, err := Encode(root)
	require.NoError(t, err)
	require.Equal(t, setTwoLeaves(), out)

	f, err := Load(out)
	require.NoError(t, err)
	children := collectRAM(t, f.Root())
	require.Len(t, children, 2)

	assert.Equal(t, "tst1", children[0].ID().String())
	raw, err := children[0].RawContent()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF}, raw)

	assert.Equal(t, "tst2", children[1].ID().String())
	raw, err = children[1].RawContent()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEE}, raw)
}

func TestOddPayloadPadByte(t *testing.T) {
	leaf, err := NewLeaf(mustFourCC(t, "test"), []byte{1, 2, 3})
	require.NoError(t, err)
	// payloadLen reports the unpadded logical length.
	assert.Equal(t, uint32(3), leaf.PayloadLen())

	root, err := NewTypedContainer(IDRIFF, mustFourCC(t, "smpl"), leaf)
	require.NoError(t, err)
	out, err := Encode(root)
	require.NoError(t, err)

	// Chunk header at 12: id, len=3, then 3 content bytes and exactly
	// one zero pad byte closing the file.
	assert.Equal(t, u32le(3), out[16:20])
	assert.Equal(t, []byte{1, 2, 3, 0}, out[20:24])
	assert.Len(t, out, 24)
	assert.Zero(t, out[len(out)-1])
}

func TestAddChildRederives(t *testing.T) {
	root, err := NewTypedContainer(IDRIFF, mustFourCC(t, "smpl"))
	require.NoError(t, err)
	assert.Equal(t, uint32(4), root.PayloadLen())

	leaf, err := NewLeaf(mustFourCC(t, "tst1"), []byte{0xFF})
	require.NoError(t, err)
	require.NoError(t, root.AddChild(leaf))
	assert.Equal(t, uint32(14), root.PayloadLen())

	leaf2, err := NewLeaf(mustFourCC(t, "tst2"), []byte{0xEE})
	require.NoError(t, err)
	require.NoError(t, root.AddChild(leaf2))
	assert.Equal(t, uint32(24), root.PayloadLen())

	out, err := Encode(root)
	require.NoError(t, err)
	assert.Equal(t, setTwoLeaves(), out)
}

// A child mutated after being attached must not leave a stale length
// anywhere in the encoded output.
func TestNestedMutationStaysConsistent(t *testing.T) {
	list, err := NewTypedContainer(IDLIST, mustFourCC(t, "tst1"))
	require.NoError(t, err)
	root, err := NewTypedContainer(IDRIFF, mustFourCC(t, "smpl"), list)
	require.NoError(t, err)

	// Mutate the nested container after attachment.
	leaf, err := NewLeaf(mustFourCC(t, "test"), []byte("hello!"))
	require.NoError(t, err)
	require.NoError(t, list.AddChild(leaf))

	out, err := Encode(root)
	require.NoError(t, err)

	// The output must parse cleanly all the way down.
	f, err := Load(out)
	require.NoError(t, err)
	c, err := f.Root().Contents()
	require.NoError(t, err)
	require.Len(t, c.Children, 1)
	require.Len(t, c.Children[0].Children, 1)
	assert.Equal(t, []byte("hello!"), c.Children[0].Children[0].Raw)
	assert.Equal(t, uint32(4+8+4+8+6), f.PayloadLen())
}

func TestBuildNestedReference(t *testing.T) {
	test1, err := NewLeaf(mustFourCC(t, "test"), []byte("hey this is a test"))
	require.NoError(t, err)
	test2, err := NewLeaf(mustFourCC(t, "test"), []byte("hey this is another test"))
	require.NoError(t, err)
	list, err := NewTypedContainer(IDLIST, mustFourCC(t, "tst1"), test1, test2)
	require.NoError(t, err)

	final, err := NewLeaf(mustFourCC(t, "test"), []byte("final test"))
	require.NoError(t, err)
	seqt, err := NewUntypedContainer(IDSEQT, final)
	require.NoError(t, err)

	root, err := NewTypedContainer(IDRIFF, mustFourCC(t, "smpl"), list, seqt)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), root.PayloadLen())

	out, err := Encode(root)
	require.NoError(t, err)
	assert.Equal(t, setNested(), out)
}

func TestContainerIDValidation(t *testing.T) {
	_, err := NewTypedContainer(mustFourCC(t, "test"), mustFourCC(t, "smpl"))
	require.ErrorIs(t, err, ErrNotContainer)

	_, err = NewTypedContainer(IDSEQT, mustFourCC(t, "smpl"))
	require.ErrorIs(t, err, ErrNotContainer)

	_, err = NewUntypedContainer(IDLIST)
	require.ErrorIs(t, err, ErrNotContainer)

	_, err = NewUntypedContainer(mustFourCC(t, "test"))
	require.ErrorIs(t, err, ErrNotContainer)
}

func TestAddChildToLeaf(t *testing.T) {
	leaf, err := NewLeaf(mustFourCC(t, "test"), []byte{0xFF})
	require.NoError(t, err)
	other, err := NewLeaf(mustFourCC(t, "tst1"), nil)
	require.NoError(t, err)
	require.ErrorIs(t, leaf.AddChild(other), ErrNotContainer)
}

func TestEncodeNonRIFFRoot(t *testing.T) {
	list, err := NewTypedContainer(IDLIST, mustFourCC(t, "tst1"))
	require.NoError(t, err)
	_, err = Encode(list)
	require.ErrorIs(t, err, ErrNotRIFF)
}

// serialize → load → re-walk yields an identical tree, and the
// Contents→Node bridge reproduces the input byte-for-byte.
func TestContentsNodeRoundTrip(t *testing.T) {
	for name, data := range map[string][]byte{
		"minimal":   setMinimal(),
		"twoLeaves": setTwoLeaves(),
		"nested":    setNested(),
		"oddLeaves": setOddLeaves(),
	} {
		f, err := Load(data)
		require.NoError(t, err, name)

		c, err := f.Root().Contents()
		require.NoError(t, err, name)

		node, err := c.Node()
		require.NoError(t, err, name)

		out, err := Encode(node)
		require.NoError(t, err, name)
		assert.Equal(t, data, out, name)
	}
}

func TestNodeAccessors(t *testing.T) {
	leaf, err := NewLeaf(mustFourCC(t, "test"), []byte{0xFF})
	require.NoError(t, err)
	assert.Equal(t, "test", leaf.ID().String())
	_, err = leaf.Type()
	require.ErrorIs(t, err, ErrNotContainer)
	assert.Empty(t, leaf.Children())

	root, err := NewTypedContainer(IDRIFF, mustFourCC(t, "smpl"), leaf)
	require.NoError(t, err)
	typ, err := root.Type()
	require.NoError(t, err)
	assert.Equal(t, "smpl", typ.String())
	assert.Len(t, root.Children(), 1)
}
