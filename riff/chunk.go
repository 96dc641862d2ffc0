package riff

// Classification partitions chunk ids into the three structural kinds
// of the RIFF container format.
type Classification int

const (
	// Leaf marks a chunk whose payload is opaque application data.
	Leaf Classification = iota
	// TypedContainer marks a RIFF or LIST chunk: the first 4 payload
	// bytes are a form-type FourCC, the rest is concatenated children.
	TypedContainer
	// UntypedContainer marks a seqt chunk: the entire payload is
	// concatenated children, with no form type.
	UntypedContainer
)

// String returns the classification name.
func (c Classification) String() string {
	switch c {
	case TypedContainer:
		return "typed container"
	case UntypedContainer:
		return "untyped container"
	default:
		return "leaf"
	}
}

// Classify determines the structural kind of a chunk from its id.
func Classify(id FourCC) Classification {
	switch id {
	case IDRIFF, IDLIST:
		return TypedContainer
	case IDSEQT:
		return UntypedContainer
	default:
		return Leaf
	}
}

// headerLen is the fixed size of a chunk header: a FourCC id followed
// by a little-endian u32 payload length.
const headerLen = 4 + 4

// typeLen is the size of the form-type field inside a typed
// container's payload.
const typeLen = 4

// contentOffset returns the distance from the start of a chunk to its
// logical content: past the header, and past the form type for typed
// containers.
func contentOffset(cl Classification) uint32 {
	if cl == TypedContainer {
		return headerLen + typeLen
	}
	return headerLen
}

// iterBounds computes the half-open child cursor range of a container
// at pos. A typed container's payloadLen includes the 4 form-type
// bytes, which iteration must not span, hence the subtraction. A typed
// container declaring fewer than 4 payload bytes is malformed; its
// range is empty rather than underflowing. Bounds are computed wide:
// a declared length near the 32-bit limit must push the cursor past
// the end, never wrap it back around.
func iterBounds(pos, payloadLen uint32, cl Classification) (start, end uint64) {
	start = uint64(pos) + uint64(contentOffset(cl))
	n := uint64(payloadLen)
	if cl == TypedContainer {
		if n < typeLen {
			return start, start
		}
		n -= typeLen
	}
	return start, start + n
}

// advance moves a child cursor past the chunk whose header sits at
// cursor: 8 header bytes, the payload, and the pad byte after an odd
// payload. Wide arithmetic for the same reason as iterBounds.
func advance(cursor uint64, childPayloadLen uint32) uint64 {
	n := uint64(childPayloadLen)
	return cursor + headerLen + n + n%2
}

// encodedLen is advance restated for the builder: the full on-wire
// size of a chunk with the given payload length, computed wide so
// callers can detect u32 overflow.
func encodedLen(payloadLen uint64) uint64 {
	return headerLen + payloadLen + payloadLen%2
}

// iterState is the explicit three-state status of a child iterator.
type iterState int

const (
	iterActive iterState = iota
	iterExhausted
	iterFailed
)
