package riff

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// RAMFile is an eager representation of a RIFF file: the entire file is
// resident in one buffer and every chunk handle derived from it is a
// zero-copy view into that buffer. The buffer is never mutated, so
// chunk handles may be shared freely across goroutines.
type RAMFile struct {
	data []byte
}

// Load validates data as a RIFF file and returns an eager root over it.
// It fails with ErrTooSmall when fewer than 8 bytes are present and
// with ErrNotRIFF when the leading FourCC is not RIFF. The buffer is
// retained, not copied; the caller must not mutate it afterwards.
func Load(data []byte) (*RAMFile, error) {
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: got %d bytes", ErrTooSmall, len(data))
	}
	if FourCC(data[0:4]) != IDRIFF {
		return nil, fmt.Errorf("%w: leading id is %s", ErrNotRIFF, FourCC(data[0:4]))
	}
	return &RAMFile{data: data}, nil
}

// LoadFile reads the file at path fully into memory and loads it.
func LoadFile(path string) (*RAMFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return Load(data)
}

// Root returns the top-level chunk (id RIFF, offset 0).
func (f *RAMFile) Root() RAMChunk {
	return RAMChunk{data: f.data, pos: 0, payloadLen: binary.LittleEndian.Uint32(f.data[4:8])}
}

// ID returns the root id. Always IDRIFF for a loaded file.
func (f *RAMFile) ID() FourCC {
	return f.Root().ID()
}

// PayloadLen returns the root's declared payload length.
func (f *RAMFile) PayloadLen() uint32 {
	return f.Root().PayloadLen()
}

// Bytes returns the backing buffer.
func (f *RAMFile) Bytes() []byte {
	return f.data
}

// RAMChunk is a transient, read-only view of one chunk inside an eager
// file. It borrows the root's buffer and owns no data.
type RAMChunk struct {
	data       []byte
	pos        uint32
	payloadLen uint32
}

// newRAMChunk interprets the bytes at pos as a chunk header. It fails
// with ErrTooSmall when fewer than 8 bytes remain at pos.
func newRAMChunk(data []byte, pos uint32) (RAMChunk, error) {
	if uint64(len(data)) < uint64(pos)+headerLen {
		return RAMChunk{}, fmt.Errorf("%w: header at offset %d", ErrTooSmall, pos)
	}
	return RAMChunk{
		data:       data,
		pos:        pos,
		payloadLen: binary.LittleEndian.Uint32(data[pos+4 : pos+8]),
	}, nil
}

// ID returns the chunk id.
func (c RAMChunk) ID() FourCC {
	return FourCC(c.data[c.pos : c.pos+4])
}

// PayloadLen returns the declared payload length. For typed containers
// this includes the 4 form-type bytes; it never includes the pad byte.
func (c RAMChunk) PayloadLen() uint32 {
	return c.payloadLen
}

// Offset returns the chunk's position in the backing buffer.
func (c RAMChunk) Offset() uint32 {
	return c.pos
}

// Classification returns the structural kind of the chunk.
func (c RAMChunk) Classification() Classification {
	return Classify(c.ID())
}

// Type returns the form type of a container chunk. It fails with
// ErrNotContainer for leaves and with ErrTooSmallForType when the
// buffer cannot hold the 4 type bytes. Untyped containers have no form
// type and also report ErrNotContainer.
func (c RAMChunk) Type() (FourCC, error) {
	if c.Classification() != TypedContainer {
		return FourCC{}, fmt.Errorf("%w: %s chunk %s has no form type", ErrNotContainer, c.Classification(), c.ID())
	}
	if uint64(len(c.data)) < uint64(c.pos)+headerLen+typeLen {
		return FourCC{}, fmt.Errorf("%w: chunk at offset %d", ErrTooSmallForType, c.pos)
	}
	return FourCC(c.data[c.pos+8 : c.pos+12]), nil
}

// RawContent returns the chunk's logical content as a sub-slice of the
// backing buffer: the whole payload for leaves and untyped containers,
// the payload past the form type for typed containers. It fails with
// ErrPayloadLenMismatch when the declared length runs past the buffer.
func (c RAMChunk) RawContent() ([]byte, error) {
	cl := c.Classification()
	start := uint64(c.pos) + uint64(contentOffset(cl))
	n := uint64(c.payloadLen)
	if cl == TypedContainer {
		if n < typeLen {
			return nil, fmt.Errorf("%w: typed container at offset %d declares %d payload bytes", ErrTooSmallForType, c.pos, n)
		}
		n -= typeLen
	}
	if uint64(len(c.data)) < start+n {
		return nil, fmt.Errorf("%w: chunk %s at offset %d declares %d bytes, %d available",
			ErrPayloadLenMismatch, c.ID(), c.pos, c.payloadLen, len(c.data)-int(c.pos))
	}
	return c.data[start : start+n], nil
}

// Children returns an iterator over the chunk's direct children. A
// leaf's iterator yields nothing. The iterator is consumed by use; call
// Children again on the same chunk for a fresh one.
func (c RAMChunk) Children() *RAMIter {
	cl := c.Classification()
	if cl == Leaf {
		return &RAMIter{state: iterExhausted}
	}
	start, end := iterBounds(c.pos, c.payloadLen, cl)
	return &RAMIter{data: c.data, cursor: start, end: end}
}

// RAMIter iterates over the children of an eager chunk in the
// bufio.Scanner idiom:
//
//	it := chunk.Children()
//	for it.Next() {
//	    child := it.Chunk()
//	    ...
//	}
//	if err := it.Err(); err != nil { ... }
//
// The iterator has three states: active, exhausted, and failed. The
// first malformed child moves it to failed permanently; Next then
// returns false forever and Err reports the error. Legitimate
// end-of-children leaves Err nil.
type RAMIter struct {
	data   []byte
	cursor uint64
	end    uint64
	state  iterState
	err    error
	cur    RAMChunk
}

// Next advances to the next child. It returns false at the end of the
// container or after a structural error; distinguish the two with Err.
func (it *RAMIter) Next() bool {
	if it.state != iterActive {
		return false
	}
	if it.cursor >= it.end {
		it.state = iterExhausted
		return false
	}
	if it.cursor > math.MaxUint32-headerLen {
		it.fail(fmt.Errorf("%w: header at offset %d", ErrTooSmall, it.cursor))
		return false
	}
	c, err := newRAMChunk(it.data, uint32(it.cursor))
	if err != nil {
		it.fail(err)
		return false
	}
	next := advance(it.cursor, c.payloadLen)
	if next > it.end {
		it.fail(fmt.Errorf("%w: child %s at offset %d declares %d bytes, spanning past its parent",
			ErrPayloadLenMismatch, c.ID(), c.pos, c.payloadLen))
		return false
	}
	it.cursor = next
	it.cur = c
	return true
}

// fail moves the iterator to its terminal failed state.
func (it *RAMIter) fail(err error) {
	it.state = iterFailed
	it.err = err
}

// Chunk returns the child produced by the last successful Next.
func (it *RAMIter) Chunk() RAMChunk {
	return it.cur
}

// Err returns the structural error that stopped iteration, or nil
// after a clean end.
func (it *RAMIter) Err() error {
	return it.err
}
