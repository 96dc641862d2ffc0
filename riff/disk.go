package riff

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/robert-malhotra/go-riff/internal/binary"
)

// DiskFile is a lazy representation of a RIFF file. No chunk data is
// resident: every field access seeks into the backing source and reads
// exactly the bytes it needs, and nothing is cached between calls.
//
// All chunk handles derived from one DiskFile share one seek cursor.
// That keeps the file-descriptor count at one regardless of how many
// handles exist, but it means accesses from multiple goroutines must
// be externally serialized, or separate DiskFiles opened from the same
// path. The eager reader has no such restriction.
type DiskFile struct {
	r      *binary.Reader
	src    binary.Source
	closed bool
}

// Open opens the file at path as a lazy RIFF root. The 8-byte root
// header is validated up front: ErrTooSmall when the file cannot hold
// a header, ErrNotRIFF when the leading FourCC is not RIFF.
func Open(path string) (*DiskFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	df, err := OpenSource(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return df, nil
}

// OpenSource opens a lazy RIFF root over any seekable byte source.
// Substituting a mutex-guarded source is the supported way to share
// one open file across goroutines.
func OpenSource(src binary.Source) (*DiskFile, error) {
	r := binary.NewReader(src)
	id, err := r.ReadFourCC(0)
	if err != nil {
		return nil, headerReadError(err, 0)
	}
	if _, err := r.ReadUint32(4); err != nil {
		return nil, headerReadError(err, 0)
	}
	if FourCC(id) != IDRIFF {
		return nil, fmt.Errorf("%w: leading id is %s", ErrNotRIFF, FourCC(id))
	}
	return &DiskFile{r: r, src: src}, nil
}

// Root returns the top-level chunk handle (id RIFF, offset 0).
func (f *DiskFile) Root() (DiskChunk, error) {
	if f.closed {
		return DiskChunk{}, ErrClosed
	}
	return DiskChunk{file: f, pos: 0}, nil
}

// Close closes the backing source when it is closeable. Chunk handles
// derived from the file fail with ErrClosed afterwards.
func (f *DiskFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if c, ok := f.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// DiskChunk is a transient handle to one chunk of a lazy file. It
// holds only an offset and the shared file handle; every accessor
// re-reads the backing store, so two calls touch the disk twice.
type DiskChunk struct {
	file *DiskFile
	pos  uint32
}

// Offset returns the chunk's position in the backing source.
func (c DiskChunk) Offset() uint32 {
	return c.pos
}

// ID reads and returns the chunk id.
func (c DiskChunk) ID() (FourCC, error) {
	if c.file.closed {
		return FourCC{}, ErrClosed
	}
	id, err := c.file.r.ReadFourCC(int64(c.pos))
	if err != nil {
		return FourCC{}, headerReadError(err, uint64(c.pos))
	}
	return FourCC(id), nil
}

// PayloadLen reads and returns the declared payload length. For typed
// containers this includes the 4 form-type bytes; it never includes
// the pad byte.
func (c DiskChunk) PayloadLen() (uint32, error) {
	if c.file.closed {
		return 0, ErrClosed
	}
	n, err := c.file.r.ReadUint32(int64(c.pos) + 4)
	if err != nil {
		return 0, headerReadError(err, uint64(c.pos))
	}
	return n, nil
}

// Classification reads the chunk id and classifies it.
func (c DiskChunk) Classification() (Classification, error) {
	id, err := c.ID()
	if err != nil {
		return Leaf, err
	}
	return Classify(id), nil
}

// Type reads and returns the form type of a typed container. It fails
// with ErrNotContainer for leaves and untyped containers, and with
// ErrTooSmallForType when the source cannot supply the 4 type bytes.
func (c DiskChunk) Type() (FourCC, error) {
	id, err := c.ID()
	if err != nil {
		return FourCC{}, err
	}
	if cl := Classify(id); cl != TypedContainer {
		return FourCC{}, fmt.Errorf("%w: %s chunk %s has no form type", ErrNotContainer, cl, id)
	}
	typ, err := c.file.r.ReadFourCC(int64(c.pos) + headerLen)
	if err != nil {
		if isShortRead(err) {
			return FourCC{}, fmt.Errorf("%w: chunk at offset %d", ErrTooSmallForType, c.pos)
		}
		return FourCC{}, fmt.Errorf("reading chunk type at offset %d: %w", c.pos, err)
	}
	return FourCC(typ), nil
}

// RawContent reads and returns the chunk's logical content: the whole
// payload for leaves and untyped containers, the payload past the form
// type for typed containers. Unlike the eager reader this allocates
// and copies, since there is no resident buffer to slice. It fails
// with ErrPayloadLenMismatch when the declared length runs past the
// end of the source.
func (c DiskChunk) RawContent() ([]byte, error) {
	id, err := c.ID()
	if err != nil {
		return nil, err
	}
	payloadLen, err := c.PayloadLen()
	if err != nil {
		return nil, err
	}
	cl := Classify(id)
	n := uint64(payloadLen)
	if cl == TypedContainer {
		if n < typeLen {
			return nil, fmt.Errorf("%w: typed container at offset %d declares %d payload bytes", ErrTooSmallForType, c.pos, n)
		}
		n -= typeLen
	}
	buf, err := c.file.r.ReadBytes(int64(c.pos)+int64(contentOffset(cl)), int(n))
	if err != nil {
		if isShortRead(err) {
			return nil, fmt.Errorf("%w: chunk %s at offset %d declares %d bytes", ErrPayloadLenMismatch, id, c.pos, payloadLen)
		}
		return nil, fmt.Errorf("reading content at offset %d: %w", c.pos, err)
	}
	return buf, nil
}

// Children returns an iterator over the chunk's direct children. A
// leaf's iterator yields nothing. Reading the bounds requires one
// header read, hence the error return the eager reader does not have.
func (c DiskChunk) Children() (*DiskIter, error) {
	id, err := c.ID()
	if err != nil {
		return nil, err
	}
	cl := Classify(id)
	if cl == Leaf {
		return &DiskIter{state: iterExhausted}, nil
	}
	payloadLen, err := c.PayloadLen()
	if err != nil {
		return nil, err
	}
	start, end := iterBounds(c.pos, payloadLen, cl)
	return &DiskIter{file: c.file, cursor: start, end: end}, nil
}

// DiskIter iterates over the children of a lazy chunk. Same three-state
// contract as RAMIter: the first malformed child fails the iterator
// permanently, and Err distinguishes that from a clean end.
type DiskIter struct {
	file   *DiskFile
	cursor uint64
	end    uint64
	state  iterState
	err    error
	cur    DiskChunk
}

// Next advances to the next child, re-reading its header through the
// shared file handle.
func (it *DiskIter) Next() bool {
	if it.state != iterActive {
		return false
	}
	if it.cursor >= it.end {
		it.state = iterExhausted
		return false
	}
	if it.file.closed {
		it.fail(ErrClosed)
		return false
	}
	if it.cursor > math.MaxUint32-headerLen {
		it.fail(fmt.Errorf("%w: header at offset %d", ErrTooSmall, it.cursor))
		return false
	}
	payloadLen, err := it.file.r.ReadUint32(int64(it.cursor) + 4)
	if err != nil {
		it.fail(headerReadError(err, it.cursor))
		return false
	}
	next := advance(it.cursor, payloadLen)
	if next > it.end {
		it.fail(fmt.Errorf("%w: child at offset %d declares %d bytes, spanning past its parent",
			ErrPayloadLenMismatch, it.cursor, payloadLen))
		return false
	}
	it.cur = DiskChunk{file: it.file, pos: uint32(it.cursor)}
	it.cursor = next
	return true
}

// fail moves the iterator to its terminal failed state.
func (it *DiskIter) fail(err error) {
	it.state = iterFailed
	it.err = err
}

// Chunk returns the child produced by the last successful Next.
func (it *DiskIter) Chunk() DiskChunk {
	return it.cur
}

// Err returns the structural error that stopped iteration, or nil
// after a clean end.
func (it *DiskIter) Err() error {
	return it.err
}

// isShortRead reports whether err means the source ended before the
// requested bytes, as opposed to an I/O fault.
func isShortRead(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// headerReadError maps a failed header read at pos to ErrTooSmall when
// the source was simply too short, preserving other I/O errors.
func headerReadError(err error, pos uint64) error {
	if isShortRead(err) {
		return fmt.Errorf("%w: header at offset %d", ErrTooSmall, pos)
	}
	return fmt.Errorf("reading header at offset %d: %w", pos, err)
}
