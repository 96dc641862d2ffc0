// Package binary provides low-level binary I/O operations for RIFF file
// parsing and encoding.
package binary

import (
	"encoding/binary"
	"io"
)

// Source is the capability a positional reader needs from its backing
// store: an absolute seek plus an exact read. *os.File satisfies it, as
// does *bytes.Reader; a mutex-guarded wrapper can substitute when chunk
// handles must be shared across goroutines.
type Source interface {
	io.Reader
	io.Seeker
}

// Reader performs positional reads against a shared Source. It holds no
// buffer and caches nothing: every call seeks to the requested offset
// and reads exactly the requested number of bytes. The seek cursor is
// the Source's own, so concurrent use of one Reader must be externally
// serialized.
type Reader struct {
	src Source
}

// NewReader creates a positional reader over src.
func NewReader(src Source) *Reader {
	return &Reader{src: src}
}

// ReadBytes reads exactly n bytes starting at pos.
func (r *Reader) ReadBytes(pos int64, n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	if _, err := r.src.Seek(pos, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadUint32 reads a little-endian unsigned 32-bit integer at pos.
func (r *Reader) ReadUint32(pos int64) (uint32, error) {
	buf, err := r.ReadBytes(pos, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadFourCC reads a 4-byte identifier at pos.
func (r *Reader) ReadFourCC(pos int64) ([4]byte, error) {
	var id [4]byte
	buf, err := r.ReadBytes(pos, 4)
	if err != nil {
		return id, err
	}
	copy(id[:], buf)
	return id, nil
}
