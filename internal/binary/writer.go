package binary

import (
	"encoding/binary"
	"io"
)

// Writer provides forward-only writes of RIFF primitives with sticky
// error handling: after the first failure every subsequent write is a
// no-op and Err reports the original error.
type Writer struct {
	w   io.Writer
	pos int64
	err error
}

// NewWriter creates a writer that appends to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Pos returns the number of bytes written so far.
func (w *Writer) Pos() int64 {
	return w.pos
}

// Err returns the first error encountered, if any.
func (w *Writer) Err() error {
	return w.err
}

// WriteBytes writes data at the current position.
func (w *Writer) WriteBytes(data []byte) error {
	if w.err != nil {
		return w.err
	}
	n, err := w.w.Write(data)
	w.pos += int64(n)
	w.err = err
	return err
}

// WriteUint32 writes a little-endian unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return w.WriteBytes(buf[:])
}

// WriteFourCC writes a 4-byte identifier.
func (w *Writer) WriteFourCC(id [4]byte) error {
	return w.WriteBytes(id[:])
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v uint8) error {
	return w.WriteBytes([]byte{v})
}
