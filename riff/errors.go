// Package riff reads and writes RIFF-family container files (WAV, AVI,
// DLS and similar chunked binary formats). It offers an eager reader
// over an in-memory buffer, a lazy reader over a seekable byte source,
// and a builder that assembles a chunk tree and encodes it back to
// bytes.
package riff

import "errors"

// Common errors
var (
	ErrNotRIFF            = errors.New("not a RIFF file")
	ErrTooSmall           = errors.New("chunk too small: a header needs 8 bytes")
	ErrTooSmallForType    = errors.New("container too small to hold a chunk type")
	ErrPayloadLenMismatch = errors.New("declared payload length exceeds available data")
	ErrNotContainer       = errors.New("chunk is not a container")
	ErrFourCCLength       = errors.New("FourCC must be exactly 4 bytes")
	ErrInvalidUTF8        = errors.New("FourCC is not valid UTF-8")
	ErrSizeOverflow       = errors.New("encoded size exceeds the 32-bit length field")
	ErrClosed             = errors.New("file is closed")
)
