package riff

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// FourCC is a 4-byte identifier used for chunk ids and container form
// types. Construction makes no encoding guarantee; interpreting the
// bytes as text is a separate, fallible operation. Values compare
// byte-wise with ==.
type FourCC [4]byte

// Reserved chunk ids. RIFF and LIST mark typed containers, seqt marks
// an untyped container; every other id marks a leaf chunk.
var (
	IDRIFF = FourCC{'R', 'I', 'F', 'F'}
	IDLIST = FourCC{'L', 'I', 'S', 'T'}
	IDSEQT = FourCC{'s', 'e', 'q', 't'}
)

// MakeFourCC constructs a FourCC from 4 raw bytes.
func MakeFourCC(b [4]byte) FourCC {
	return FourCC(b)
}

// FourCCFromString constructs a FourCC from text. The text must encode
// to exactly 4 bytes or ErrFourCCLength is returned.
func FourCCFromString(s string) (FourCC, error) {
	if len(s) != 4 {
		return FourCC{}, fmt.Errorf("%w: %q is %d bytes", ErrFourCCLength, s, len(s))
	}
	var id FourCC
	copy(id[:], s)
	return id, nil
}

// Bytes returns the raw 4 bytes.
func (id FourCC) Bytes() [4]byte {
	return [4]byte(id)
}

// Text interprets the identifier as UTF-8 text. It returns
// ErrInvalidUTF8 when the bytes are not valid UTF-8.
func (id FourCC) Text() (string, error) {
	if !utf8.Valid(id[:]) {
		return "", fmt.Errorf("%w: % x", ErrInvalidUTF8, id[:])
	}
	return string(id[:]), nil
}

// String renders the identifier for display. Valid UTF-8 is returned
// as-is; anything else is shown in quoted escape form. String never
// fails, so it is safe in paths and log output.
func (id FourCC) String() string {
	if s, err := id.Text(); err == nil {
		return s
	}
	return strconv.Quote(string(id[:]))
}
