package riff

import "encoding/binary"

// Test fixtures are built from the same handful of ids the format's
// reference files use: a RIFF of form smpl holding test/tst1/tst2
// leaves, LIST sub-containers and a seqt sequence.

func u32le(v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return buf[:]
}

// leafBytes encodes a leaf chunk, including the pad byte after an odd
// payload.
func leafBytes(id string, payload []byte) []byte {
	b := append([]byte(id), u32le(uint32(len(payload)))...)
	b = append(b, payload...)
	if len(payload)%2 == 1 {
		b = append(b, 0)
	}
	return b
}

// containerBytes encodes a container chunk around already-encoded
// children. An empty typ encodes an untyped (seqt-class) container.
func containerBytes(id, typ string, children ...[]byte) []byte {
	var body []byte
	for _, c := range children {
		body = append(body, c...)
	}
	payloadLen := len(body)
	if typ != "" {
		payloadLen += 4
	}
	b := append([]byte(id), u32le(uint32(payloadLen))...)
	if typ != "" {
		b = append(b, typ...)
	}
	return append(b, body...)
}

// setMinimal is a RIFF of form smpl holding one test leaf: root
// payload length 14.
func setMinimal() []byte {
	return containerBytes("RIFF", "smpl", leafBytes("test", []byte{0xFF}))
}

// setTwoLeaves holds tst1 and tst2 leaves: root payload length 24.
func setTwoLeaves() []byte {
	return containerBytes("RIFF", "smpl",
		leafBytes("tst1", []byte{0xFF}),
		leafBytes("tst2", []byte{0xEE}),
	)
}

// setNested is the full reference layout: a LIST of form tst1 with two
// test leaves, then a seqt with one test leaf. Root payload length 100.
func setNested() []byte {
	return containerBytes("RIFF", "smpl",
		containerBytes("LIST", "tst1",
			leafBytes("test", []byte("hey this is a test")),
			leafBytes("test", []byte("hey this is another test")),
		),
		containerBytes("seqt", "",
			leafBytes("test", []byte("final test")),
		),
	)
}

// setOddLeaves wraps a LIST of form tst1 holding two test leaves with
// odd-length payloads, so a pad byte sits between them on the wire.
func setOddLeaves() []byte {
	return containerBytes("RIFF", "smpl",
		containerBytes("LIST", "tst1",
			leafBytes("test", []byte("seven77")),
			leafBytes("test", []byte("elevenchars")),
		),
	)
}
