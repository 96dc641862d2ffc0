// Diagnostic tool for dumping the chunk tree of a RIFF file
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/robert-malhotra/go-riff/riff"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: riffdump <file.riff>")
		os.Exit(1)
	}

	filename := os.Args[1]
	fmt.Printf("=== %s ===\n\n", filename)

	f, err := riff.Open(filename)
	if err != nil {
		fmt.Printf("ERROR: failed to open file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	err = f.Walk(func(chunkPath string, c riff.DiskChunk, err error) error {
		indent := strings.Repeat("  ", strings.Count(chunkPath, "/"))
		if err != nil {
			fmt.Printf("%sERROR under %s: %v\n", indent, chunkPath, err)
			return nil
		}
		return printChunk(indent, c)
	})
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func printChunk(indent string, c riff.DiskChunk) error {
	id, err := c.ID()
	if err != nil {
		return err
	}
	payloadLen, err := c.PayloadLen()
	if err != nil {
		return err
	}

	switch riff.Classify(id) {
	case riff.TypedContainer:
		typ, err := c.Type()
		if err != nil {
			fmt.Printf("%s%s (%d bytes) ERROR reading type: %v\n", indent, id, payloadLen, err)
			return nil
		}
		fmt.Printf("%s%s '%s' (%d bytes)\n", indent, id, typ, payloadLen)
	case riff.UntypedContainer:
		fmt.Printf("%s%s (%d bytes)\n", indent, id, payloadLen)
	default:
		raw, err := c.RawContent()
		if err != nil {
			fmt.Printf("%s%s (%d bytes) ERROR reading content: %v\n", indent, id, payloadLen, err)
			return nil
		}
		fmt.Printf("%s%s (%d bytes) %s\n", indent, id, payloadLen, preview(raw))
	}
	return nil
}

// preview renders the first few payload bytes, as text when printable.
func preview(raw []byte) string {
	const max = 24
	truncated := false
	if len(raw) > max {
		raw = raw[:max]
		truncated = true
	}
	printable := true
	for _, b := range raw {
		if b < 0x20 || b > 0x7E {
			printable = false
			break
		}
	}
	var s string
	if printable {
		s = fmt.Sprintf("%q", raw)
	} else {
		s = fmt.Sprintf("[% x]", raw)
	}
	if truncated {
		s += "..."
	}
	return s
}
