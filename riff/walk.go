package riff

import (
	"errors"
	"path"
)

// WalkFunc is called for each chunk during traversal.
// chunkPath is a slash-joined trail of chunk ids from the root.
// err is any structural error encountered while iterating the chunk's
// parent; when err is non-nil the chunk argument is the zero value.
// Return nil to continue walking, ErrStopWalk to stop cleanly, or any
// other error to stop and propagate it.
type WalkFunc func(chunkPath string, c RAMChunk, err error) error

// Walk traverses the chunk tree depth-first starting from c. The
// callback sees the starting chunk first, then every descendant in
// wire order. A sticky iterator failure inside a container is reported
// to the callback once and ends that container's children, matching
// the readers' own contract.
func Walk(c RAMChunk, fn WalkFunc) error {
	err := walkRAM(c, c.ID().String(), fn)
	if IsStopWalk(err) {
		return nil
	}
	return err
}

func walkRAM(c RAMChunk, chunkPath string, fn WalkFunc) error {
	if err := fn(chunkPath, c, nil); err != nil {
		return err
	}
	it := c.Children()
	for it.Next() {
		child := it.Chunk()
		childPath := path.Join(chunkPath, child.ID().String())
		if err := walkRAM(child, childPath, fn); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		return fn(chunkPath, RAMChunk{}, err)
	}
	return nil
}

// DiskWalkFunc is the lazy counterpart of WalkFunc.
type DiskWalkFunc func(chunkPath string, c DiskChunk, err error) error

// Walk traverses the whole file depth-first through the lazy reader.
// Every visited header is re-read from the backing store.
func (f *DiskFile) Walk(fn DiskWalkFunc) error {
	root, err := f.Root()
	if err != nil {
		return err
	}
	id, err := root.ID()
	if err != nil {
		return err
	}
	err = walkDisk(root, id.String(), fn)
	if IsStopWalk(err) {
		return nil
	}
	return err
}

func walkDisk(c DiskChunk, chunkPath string, fn DiskWalkFunc) error {
	if err := fn(chunkPath, c, nil); err != nil {
		return err
	}
	it, err := c.Children()
	if err != nil {
		return fn(chunkPath, DiskChunk{}, err)
	}
	for it.Next() {
		child := it.Chunk()
		id, err := child.ID()
		if err != nil {
			return fn(chunkPath, DiskChunk{}, err)
		}
		if err := walkDisk(child, path.Join(chunkPath, id.String()), fn); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		return fn(chunkPath, DiskChunk{}, err)
	}
	return nil
}

// ErrStopWalk can be returned from a walk callback to stop walking
// without an error.
var ErrStopWalk = &walkStopError{}

type walkStopError struct{}

func (e *walkStopError) Error() string { return "walk stopped" }

// IsStopWalk returns true if the error is, or wraps, ErrStopWalk.
func IsStopWalk(err error) bool {
	return errors.Is(err, ErrStopWalk)
}
