// Package mmapfile provides read-only memory-mapped file access for the
// rope's MMAP block kind. It is adapted from tur/pkg/pager's MmapFile,
// trimmed to the read-only, never-grown mapping a rope block needs: once a
// file is mapped in as a block, the block is immutable for its lifetime
// (spec section 4.1 — "No partial-block mutation. Blocks are strictly
// immutable.").
package mmapfile

// File is a read-only memory mapping of a file's contents.
// Platform-specific Open/Close implementations live in mmapfile_unix.go and
// mmapfile_windows.go.
type File struct {
	handle any // *os.File on Unix, windows.Handle-bearing struct on Windows
	data   []byte
}

// Len returns the mapped length in bytes.
func (f *File) Len() int { return len(f.data) }

// Bytes returns the mapped region. The caller must not mutate it and must
// not retain it past Close.
func (f *File) Bytes() []byte { return f.data }
