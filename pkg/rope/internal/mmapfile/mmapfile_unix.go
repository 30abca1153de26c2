//go:build unix || darwin || linux || freebsd || openbsd || netbsd

package mmapfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// Open memory-maps path read-only for its entire length. Adapted from
// tur/pkg/pager/mmap_unix.go's OpenMmapFile, dropping the grow/extend and
// read-write paths that file has, since rope blocks never mutate once
// mapped.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	size := stat.Size()
	if size == 0 {
		f.Close()
		return nil, unix.EINVAL // mmap cannot handle zero-length mappings
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{handle: f, data: data}, nil
}

// Close unmaps the region and closes the underlying file descriptor.
func (f *File) Close() error {
	var firstErr error
	if f.data != nil {
		if err := unix.Munmap(f.data); err != nil && firstErr == nil {
			firstErr = err
		}
		f.data = nil
	}
	if osFile, ok := f.handle.(*os.File); ok && osFile != nil {
		if err := osFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		f.handle = nil
	}
	return firstErr
}
