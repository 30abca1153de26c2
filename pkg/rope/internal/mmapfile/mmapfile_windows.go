//go:build windows

package mmapfile

import (
	"os"
	"reflect"
	"unsafe"

	"golang.org/x/sys/windows"
)

type windowsHandle struct {
	file      *os.File
	mapHandle windows.Handle
}

// Open memory-maps path read-only for its entire length. Adapted from
// tur/pkg/pager/mmap_windows.go's OpenMmapFile, dropping the grow and
// read-write paths since rope blocks never mutate once mapped.
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
		return nil, os.ErrInvalid
	}

	mapHandle, err := windows.CreateFileMapping(
		windows.Handle(f.Fd()), nil, windows.PAGE_READONLY,
		uint32(size>>32), uint32(size&0xFFFFFFFF), nil,
	)
	if err != nil {
		f.Close()
		return nil, err
	}

	addr, err := windows.MapViewOfFile(mapHandle, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(mapHandle)
		f.Close()
		return nil, err
	}

	var data []byte
	header := (*reflect.SliceHeader)(unsafe.Pointer(&data))
	header.Data = addr
	header.Len = int(size)
	header.Cap = int(size)

	return &File{
		handle: &windowsHandle{file: f, mapHandle: mapHandle},
		data:   data,
	}, nil
}

// Close unmaps the view and closes the mapping handle and file.
func (f *File) Close() error {
	h, ok := f.handle.(*windowsHandle)
	if !ok || h == nil {
		return nil
	}

	var firstErr error
	if len(f.data) > 0 {
		if err := windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&f.data[0]))); err != nil && firstErr == nil {
			firstErr = err
		}
		f.data = nil
	}
	if h.mapHandle != 0 {
		if err := windows.CloseHandle(h.mapHandle); err != nil && firstErr == nil {
			firstErr = err
		}
		h.mapHandle = 0
	}
	if h.file != nil {
		if err := h.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		h.file = nil
	}
	f.handle = nil
	return firstErr
}
