package rope

import "errors"

// I/O failure classification for NewFromFile, matching spec section 7:
// open-failed, mmap-failed, short-read each surface as a distinct sentinel
// so callers can tell them apart without parsing strings, the same pattern
// pkg/cowbtree/cowbtree.go uses for ErrKeyNotFound/ErrCASFailed/etc.
var (
	ErrOpenFailed = errors.New("rope: open failed")
	ErrMmapFailed = errors.New("rope: mmap failed")
	ErrShortRead  = errors.New("rope: short read")
)
