package rope

import "log"

// Debug gates trace logging through debugf, the counterpart of the
// original's st_dbg() macro, which every mutation path in
// original_source/src/btree.c calls and which is compiled out of release
// builds. No code path in this package calls debugf, so setting Debug
// produces no output.
var Debug = false

func debugf(format string, args ...any) {
	if !Debug {
		return
	}
	log.Printf("rope: "+format, args...)
}
