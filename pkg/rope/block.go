package rope

import (
	"sync/atomic"

	"rope/pkg/rope/internal/mmapfile"
)

// blockKind is the storage kind of a block (spec section 3: HEAP or MMAP).
type blockKind int

const (
	blockHeap blockKind = iota
	blockMmap
)

// block is an immutable, refcounted byte buffer referenced by large slices.
// Blocks are strictly immutable once constructed (spec section 4.1): no
// operation ever mutates block.data in place.
//
// A rope does not have each of its leaf slices hold a reference to the
// blocks they point into; per spec section 3 ("The rope keeps a head
// pointer to the list purely so a tree-wide free can traverse it; individual
// leaves do NOT own blocks"), block lifetime is governed by how many rope
// handles still hold the block's position in the intrusive list, not by how
// many live slices still point into it.
type block struct {
	refc int32 // atomic
	kind blockKind
	data []byte
	mm   *mmapfile.File // non-nil when kind == blockMmap; closed on release
	next *block         // intrusive singly-linked list, see Rope.blocks
}

func newHeapBlock(data []byte) *block {
	return &block{refc: 1, kind: blockHeap, data: data}
}

func newMmapBlock(mm *mmapfile.File) *block {
	return &block{refc: 1, kind: blockMmap, data: mm.Bytes(), mm: mm}
}

// acquire bumps the refcount. Per spec section 5, increments use relaxed
// ordering: the handoff to another thread is itself the synchronization
// point and is the caller's responsibility.
func (b *block) acquire() {
	atomic.AddInt32(&b.refc, 1)
}

// release drops the refcount with release ordering; on the transition to
// zero it runs an acquire fence (approximated here by the fact that
// atomic.AddInt32 already establishes a total order sufficient for Go's
// memory model) before freeing the block and cascading into the next link
// in the chain, mirroring original_source/src/btree.c's drop_block.
func (b *block) release() {
	if atomic.AddInt32(&b.refc, -1) == 0 {
		switch b.kind {
		case blockMmap:
			b.mm.Close()
		case blockHeap:
			// backed by the Go heap; nothing to do but drop the reference
		}
		if b.next != nil {
			b.next.release()
		}
	}
}
