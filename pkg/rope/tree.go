package rope

import (
	"io"
	"os"

	"rope/pkg/rope/internal/mmapfile"
)

// Rope is a persistent, copy-on-write, piece-indexed sequence of bytes
// (spec section 3; ground truth original_source/src/btree.c's SliceTable,
// renamed here the way pkg/cowbtree.CowBTree names its own top-level type).
// A Rope is single-mutator: Insert/Delete calls against the same handle must
// not run concurrently, but a Clone may be handed to another goroutine and
// mutated independently (spec section 5).
type Rope struct {
	cfg    Config
	root   *node
	blocks *block // head of this handle's private view of the block chain
	size   int
	depth  int // inner-node levels above the leaf; a lone leaf root is depth 0
}

// New returns an empty Rope using cfg, or DefaultConfig's tuning if cfg is
// the zero value.
func New(cfg Config) *Rope {
	cfg = cfg.validate()
	return &Rope{cfg: cfg, root: newLeaf(), size: 0, depth: 0}
}

// NewFromFile builds a Rope whose initial content is the bytes of the file
// at path (spec section 4.9, st_new_from_file). Files larger than
// cfg.HighWater are memory-mapped as a single MMAP block and referenced by
// one large slice; smaller files are read fully into one owned small slot,
// with no block. A
// zero-length file yields an empty Rope, the same as New.
func NewFromFile(cfg Config, path string) (*Rope, error) {
	cfg = cfg.validate()

	info, err := os.Stat(path)
	if err != nil {
		return nil, ErrOpenFailed
	}
	if info.Size() == 0 {
		return New(cfg), nil
	}

	r := &Rope{cfg: cfg, depth: 0}
	leaf := newLeaf()

	if int(info.Size()) > cfg.HighWater {
		mm, err := mmapfile.Open(path)
		if err != nil {
			return nil, ErrMmapFailed
		}
		blk := newMmapBlock(mm)
		r.blocks = blk
		leaf.slots = []slot{newLargeSlot(blk, 0, len(blk.data))}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, ErrOpenFailed
		}
		defer f.Close()
		data := make([]byte, info.Size())
		if _, err := io.ReadFull(f, data); err != nil {
			return nil, ErrShortRead
		}
		leaf.slots = []slot{newSmallSlot(cfg, data)}
	}

	r.root = leaf
	r.size = r.root.sum()
	return r, nil
}

// Clone returns a new handle sharing the current tree and block chain in
// O(1): bump the root's refcount and the block chain head's refcount, copy
// the small bookkeeping fields (spec section 4.7, st_clone).
func (r *Rope) Clone() *Rope {
	r.root.acquire()
	if r.blocks != nil {
		r.blocks.acquire()
	}
	return &Rope{cfg: r.cfg, root: r.root, blocks: r.blocks, size: r.size, depth: r.depth}
}

// Free releases this handle's share of the tree and block chain. The Rope
// must not be used afterward.
func (r *Rope) Free() {
	r.root.release()
	if r.blocks != nil {
		r.blocks.release()
	}
	r.root = nil
	r.blocks = nil
}

// Size returns the total byte length.
func (r *Rope) Size() int { return r.size }

// Depth returns the number of inner-node levels above the leaves: 0 for a
// rope small enough to fit in a single leaf.
func (r *Rope) Depth() int { return r.depth }

func (r *Rope) pushBlock(b *block) {
	b.next = r.blocks
	r.blocks = b
}

// Insert inserts data at pos (spec section 4.4, st_insert). pos must be in
// [0, r.Size()].
func (r *Rope) Insert(pos int, data []byte) int {
	if len(data) == 0 {
		return 0
	}
	ensureEditable(r.cfg, &r.root)
	ctx := &editCtx{cfg: r.cfg, pushBlock: r.pushBlock, data: data}
	outcome := editRecurse(ctx, r.root, pos, len(data), insertLeafCase)
	r.applyRootOutcome(outcome)
	r.size += len(data)
	return ctx.newlines
}

// Delete removes up to length bytes starting at pos (spec section 4.5,
// st_delete). It loops the same way the original does, since a single
// editRecurse call only ever removes what one leaf holds.
func (r *Rope) Delete(pos, length int) int {
	newlines := 0
	for length > 0 && pos < r.size {
		ensureEditable(r.cfg, &r.root)
		ctx := &editCtx{cfg: r.cfg, pushBlock: r.pushBlock}
		outcome := editRecurse(ctx, r.root, pos, length, deleteLeafCase)
		r.applyRootOutcome(outcome)
		if ctx.consumed == 0 {
			break
		}
		r.size -= ctx.consumed
		length -= ctx.consumed
		newlines += ctx.newlines
	}
	return newlines
}

// applyRootOutcome handles the three ways an edit can change the tree's
// overall shape: the root overflowing (wrap it in a fresh root with two
// children), the root underflowing to a single inner child (demote that
// child to be the new root), or the root leaf emptying out entirely (spec
// section 4.3's recursion terminates at the top with exactly these cases).
func (r *Rope) applyRootOutcome(outcome editOutcome) {
	switch outcome.kind {
	case editSplit:
		newRoot := newInner()
		leftSum := r.root.sum()
		newRoot.childSpans = []int{leftSum, outcome.splitSize}
		newRoot.children = []*node{r.root, outcome.split}
		r.root = newRoot
		r.depth++

	case editUnderflow:
		if !r.root.isLeaf && len(r.root.children) == 1 {
			old := r.root
			r.root = old.children[0]
			r.depth--
		}

	case editEmptied:
		r.root = newLeaf()
		r.depth = 0
	}
}
