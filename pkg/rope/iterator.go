package rope

// stackSize bounds how many ancestor levels an Iterator remembers while
// walking between leaves (spec section 4.8; ground truth
// original_source/src/btree.c's STACKSIZE == 3). A tree deeper than this
// falls back to a full root descent on the rare chunk transition whose
// common ancestor lies above the remembered window — the same trade the
// original makes to keep the common case O(1) without an unbounded stack.
const stackSize = 3

type ancestor struct {
	n   *node
	idx int
}

// Iterator walks a Rope's bytes forward or backward, one chunk (leaf slot)
// or one byte at a time (spec section 4.8, st_iter_*). An Iterator becomes
// invalid if the Rope it was created from is mutated; callers must create a
// fresh one after any Insert/Delete, the same lifetime rule
// original_source/src/btree.c documents for struct sliceiter.
type Iterator struct {
	rope *Rope

	stack []ancestor // root-ward to leaf-ward order, capped at stackSize

	leaf      *node
	slot      int // index of the current slot within leaf
	off       int // byte offset within that slot
	slotStart int // absolute position of the start of the current slot
}

// NewIterator returns an Iterator positioned at pos (spec section 4.8,
// st_iter_new). pos must be in [0, r.Size()]; pos == r.Size() is a valid
// "at end" position from which only backward movement succeeds.
func NewIterator(r *Rope, pos int) *Iterator {
	it := &Iterator{rope: r}
	it.seekFullDescent(pos, false)
	return it
}

// Seek repositions the Iterator at pos via a full root descent.
func (it *Iterator) Seek(pos int) {
	it.seekFullDescent(pos, false)
}

// Pos returns the absolute byte offset the cursor is currently at.
func (it *Iterator) Pos() int { return it.slotStart + it.off }

// Chunk returns the bytes of the current slot from the cursor to the slot's
// end (spec section 4.8, st_iter_chunk) — a zero-copy view into either an
// owned small buffer or a borrowed block.
func (it *Iterator) Chunk() []byte {
	if len(it.leaf.slots) == 0 {
		return nil
	}
	return it.leaf.slots[it.slot].bytes()[it.off:]
}

// Byte returns the byte at the cursor, or ok == false at end of rope.
func (it *Iterator) Byte() (b byte, ok bool) {
	if len(it.leaf.slots) == 0 || it.off >= it.leaf.slots[it.slot].span {
		return 0, false
	}
	return it.leaf.slots[it.slot].bytes()[it.off], true
}

// NextChunk advances the cursor to the start of the next slot, crossing a
// leaf boundary if needed; it reports whether the cursor moved.
func (it *Iterator) NextChunk() bool {
	if len(it.leaf.slots) == 0 {
		return false
	}
	nextStart := it.slotStart + it.leaf.slots[it.slot].span
	if it.slot+1 < len(it.leaf.slots) {
		it.slot++
		it.off = 0
		it.slotStart = nextStart
		return true
	}
	if nextStart >= it.rope.size {
		return false
	}
	if !it.advanceLeaf(1, nextStart) {
		return false
	}
	it.slotStart = nextStart
	return true
}

// PrevChunk moves the cursor to the start of the previous slot.
func (it *Iterator) PrevChunk() bool {
	if it.slot > 0 {
		prevSpan := it.leaf.slots[it.slot-1].span
		it.slot--
		it.off = 0
		it.slotStart -= prevSpan
		return true
	}
	if it.slotStart == 0 {
		return false
	}
	oldStart := it.slotStart
	if !it.advanceLeaf(-1, oldStart-1) {
		return false
	}
	it.off = 0
	it.slotStart = oldStart - it.leaf.slots[it.slot].span
	return true
}

// NextByte advances the cursor forward by count bytes (spec section 4.8,
// st_iter_next_byte): when count fits in what's left of the current chunk
// it's a plain offset add, otherwise the chunk's remainder is consumed, the
// cursor steps to the next chunk, and the rest of count is applied there.
func (it *Iterator) NextByte(count int) bool {
	for count > 0 {
		if len(it.leaf.slots) == 0 {
			return false
		}
		remaining := it.leaf.slots[it.slot].span - it.off
		if count < remaining {
			it.off += count
			return true
		}
		count -= remaining
		if !it.NextChunk() {
			return false
		}
	}
	return true
}

// PrevByte moves the cursor back by count bytes, the mirror image of
// NextByte: subtract from the in-chunk offset while it covers count, else
// consume it and step to the previous chunk's end.
func (it *Iterator) PrevByte(count int) bool {
	for count > 0 {
		if count <= it.off {
			it.off -= count
			return true
		}
		count -= it.off
		if !it.PrevChunk() {
			return false
		}
		it.off = it.leaf.slots[it.slot].span
	}
	return true
}

// advanceLeaf moves to the first slot of the next leaf (dir == 1) or the
// last slot of the previous leaf (dir == -1) by walking back up the
// remembered ancestor stack and down the sibling subtree. atPos is the
// absolute position to re-seek from, in full, if the stack doesn't reach
// far enough up to find a sibling.
func (it *Iterator) advanceLeaf(dir int, atPos int) bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		nextIdx := top.idx + dir
		if nextIdx >= 0 && nextIdx < len(top.n.children) {
			top.idx = nextIdx
			n := top.n.children[nextIdx]
			for !n.isLeaf {
				if len(it.stack) >= stackSize {
					it.stack = it.stack[1:]
				}
				idx := 0
				if dir < 0 {
					idx = len(n.children) - 1
				}
				it.stack = append(it.stack, ancestor{n: n, idx: idx})
				n = n.children[idx]
			}
			it.leaf = n
			if dir > 0 {
				it.slot = 0
			} else {
				it.slot = len(n.slots) - 1
			}
			it.off = 0
			return true
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	if atPos < 0 || atPos > it.rope.size {
		return false
	}
	it.seekFullDescent(atPos, dir > 0)
	return true
}

// seekFullDescent rebuilds the iterator state from a root-to-leaf walk.
// forward controls how a position landing exactly on a slot boundary is
// resolved: false keeps the original convention (end of the earlier slot,
// matching findOffset's strict '>' comparison used by insert/delete), true
// resolves to the start of the following slot — needed so NextChunk's
// fallback lands past the boundary it was trying to cross rather than
// immediately back where it started.
func (it *Iterator) seekFullDescent(pos int, forward bool) {
	var path []ancestor
	n := it.rope.root
	base := pos
	for !n.isLeaf {
		i, childPos := findOffset(n, base)
		path = append(path, ancestor{n: n, idx: i})
		n = n.children[i]
		base = childPos
	}

	slotIdx, off := 0, 0
	if len(n.slots) > 0 {
		slotIdx, off = findOffset(n, base)
	}

	if forward && len(n.slots) > 0 && off == n.slots[slotIdx].span {
		if slotIdx+1 < len(n.slots) {
			slotIdx++
			off = 0
		} else {
			for len(path) > 0 {
				top := &path[len(path)-1]
				if top.idx+1 < len(top.n.children) {
					top.idx++
					n = top.n.children[top.idx]
					for !n.isLeaf {
						path = append(path, ancestor{n: n, idx: 0})
						n = n.children[0]
					}
					slotIdx, off = 0, 0
					break
				}
				path = path[:len(path)-1]
			}
		}
	}

	it.leaf = n
	it.slot = slotIdx
	it.off = off
	it.slotStart = pos - off

	start := 0
	if len(path) > stackSize {
		start = len(path) - stackSize
	}
	it.stack = append(it.stack[:0], path[start:]...)
}
