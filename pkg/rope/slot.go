package rope

// slot is a leaf's (span, ptr) pair (spec section 3). A slot is either:
//   - small: span <= cfg.HighWater, and it exclusively owns a HighWater
//     capacity buffer (small != nil), or
//   - large: span > cfg.HighWater, and it borrows an offset into a block
//     (blk != nil) without copying.
//
// The discriminator is span <= HighWater, with no separate tag stored, per
// spec section 3; in this Go port we additionally use small != nil as a
// convenience check, since Go distinguishes nil slices cheaply, but the two
// never disagree — see invariants.go's ownership-by-span-class check.
type slot struct {
	span  int
	small []byte // len == span, cap == cfg.HighWater; owned
	blk   *block // borrowed; nil unless this slot is large
	off   int    // offset into blk.data; valid only when blk != nil
}

func (s *slot) isSmall() bool { return s.small != nil }

// bytes returns a read-only view of the slot's live bytes.
func (s *slot) bytes() []byte {
	if s.isSmall() {
		return s.small
	}
	return s.blk.data[s.off : s.off+s.span]
}

// newSmallSlot copies data into a freshly allocated HighWater-capacity
// buffer, as every "materialize a small fragment" path in
// original_source/src/btree.c does (e.g. the head/tail rematerialization
// around a large-slice split).
func newSmallSlot(cfg Config, data []byte) slot {
	buf := make([]byte, len(data), cfg.HighWater)
	copy(buf, data)
	return slot{span: len(data), small: buf}
}

func newLargeSlot(blk *block, off, length int) slot {
	return slot{span: length, blk: blk, off: off}
}

// newDataSlot builds the slot that will carry freshly inserted bytes: a
// HighWater-capacity small buffer if it fits, otherwise an exactly-sized
// new HEAP block registered via pushBlock — spec section 4.4 "slow path"
// allocation rule.
func newDataSlot(cfg Config, data []byte, pushBlock func(*block)) slot {
	if len(data) <= cfg.HighWater {
		return newSmallSlot(cfg, data)
	}
	owned := make([]byte, len(data))
	copy(owned, data)
	blk := newHeapBlock(owned)
	pushBlock(blk)
	return newLargeSlot(blk, 0, len(owned))
}

// insertInto inserts data at offset within a small slot, in place when it
// still fits in HighWater, promoting to a freshly registered HEAP block
// otherwise (spec section 4.2, "Small-slice edit"). Must only be called on
// small slots.
func insertInto(cfg Config, s slot, offset int, data []byte, pushBlock func(*block)) slot {
	if s.span+len(data) > cfg.HighWater {
		merged := make([]byte, s.span+len(data))
		copy(merged, s.small[:offset])
		copy(merged[offset:], data)
		copy(merged[offset+len(data):], s.small[offset:s.span])
		blk := newHeapBlock(merged)
		pushBlock(blk)
		return newLargeSlot(blk, 0, len(merged))
	}
	buf := s.small[:s.span+len(data)]
	copy(buf[offset+len(data):], buf[offset:s.span])
	copy(buf[offset:offset+len(data)], data)
	s.small = buf
	s.span += len(data)
	return s
}

// deleteFrom deletes length bytes at offset from a small slot in place.
func deleteFrom(s slot, offset, length int) slot {
	buf := s.small
	copy(buf[offset:], buf[offset+length:s.span])
	s.span -= length
	s.small = buf[:s.span]
	return s
}

// splitLarge splits a large slot at in-slot offset off into (left, right),
// demoting whichever side ends up <= HighWater into a freshly materialized
// small buffer, per spec section 4.2 "Large-slice edit at an interior
// offset" — block immutability is preserved; we only ever copy out of it.
func splitLarge(cfg Config, s slot, off int) (left, right slot) {
	leftLen := off
	rightLen := s.span - off

	if leftLen <= cfg.HighWater {
		left = newSmallSlot(cfg, s.blk.data[s.off:s.off+leftLen])
	} else {
		left = newLargeSlot(s.blk, s.off, leftLen)
	}
	if rightLen <= cfg.HighWater {
		right = newSmallSlot(cfg, s.blk.data[s.off+off:s.off+s.span])
	} else {
		right = newLargeSlot(s.blk, s.off+off, rightLen)
	}
	return left, right
}

// truncate shortens a slot to newLen bytes, keeping the prefix. A large
// slot that drops at or below HighWater is rematerialized into an owned
// small buffer (spec section 4.5, case B step 1/3: "rematerializing a
// small buffer if truncation crosses HIGH_WATER downward").
func truncate(cfg Config, s slot, newLen int) slot {
	if s.isSmall() {
		s.span = newLen
		s.small = s.small[:newLen]
		return s
	}
	if newLen <= cfg.HighWater {
		return newSmallSlot(cfg, s.blk.data[s.off:s.off+newLen])
	}
	s.span = newLen
	return s
}

// dropPrefix advances a slot's start by n bytes, keeping the suffix. Mirror
// of truncate for the "advance the slice's offset and span" case in
// spec section 4.5 step 3.
func dropPrefix(cfg Config, s slot, n int) slot {
	if s.isSmall() {
		return deleteFrom(s, 0, n)
	}
	newLen := s.span - n
	if newLen <= cfg.HighWater {
		return newSmallSlot(cfg, s.blk.data[s.off+n:s.off+s.span])
	}
	s.off += n
	s.span = newLen
	return s
}
