package rope

// insertLeafCase is the leaf base case for insertion (spec section 4.4;
// ground truth original_source/src/btree.c's insert_leaf /
// insert_within_slice). findOffset's strict '>' comparison means offset==0
// only occurs at the true start of the leaf, never at an internal slot
// boundary — an internal boundary always resolves to offset == the span of
// the earlier slot, which is what the boundary-into-next-slot fast path
// below checks for.
func insertLeafCase(ctx *editCtx, leaf *node, pos, length int) editOutcome {
	cfg := ctx.cfg
	data := ctx.data
	for _, b := range data {
		if b == '\n' {
			ctx.newlines++
		}
	}

	switch {
	case len(leaf.slots) == 0:
		leaf.slots = append(leaf.slots, newDataSlot(cfg, data, ctx.pushBlock))

	default:
		i, offset := findOffset(leaf, pos)
		switch {
		case leaf.slots[i].isSmall():
			leaf.slots[i] = insertInto(cfg, leaf.slots[i], offset, data, ctx.pushBlock)

		case offset == leaf.slots[i].span && i+1 < len(leaf.slots) && leaf.slots[i+1].isSmall():
			leaf.slots[i+1] = insertInto(cfg, leaf.slots[i+1], 0, data, ctx.pushBlock)

		case offset == 0 || offset == leaf.slots[i].span:
			at := i
			if offset == leaf.slots[i].span {
				at = i + 1
			}
			leaf.slots = insertAt(leaf.slots, at, newDataSlot(cfg, data, ctx.pushBlock))
			leaf.slots = mergeAround(cfg, ctx.pushBlock, leaf.slots, at)

		default:
			left, right := splitLarge(cfg, leaf.slots[i], offset)
			window := []slot{left, newDataSlot(cfg, data, ctx.pushBlock), right}
			tail := append([]slot(nil), leaf.slots[i+1:]...)
			leaf.slots = append(append(leaf.slots[:i], window...), tail...)
			leaf.slots = mergeAround(cfg, ctx.pushBlock, leaf.slots, i+1)
		}
	}

	if len(leaf.slots) > cfg.B {
		splitAt := cfg.B/2 + 1
		sib := splitNode(leaf, splitAt)
		return editOutcome{kind: editSplit, delta: length - sib.sum(), split: sib, splitSize: sib.sum()}
	}
	// the merge pass can fold neighbouring small slots together, so an
	// insert may leave the leaf below minimum fill
	if len(leaf.slots) < cfg.minFill() {
		return editOutcome{kind: editUnderflow, delta: length}
	}
	return editOutcome{kind: editFit, delta: length}
}

// mergeAround runs the five-way merge pass over the window centered on slot
// index around, clamped to the live slot range — the same two-either-side
// bound original_source/src/btree.c's merge_slices call sites use.
func mergeAround(cfg Config, pushBlock func(*block), slots []slot, around int) []slot {
	lo := around - 2
	if lo < 0 {
		lo = 0
	}
	hi := around + 3
	if hi > len(slots) {
		hi = len(slots)
	}
	window := mergeSlices(cfg, pushBlock, append([]slot(nil), slots[lo:hi]...))
	merged := append([]slot(nil), slots[:lo]...)
	merged = append(merged, window...)
	merged = append(merged, slots[hi:]...)
	return merged
}
