package rope

// deleteLeafCase is the leaf base case for deletion (spec section 4.5;
// ground truth original_source/src/btree.c's delete_leaf /
// delete_within_slice). It deletes at most length bytes starting at pos
// within this leaf alone — ctx.consumed records how many bytes it actually
// removed, since a delete spanning multiple leaves is driven by a loop at
// the Rope.Delete level that keeps calling editRecurse with what remains,
// the same way st_delete's own while(len>0) loop does.
func deleteLeafCase(ctx *editCtx, leaf *node, pos, length int) editOutcome {
	cfg := ctx.cfg
	available := leaf.sum() - pos
	n := length
	if n > available {
		n = available
	}
	if n <= 0 {
		ctx.consumed = 0
		return editOutcome{kind: editFit, delta: 0}
	}

	i, offset := findOffset(leaf, pos)

	if offset+n <= leaf.slots[i].span {
		s := leaf.slots[i]
		countNewlines(ctx, s.bytes()[offset:offset+n])
		switch {
		case n == s.span:
			// the delete consumes the whole slot (e.g. offset == 0 and n ==
			// span): the slot must be removed, not left at span == 0.
			leaf.slots = spliceSlots(cfg, ctx.pushBlock, leaf.slots, i, i+1, nil)
		case s.isSmall():
			leaf.slots[i] = deleteFrom(s, offset, n)
		default:
			var replacement []slot
			if offset > 0 {
				replacement = append(replacement, truncate(cfg, s, offset))
			}
			if offset+n < s.span {
				replacement = append(replacement, dropPrefix(cfg, s, offset+n))
			}
			leaf.slots = spliceSlots(cfg, ctx.pushBlock, leaf.slots, i, i+1, replacement)
		}
	} else {
		remaining := n
		var replacement []slot
		first := leaf.slots[i]
		if offset > 0 {
			countNewlines(ctx, first.bytes()[offset:])
			replacement = append(replacement, truncate(cfg, first, offset))
			remaining -= first.span - offset
		} else {
			countNewlines(ctx, first.bytes())
			remaining -= first.span
		}
		j := i + 1
		for remaining > 0 && j < len(leaf.slots) && leaf.slots[j].span <= remaining {
			countNewlines(ctx, leaf.slots[j].bytes())
			remaining -= leaf.slots[j].span
			j++
		}
		if remaining > 0 && j < len(leaf.slots) {
			countNewlines(ctx, leaf.slots[j].bytes()[:remaining])
			replacement = append(replacement, dropPrefix(cfg, leaf.slots[j], remaining))
			j++
		}
		leaf.slots = spliceSlots(cfg, ctx.pushBlock, leaf.slots, i, j, replacement)
	}

	ctx.consumed = n

	// An interior delete on a large slot replaces it with a (truncate,
	// dropPrefix) pair, growing fill by one; a leaf already at capacity can
	// overflow from this even though the edit removed bytes overall (spec
	// section 4.5 Case A; ground truth delete_within_slice's newfill > B
	// branch). Case B can only ever shrink or hold fill steady, so it never
	// needs this check.
	if len(leaf.slots) > cfg.B {
		splitAt := cfg.B/2 + 1
		sib := splitNode(leaf, splitAt)
		return editOutcome{kind: editSplit, delta: -n - sib.sum(), split: sib, splitSize: sib.sum()}
	}
	if len(leaf.slots) == 0 {
		return editOutcome{kind: editEmptied, delta: -n}
	}
	if len(leaf.slots) < cfg.minFill() {
		return editOutcome{kind: editUnderflow, delta: -n}
	}
	return editOutcome{kind: editFit, delta: -n}
}

// spliceSlots replaces slots[from:to] with replacement and re-runs the
// five-way merge pass over the seam, matching delete_within_slice's
// "compact, then merge_slices over [max(0,start-2)..+4]" cleanup.
func spliceSlots(cfg Config, pushBlock func(*block), slots []slot, from, to int, replacement []slot) []slot {
	tail := append([]slot(nil), slots[to:]...)
	merged := append(append([]slot(nil), slots[:from]...), replacement...)
	merged = append(merged, tail...)
	if len(merged) == 0 {
		return merged
	}
	at := from
	if at >= len(merged) {
		at = len(merged) - 1
	}
	return mergeAround(cfg, pushBlock, merged, at)
}

func countNewlines(ctx *editCtx, data []byte) {
	for _, b := range data {
		if b == '\n' {
			ctx.newlines--
		}
	}
}
