package rope

// editCtx carries the state that threads through a single insert or delete
// call without being part of the recursive return value, mirroring the
// ctx-pointer pattern original_source/src/btree.c uses for its "count
// newlines once, at the leaf, then read it back at the top" bookkeeping
// (there built directly into st_insert/st_delete's locals).
type editCtx struct {
	cfg       Config
	pushBlock func(*block)
	newlines  int    // net newline count change, set by whichever leaf base case runs
	data      []byte // payload for an insert; unused by delete
	consumed  int    // bytes actually deleted by the most recent leaf base case call
}

// leafCaseFn is the base case editRecurse bottoms out into once it reaches
// a leaf — insertLeafCase or deleteLeafCase.
type leafCaseFn func(ctx *editCtx, leaf *node, pos, span int) editOutcome

// editRecurse is the shared path-copying descent at the heart of every
// mutation (spec section 4.3, "Inner node recursion"; ground truth
// original_source/src/btree.c's edit_recurse). It descends to the leaf
// spanning pos, applies leafFn there, then unwinds applying the span delta
// and handling any overflow/underflow the leaf (or a deeper inner level)
// reported.
func editRecurse(ctx *editCtx, root *node, pos, span int, leafFn leafCaseFn) editOutcome {
	if root.isLeaf {
		return leafFn(ctx, root, pos, span)
	}

	cfg := ctx.cfg
	i, childPos := findOffset(root, pos)
	// A delete (the only edit without a payload) that starts exactly on a
	// child boundary belongs to the later child: the earlier one holds
	// nothing at or after that position.
	if ctx.data == nil && childPos == root.childSpans[i] && i+1 < len(root.children) {
		i, childPos = i+1, 0
	}
	ensureEditable(cfg, &root.children[i])
	childOutcome := editRecurse(ctx, root.children[i], childPos, span, leafFn)
	root.childSpans[i] += childOutcome.delta
	// net byte change of this subtree: the child's own delta plus whatever
	// it split off into a new sibling that now also lives under this node
	delta := childOutcome.delta
	if childOutcome.kind == editSplit {
		delta += childOutcome.splitSize
	}
	minFill := cfg.minFill()

	switch childOutcome.kind {
	case editFit:
		// nothing further to do at this level

	case editSplit:
		i++
		target := root
		if len(root.children) == cfg.B {
			splitAt := cfg.B / 2
			if i > cfg.B/2 {
				splitAt++
			}
			sib := splitNode(root, splitAt)
			splitSize := sib.sum()
			delta -= splitSize
			if i > cfg.B/2 {
				delta -= childOutcome.splitSize
				splitSize += childOutcome.splitSize
				target = sib
				i -= splitAt
			}
			target.childSpans = insertAt(target.childSpans, i, childOutcome.splitSize)
			target.children = insertAt(target.children, i, childOutcome.split)
			return editOutcome{kind: editSplit, delta: delta, split: sib, splitSize: splitSize}
		}
		target.childSpans = insertAt(target.childSpans, i, childOutcome.splitSize)
		target.children = insertAt(target.children, i, childOutcome.split)

	case editUnderflow, editEmptied:
		j := i - 1
		if i == 0 {
			j = i + 1
		}
		if childOutcome.kind == editEmptied {
			root.childSpans[i] = 0
			j = i
		} else {
			ensureEditable(cfg, &root.children[j])
			child := root.children[i]
			sibling := root.children[j]
			shifted := 0
			if child.isLeaf {
				if i < j {
					shifted -= mergeLeafBoundary(cfg, child, sibling, ctx.pushBlock)
				} else {
					shifted += mergeLeafBoundary(cfg, sibling, child, ctx.pushBlock)
				}
			}
			shifted += rebalanceUnderflow(cfg, child, sibling, i < j)
			root.childSpans[i] += shifted
			root.childSpans[j] -= shifted
		}
		if root.childSpans[j] == 0 {
			removeChildSlot(root, j)
			if len(root.children) < minFill {
				return editOutcome{kind: editUnderflow, delta: delta}
			}
		}
	}

	return editOutcome{kind: editFit, delta: delta}
}

// rebalanceUnderflow moves entries from sibling into the deficient child
// (spec section 4.3 step 4), dispatching to the leaf-slot or inner-child
// instantiation of rebalanceSlices as appropriate, and returns the number of
// bytes transferred from sibling into child.
func rebalanceUnderflow(cfg Config, child, sibling *node, childOnLeft bool) int {
	minFill := cfg.minFill()
	if child.isLeaf {
		iSpans := spansOf(child.slots)
		jSpans := spansOf(sibling.slots)
		_, newIData, _, newJData, d := rebalanceSlices(iSpans, child.slots, jSpans, sibling.slots, childOnLeft, minFill, cfg.B)
		child.slots = newIData
		sibling.slots = newJData
		return d
	}
	newISpans, newIChildren, newJSpans, newJChildren, d := rebalanceSlices(child.childSpans, child.children, sibling.childSpans, sibling.children, childOnLeft, minFill, cfg.B)
	child.childSpans, child.children = newISpans, newIChildren
	sibling.childSpans, sibling.children = newJSpans, newJChildren
	return d
}
