package rope

import "sync/atomic"

// node is either a leaf (holding slots) or an inner node (holding child
// span sums and child pointers), matching spec section 3's unified
// struct-node layout (original_source/src/btree.c's "struct node" serves
// both roles via the same spans[B]/child[B] arrays). Unlike the C source —
// and unlike pkg/cowbtree.CowNode, which uses fixed-size backing with a
// B=64 constant — slot/child counts here are ordinary Go slices, so B is a
// runtime Config field rather than a compile-time array bound; fill is
// simply len(slots) or len(children), which is exactly the "fill stored
// alongside the slots" alternative spec section 9 calls out under
// "In-slot sentinels" as clearer than the EMPTY-sentinel scheme.
type node struct {
	refc   int32 // atomic; see spec section 5, "Shared state"
	isLeaf bool

	// leaf fields
	//
	// Deliberately no next/prev sibling pointers here: under copy-on-write
	// sharing a single leaf can be reachable from more than one tree
	// version, each with a different actual neighbour, so a sibling chain
	// cannot be stored canonically on the node itself. The iterator instead
	// retraces an ancestor stack (spec section 4.8; ground truth
	// original_source/src/btree.c's struct sliceiter.stack).
	slots []slot

	// inner fields
	childSpans []int
	children   []*node
}

func newLeaf() *node {
	return &node{isLeaf: true, refc: 1}
}

func newInner() *node {
	return &node{isLeaf: false, refc: 1}
}

func (n *node) acquire() {
	atomic.AddInt32(&n.refc, 1)
}

// release drops the refcount, cascading into children when an inner node
// reaches zero live owners (original_source/src/btree.c's drop_node). Leaf
// nodes own no blocks directly (spec section 3) so there is nothing further
// to release there — their small buffers and slot slice are reclaimed by
// the Go garbage collector once unreachable.
func (n *node) release() {
	if atomic.AddInt32(&n.refc, -1) == 0 {
		if !n.isLeaf {
			for _, c := range n.children {
				c.release()
			}
		}
	}
}

func (n *node) fill() int {
	if n.isLeaf {
		return len(n.slots)
	}
	return len(n.children)
}

func (n *node) spanAt(i int) int {
	if n.isLeaf {
		return n.slots[i].span
	}
	return n.childSpans[i]
}

func (n *node) sum() int {
	total := 0
	for i := 0; i < n.fill(); i++ {
		total += n.spanAt(i)
	}
	return total
}

// findOffset is the prefix-sum descent ("node_offset" in the original):
// it returns the slot/child index spanning pos, and the offset within it.
// The comparison is strict ('>' not '>='), so a pos landing exactly on a
// slot boundary resolves to the end of the earlier slot — this is what
// lets the leaf base cases detect "at end of slot i" as a fast path.
func findOffset(n *node, pos int) (index, offset int) {
	i := 0
	for pos > n.spanAt(i) {
		pos -= n.spanAt(i)
		i++
	}
	return i, pos
}

// shallowClone makes a mutable, uniquely-owned copy of n: a deep copy of
// leaf small buffers (the clone now owns its own copies, per spec section
// 4.7) or a bumped refcount on each live child for inner nodes.
func shallowClone(cfg Config, n *node) *node {
	c := &node{isLeaf: n.isLeaf, refc: 1}
	if n.isLeaf {
		c.slots = make([]slot, len(n.slots))
		for i, s := range n.slots {
			if s.isSmall() {
				buf := make([]byte, s.span, cfg.HighWater)
				copy(buf, s.small)
				c.slots[i] = slot{span: s.span, small: buf}
			} else {
				c.slots[i] = s // borrowed block reference, shared as-is
			}
		}
	} else {
		c.childSpans = append([]int(nil), n.childSpans...)
		c.children = append([]*node(nil), n.children...)
		for _, ch := range c.children {
			ch.acquire()
		}
	}
	return c
}

// ensureEditable implements spec section 4.7: a no-op when the node is
// already uniquely owned (refc == 1), otherwise it clones, releases the
// original's share, and repoints *nodePtr at the clone — standard COW path
// copying, applied once per descent step by the caller.
func ensureEditable(cfg Config, nodePtr **node) {
	n := *nodePtr
	if atomic.LoadInt32(&n.refc) == 1 {
		return
	}
	clone := shallowClone(cfg, n)
	n.release()
	*nodePtr = clone
}

// splitNode moves slots/children at and after offset into a freshly
// returned sibling, truncating n in place — used by both leaf and inner
// overflow handling (spec sections 4.2 "Leaf overflow" and 4.3 step 3).
func splitNode(n *node, offset int) *node {
	sib := &node{isLeaf: n.isLeaf, refc: 1}
	if n.isLeaf {
		sib.slots = append([]slot(nil), n.slots[offset:]...)
		n.slots = n.slots[:offset]
	} else {
		sib.childSpans = append([]int(nil), n.childSpans[offset:]...)
		sib.children = append([]*node(nil), n.children[offset:]...)
		n.childSpans = n.childSpans[:offset]
		n.children = n.children[:offset]
	}
	return sib
}

// rebalanceSlices steals entries from j into the deficient node i (spec
// section 4.3 step 4, "Slot rebalance"): if the combined fill fits in one
// node, j is drained entirely (the caller then removes it); otherwise just
// enough entries move to bring i up to minFill. Shared between leaf slot
// rebalancing (T = slot) and inner child rebalancing (T = *node) — the
// move-count arithmetic is identical at every level, so this mirrors
// original_source/src/btree.c's single rebalance_node used for both.
func rebalanceSlices[T any](iSpans []int, iData []T, jSpans []int, jData []T, iOnLeft bool, minFill, b int) ([]int, []T, []int, []T, int) {
	ifill, jfill := len(iSpans), len(jSpans)
	var count int
	if ifill+jfill <= b {
		count = jfill
	} else {
		count = minFill - ifill
	}

	delta := 0
	var newISpans []int
	var newIData []T
	var newJSpans []int
	var newJData []T

	if iOnLeft {
		for c := 0; c < count; c++ {
			delta += jSpans[c]
		}
		newISpans = append(append([]int(nil), iSpans...), jSpans[:count]...)
		newIData = append(append([]T(nil), iData...), jData[:count]...)
		newJSpans = append([]int(nil), jSpans[count:]...)
		newJData = append([]T(nil), jData[count:]...)
	} else {
		for c := 0; c < count; c++ {
			delta += jSpans[jfill-count+c]
		}
		newISpans = append(append([]int(nil), jSpans[jfill-count:]...), iSpans...)
		newIData = append(append([]T(nil), jData[jfill-count:]...), iData...)
		newJSpans = append([]int(nil), jSpans[:jfill-count]...)
		newJData = append([]T(nil), jData[:jfill-count]...)
	}
	return newISpans, newIData, newJSpans, newJData, delta
}

// mergeLeafBoundary absorbs left's last slot into right's first slot when
// both are small (spec section 4.3 step 4, "Leaf-level boundary merge"),
// returning the number of bytes transferred, or 0 if no merge applied.
func mergeLeafBoundary(cfg Config, left, right *node, pushBlock func(*block)) int {
	lfill := len(left.slots)
	if lfill == 0 || len(right.slots) == 0 {
		return 0
	}
	l := left.slots[lfill-1]
	r := right.slots[0]
	if !l.isSmall() || !r.isSmall() {
		return 0
	}
	delta := l.span
	right.slots[0] = insertInto(cfg, r, 0, l.bytes(), pushBlock)
	left.slots = left.slots[:lfill-1]
	return delta
}

// removeChildSlot removes child slot j from an inner node whose sibling j
// was merged away entirely (spec section 4.3 step 4: "If spans[j] becomes
// 0, remove slot j from the current node").
func removeChildSlot(n *node, j int) {
	n.childSpans = append(n.childSpans[:j], n.childSpans[j+1:]...)
	n.children = append(n.children[:j], n.children[j+1:]...)
}
