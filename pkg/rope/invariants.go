package rope

import (
	"fmt"
	"sync/atomic"
)

// CheckInvariants walks the whole tree and reports the first violation it
// finds, or nil if none are found. It checks node fill bounds (at least two
// children for an inner root), non-zero slot spans, slot ownership matching
// the span class, no two adjacent small slots, child span sums, and a
// refcount of at least 1 on every node. Ground truth:
// original_source/src/btree.c's check_recurse/st_check_invariants.
func (r *Rope) CheckInvariants() error {
	_, err := checkRecurse(r.cfg, r.root, true)
	return err
}

func checkRecurse(cfg Config, n *node, isRoot bool) (span int, err error) {
	fill := n.fill()

	if refc := atomic.LoadInt32(&n.refc); refc < 1 {
		return 0, fmt.Errorf("rope: node refcount %d below 1", refc)
	}
	if !isRoot {
		minFill := cfg.minFill()
		if fill < minFill {
			return 0, fmt.Errorf("rope: node underflow: fill %d below minimum %d", fill, minFill)
		}
	} else if !n.isLeaf && fill < 2 {
		return 0, fmt.Errorf("rope: inner root underflow: fill %d below 2", fill)
	}
	if fill > cfg.B {
		return 0, fmt.Errorf("rope: node overflow: fill %d exceeds B %d", fill, cfg.B)
	}

	if n.isLeaf {
		total := 0
		for i, s := range n.slots {
			if s.span == 0 {
				return 0, fmt.Errorf("rope: zero-span slot at index %d", i)
			}
			if s.isSmall() != (s.span <= cfg.HighWater) {
				return 0, fmt.Errorf("rope: slot %d span/ownership mismatch", i)
			}
			if i > 0 && n.slots[i-1].isSmall() && s.isSmall() {
				return 0, fmt.Errorf("rope: adjacent small slots at index %d", i)
			}
			total += s.span
		}
		return total, nil
	}

	total := 0
	for i, c := range n.children {
		childSpan, err := checkRecurse(cfg, c, false)
		if err != nil {
			return 0, err
		}
		if childSpan != n.childSpans[i] {
			return 0, fmt.Errorf("rope: child span mismatch at index %d: recorded %d, actual %d", i, n.childSpans[i], childSpan)
		}
		total += childSpan
	}
	return total, nil
}
