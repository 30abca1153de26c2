package rope

// spansOf extracts the span of each slot, used where a leaf's slots need to
// be treated as a (spans, data) pair the same way an inner node's
// (childSpans, children) pair already is — see rebalanceUnderflow.
func spansOf(slots []slot) []int {
	spans := make([]int, len(slots))
	for i, s := range slots {
		spans[i] = s.span
	}
	return spans
}

// insertAt and deleteAt are the same generic single-slot splice helpers
// pkg/cowbtree/node.go defines for its keys/values/children arrays; reused
// here for leaf slots and inner child arrays alike.
func insertAt[T any](slice []T, pos int, value T) []T {
	var zero T
	slice = append(slice, zero)
	copy(slice[pos+1:], slice[pos:])
	slice[pos] = value
	return slice
}

func deleteAt[T any](slice []T, pos int) []T {
	copy(slice[pos:], slice[pos+1:])
	return slice[:len(slice)-1]
}

// mergeSlices is the five-way merge pass (spec section 4.2): given up to
// five consecutive (span, slot) entries around an edit window, it restores
// the small-small adjacency invariant by concatenating any small slot into
// an immediately preceding small slot, promoting to a block if the sum
// crosses HighWater. Mirrors original_source/src/btree.c's merge_slices
// exactly, including the "advance by 2" skip when a slot is large (a large
// slice never merges with its left neighbour).
func mergeSlices(cfg Config, pushBlock func(*block), window []slot) []slot {
	i := 1
	for i < len(window) {
		if window[i].span > cfg.HighWater {
			i += 2
			continue
		}
		if window[i-1].isSmall() {
			window[i-1] = insertInto(cfg, window[i-1], window[i-1].span, window[i].bytes(), pushBlock)
			window = deleteAt(window, i)
			continue // i unchanged: what was i+1 now sits at i
		}
		i++
	}
	return window
}
