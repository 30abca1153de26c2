package rope

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckInvariantsDetectsSpanMismatch(t *testing.T) {
	// B 2 makes one-slot leaves legal, so the span mismatch is the only fault
	cfg := Config{HighWater: 64, B: 2}
	leafA := newLeaf()
	leafA.slots = append(leafA.slots, newSmallSlot(cfg, []byte("ab")))
	leafB := newLeaf()
	leafB.slots = append(leafB.slots, newSmallSlot(cfg, []byte("cd")))

	root := newInner()
	root.childSpans = []int{2, 99} // wrong: leafB actually sums to 2
	root.children = []*node{leafA, leafB}

	r := &Rope{cfg: cfg, root: root}
	err := r.CheckInvariants()
	require.Error(t, err)
}

func TestCheckInvariantsDetectsAdjacentSmallSlots(t *testing.T) {
	cfg := Config{HighWater: 64, B: 4}
	leaf := newLeaf()
	leaf.slots = append(leaf.slots, newSmallSlot(cfg, []byte("ab")), newSmallSlot(cfg, []byte("cd")))

	r := &Rope{cfg: cfg, root: leaf}
	err := r.CheckInvariants()
	require.Error(t, err)
}

func TestCheckInvariantsAcceptsWellFormedTree(t *testing.T) {
	r := New(smallConfig())
	content := "a reasonably long string to force more than one leaf to exist in the tree"
	for i := 0; i < len(content); i++ {
		r.Insert(i, []byte{content[i]})
	}
	require.NoError(t, r.CheckInvariants())
}
