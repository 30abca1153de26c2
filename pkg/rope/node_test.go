package rope

import (
	"bytes"
	"testing"
)

func TestSlotInsertPromotesAtHighWater(t *testing.T) {
	cfg := Config{HighWater: 4, B: 4}
	var pushed []*block
	push := func(b *block) { pushed = append(pushed, b) }

	s := newSmallSlot(cfg, []byte("ab"))
	if !s.isSmall() {
		t.Fatalf("newSmallSlot: want small slot")
	}

	s = insertInto(cfg, s, 2, []byte("cd"), push)
	if !s.isSmall() {
		t.Fatalf("insertInto at HighWater: want still small, got large")
	}
	if got := string(s.bytes()); got != "abcd" {
		t.Fatalf("insertInto: got %q, want %q", got, "abcd")
	}

	s = insertInto(cfg, s, 4, []byte("ef"), push)
	if s.isSmall() {
		t.Fatalf("insertInto past HighWater: want promoted to large")
	}
	if got := string(s.bytes()); got != "abcdef" {
		t.Fatalf("insertInto: got %q, want %q", got, "abcdef")
	}
	if len(pushed) != 1 {
		t.Fatalf("pushBlock calls: got %d, want 1", len(pushed))
	}
}

func TestMergeSlicesCombinesAdjacentSmallSlots(t *testing.T) {
	cfg := Config{HighWater: 64, B: 4}
	push := func(*block) {}

	window := []slot{
		newSmallSlot(cfg, []byte("a")),
		newSmallSlot(cfg, []byte("b")),
		newSmallSlot(cfg, []byte("c")),
	}
	merged := mergeSlices(cfg, push, window)
	if len(merged) != 1 {
		t.Fatalf("mergeSlices: got %d slots, want 1", len(merged))
	}
	if got := string(merged[0].bytes()); got != "abc" {
		t.Fatalf("mergeSlices: got %q, want %q", got, "abc")
	}
}

func TestMergeSlicesSkipsLargeSlots(t *testing.T) {
	cfg := Config{HighWater: 2, B: 4}
	blk := newHeapBlock([]byte("xxxxxxxxxx"))
	window := []slot{
		newSmallSlot(cfg, []byte("a")),
		newLargeSlot(blk, 0, 10),
		newSmallSlot(cfg, []byte("b")),
	}
	merged := mergeSlices(cfg, func(*block) {}, window)
	if len(merged) != 3 {
		t.Fatalf("mergeSlices around a large slot: got %d slots, want 3", len(merged))
	}
}

func TestSplitNodeDividesLeafSlots(t *testing.T) {
	cfg := Config{HighWater: 64, B: 4}
	leaf := newLeaf()
	for _, ch := range []string{"a", "b", "c", "d"} {
		leaf.slots = append(leaf.slots, newSmallSlot(cfg, []byte(ch)))
	}
	sib := splitNode(leaf, 2)
	if len(leaf.slots) != 2 || len(sib.slots) != 2 {
		t.Fatalf("splitNode: got %d/%d slots, want 2/2", len(leaf.slots), len(sib.slots))
	}
	if got := string(leaf.slots[0].bytes()) + string(leaf.slots[1].bytes()); got != "ab" {
		t.Fatalf("splitNode left half: got %q, want %q", got, "ab")
	}
	if got := string(sib.slots[0].bytes()) + string(sib.slots[1].bytes()); got != "cd" {
		t.Fatalf("splitNode right half: got %q, want %q", got, "cd")
	}
}

func TestEnsureEditableClonesWhenShared(t *testing.T) {
	cfg := Config{HighWater: 64, B: 4}
	leaf := newLeaf()
	leaf.slots = append(leaf.slots, newSmallSlot(cfg, []byte("shared")))
	leaf.acquire() // simulate a second owner, e.g. from Clone

	ptr := leaf
	ensureEditable(cfg, &ptr)
	if ptr == leaf {
		t.Fatalf("ensureEditable: want a clone when refc > 1")
	}
	if got := string(ptr.slots[0].bytes()); got != "shared" {
		t.Fatalf("ensureEditable clone: got %q, want %q", got, "shared")
	}

	ptr2 := leaf
	ensureEditable(cfg, &ptr2)
	if ptr2 != leaf {
		t.Fatalf("ensureEditable: want no clone when already unique")
	}
}

func TestFindOffsetResolvesBoundaryToEarlierSlot(t *testing.T) {
	cfg := Config{HighWater: 64, B: 4}
	leaf := newLeaf()
	leaf.slots = append(leaf.slots, newSmallSlot(cfg, []byte("ab")), newSmallSlot(cfg, []byte("cd")))

	i, off := findOffset(leaf, 2)
	if i != 0 || off != 2 {
		t.Fatalf("findOffset(2): got (%d, %d), want (0, 2)", i, off)
	}

	i, off = findOffset(leaf, 3)
	if i != 1 || off != 1 {
		t.Fatalf("findOffset(3): got (%d, %d), want (1, 1)", i, off)
	}
}

func TestSliceBytesRoundTrip(t *testing.T) {
	blk := newHeapBlock([]byte("hello world"))
	s := newLargeSlot(blk, 6, 5)
	if !bytes.Equal(s.bytes(), []byte("world")) {
		t.Fatalf("large slot bytes: got %q, want %q", s.bytes(), "world")
	}
}
