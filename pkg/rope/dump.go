package rope

import (
	"fmt"
	"io"

	"github.com/xlab/treeprint"
)

// Dump writes the Rope's full byte content to w in order (spec section 4.8
// "range dump"; ground truth original_source/src/btree.c's st_dump, which
// walks the leaf chain — here walked via the leftmost-descent-then-iterator
// path, since leaves carry no sibling pointers under COW sharing).
func (r *Rope) Dump(w io.Writer) error {
	it := NewIterator(r, 0)
	for {
		chunk := it.Chunk()
		if len(chunk) > 0 {
			if _, err := w.Write(chunk); err != nil {
				return err
			}
		}
		if !it.NextChunk() {
			return nil
		}
	}
}

// Pprint renders the tree structure for debugging; it does not consult
// Debug. It is not a
// literal port of st_pprint's global ring-buffer queue, which has no
// in-process analogue worth keeping; instead it uses treeprint the way
// npillmayer-fp's B+ tree formats its own debug dumps.
func (r *Rope) Pprint() string {
	tree := treeprint.New()
	addNode(tree, r.root)
	return tree.String()
}

func addNode(tree treeprint.Tree, n *node) {
	if n.isLeaf {
		for _, s := range n.slots {
			kind := "small"
			if !s.isSmall() {
				kind = "large"
			}
			tree.AddNode(fmt.Sprintf("slot span=%d (%s)", s.span, kind))
		}
		return
	}
	for i, c := range n.children {
		branch := tree.AddBranch(fmt.Sprintf("child[%d] span=%d", i, n.childSpans[i]))
		addNode(branch, c)
	}
}
