package rbtree

import (
	"github.com/pkg/errors"
)

// Erase removes the node referred to by h. The handle, and only that
// handle, becomes invalid once Erase returns.
func (t *Tree) Erase(h Handle) error {
	if t.destroyed {
		return ErrDestroyed
	}

	z, ok := t.resolve(h)
	if !ok {
		t.logger.Debugf("rejecting erase of handle %+v", h)
		return errors.Wrapf(ErrInvalidHandle, "node #%d is not in tree #%d", h.ref, t.id)
	}

	nodes := t.nodes

	// y is the node that actually leaves its position, x takes its place
	var y = z
	var x ref
	var wasBlack = nodes[y].color == Black

	if nodes[z].left == nilRef {
		x = nodes[z].right
		t.transplant(z, x)
	} else if nodes[z].right == nilRef {
		x = nodes[z].left
		t.transplant(z, x)
	} else {
		// both children are present, splice out the successor instead.
		y = t.leftmostOf(nodes[z].right)
		wasBlack = nodes[y].color == Black
		x = nodes[y].right

		if nodes[y].parent == z {
			// x may be the sentinel, its parent has to point at y for the fixup walk
			nodes[x].parent = y
		} else {
			t.transplant(y, x)
			nodes[y].right = nodes[z].right
			nodes[nodes[y].right].parent = y
		}

		t.transplant(z, y)
		nodes[y].left = nodes[z].left
		nodes[nodes[y].left].parent = y
		nodes[y].color = nodes[z].color
	}

	if wasBlack {
		t.eraseFixup(x)
	}

	nodes[nilRef].parent = nilRef
	nodes[nilRef].color = Black

	t.release(z)
	t.size--
	return nil
}

func (t *Tree) eraseFixup(x ref) {
	nodes := t.nodes

	for x != t.root && nodes[x].color == Black {
		t.stats.EraseFixups++

		p := nodes[x].parent
		if x == nodes[p].left {
			sibling := nodes[p].right
			if nodes[sibling].color == Red {
				nodes[sibling].color = Black
				nodes[p].color = Red
				t.rotateLeft(p)
				sibling = nodes[p].right
			}

			// if both are black nodes
			if nodes[nodes[sibling].left].color == Black && nodes[nodes[sibling].right].color == Black {
				nodes[sibling].color = Red
				x = p
				continue
			}

			// near child red, far child black
			if nodes[nodes[sibling].right].color == Black {
				nodes[nodes[sibling].left].color = Black
				nodes[sibling].color = Red
				t.rotateRight(sibling)
				sibling = nodes[p].right
			}

			nodes[sibling].color = nodes[p].color
			nodes[p].color = Black
			nodes[nodes[sibling].right].color = Black
			t.rotateLeft(p)
			x = t.root
		} else {
			sibling := nodes[p].left
			if nodes[sibling].color == Red {
				nodes[sibling].color = Black
				nodes[p].color = Red
				t.rotateRight(p)
				sibling = nodes[p].left
			}

			if nodes[nodes[sibling].left].color == Black && nodes[nodes[sibling].right].color == Black {
				nodes[sibling].color = Red
				x = p
				continue
			}

			if nodes[nodes[sibling].left].color == Black {
				nodes[nodes[sibling].right].color = Black
				nodes[sibling].color = Red
				t.rotateLeft(sibling)
				sibling = nodes[p].left
			}

			nodes[sibling].color = nodes[p].color
			nodes[p].color = Black
			nodes[nodes[sibling].left].color = Black
			t.rotateRight(p)
			x = t.root
		}
	}

	nodes[x].color = Black
}
