package rbtree

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Verify checks the structure of the tree and returns every violation it
// finds: parent links, key order, root and sentinel colors, red nodes with
// red children, unequal black heights and the node count.
func (t *Tree) Verify() (err error) {
	if t.destroyed {
		return nil
	}

	nodes := t.nodes

	if nodes[nilRef].color != Black {
		err = multierr.Append(err, errors.New("sentinel is not black"))
	}

	if nodes[t.root].color != Black {
		err = multierr.Append(err, errors.Errorf("root node #%d is not black", t.root))
	}

	if t.root != nilRef && nodes[t.root].parent != nilRef {
		err = multierr.Append(err, errors.Errorf("root node #%d has parent #%d", t.root, nodes[t.root].parent))
	}

	// black height of every node, the sentinel stays at 0
	heights := make([]int, len(nodes))
	count := 0

	complete := t.postorder(t.root, len(nodes), func(r ref) {
		count++
		n := &nodes[r]

		if !n.live {
			err = multierr.Append(err, errors.Errorf("node #%d is linked but released", r))
		}

		if n.left != nilRef {
			if nodes[n.left].parent != r {
				err = multierr.Append(err, errors.Errorf("left child #%d of node #%d points to parent #%d", n.left, r, nodes[n.left].parent))
			}
			if nodes[n.left].key > n.key {
				err = multierr.Append(err, errors.Errorf("left child key %d is greater than parent key %d", nodes[n.left].key, n.key))
			}
		}

		if n.right != nilRef {
			if nodes[n.right].parent != r {
				err = multierr.Append(err, errors.Errorf("right child #%d of node #%d points to parent #%d", n.right, r, nodes[n.right].parent))
			}
			if nodes[n.right].key < n.key {
				err = multierr.Append(err, errors.Errorf("right child key %d is less than parent key %d", nodes[n.right].key, n.key))
			}
		}

		if n.color == Red && (nodes[n.left].color == Red || nodes[n.right].color == Red) {
			err = multierr.Append(err, errors.Errorf("red node %d has a red child", n.key))
		}

		lh := heights[n.left]
		if nodes[n.left].color == Black {
			lh++
		}

		rh := heights[n.right]
		if nodes[n.right].color == Black {
			rh++
		}

		if lh != rh {
			err = multierr.Append(err, errors.Errorf("node %d has black height %d on the left and %d on the right", n.key, lh, rh))
		}

		heights[r] = lh
	})

	if !complete {
		return multierr.Append(err, errors.New("tree links contain a cycle"))
	}

	if count != t.size {
		err = multierr.Append(err, errors.Errorf("tree size is %d but %d nodes are reachable", t.size, count))
	}

	var prev *Key
	t.Inorder(func(_ Handle, key Key) bool {
		if prev != nil && key < *prev {
			err = multierr.Append(err, errors.Errorf("in-order traversal is not sorted: %d follows %d", key, *prev))
			return false
		}

		k := key
		prev = &k
		return true
	})

	return err
}
