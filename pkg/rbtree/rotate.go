package rbtree

// rotateLeft
// x is the axes of rotation, y is the node that will be replace x's position.
// we need to:
// 1. move y's left child to the x's right child
// 2. change y's parent to x's parent
// 3. change x's parent to y
func (t *Tree) rotateLeft(x ref) {
	nodes := t.nodes
	y := nodes[x].right
	if x == nilRef || y == nilRef {
		t.logger.Panicf("rotateLeft: node #%d has no right child", x)
	}

	nodes[x].right = nodes[y].left
	if nodes[y].left != nilRef {
		nodes[nodes[y].left].parent = x
	}

	p := nodes[x].parent
	nodes[y].parent = p

	if p == nilRef {
		t.root = y
	} else if x == nodes[p].left {
		nodes[p].left = y
	} else {
		nodes[p].right = y
	}

	nodes[y].left = x
	nodes[x].parent = y
	t.stats.Rotations++
}

// rotateRight is the mirror of rotateLeft, pivoting on y's left child x.
func (t *Tree) rotateRight(y ref) {
	nodes := t.nodes
	x := nodes[y].left
	if y == nilRef || x == nilRef {
		t.logger.Panicf("rotateRight: node #%d has no left child", y)
	}

	nodes[y].left = nodes[x].right
	if nodes[x].right != nilRef {
		nodes[nodes[x].right].parent = y
	}

	p := nodes[y].parent
	nodes[x].parent = p

	if p == nilRef {
		t.root = x
	} else if y == nodes[p].left {
		nodes[p].left = x
	} else {
		nodes[p].right = x
	}

	nodes[x].right = y
	nodes[y].parent = x
	t.stats.Rotations++
}

// transplant replaces the sub-tree rooted at u with the sub-tree rooted at v.
// v's parent is updated even when v is the sentinel, erase-fixup walks up
// from it.
func (t *Tree) transplant(u, v ref) {
	nodes := t.nodes
	p := nodes[u].parent

	if p == nilRef {
		t.root = v
	} else if u == nodes[p].left {
		nodes[p].left = v
	} else {
		nodes[p].right = v
	}

	nodes[v].parent = p
}
