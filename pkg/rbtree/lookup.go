package rbtree

// Find returns a node holding key. With duplicate keys, the first one met
// on the way down from the root is returned.
func (t *Tree) Find(key Key) (Handle, bool) {
	nodes := t.nodes
	current := t.root
	for current != nilRef {
		switch k := nodes[current].key; {
		case key < k:
			current = nodes[current].left
		case key > k:
			current = nodes[current].right
		default:
			return t.handleOf(current), true
		}
	}

	return Handle{}, false
}

// Min returns the leftmost node; it reports false on an empty tree.
func (t *Tree) Min() (Handle, bool) {
	return t.lookup(t.leftmostOf(t.root))
}

// Max returns the rightmost node; it reports false on an empty tree.
func (t *Tree) Max() (Handle, bool) {
	return t.lookup(t.rightmostOf(t.root))
}

// Successor returns the node that follows h in key order.
func (t *Tree) Successor(h Handle) (Handle, bool) {
	r, ok := t.resolve(h)
	if !ok {
		return Handle{}, false
	}

	return t.lookup(t.successorOf(r))
}

func (t *Tree) leftmostOf(current ref) ref {
	if current == nilRef {
		return nilRef
	}

	for t.nodes[current].left != nilRef {
		current = t.nodes[current].left
	}

	return current
}

func (t *Tree) rightmostOf(current ref) ref {
	if current == nilRef {
		return nilRef
	}

	for t.nodes[current].right != nilRef {
		current = t.nodes[current].right
	}

	return current
}

func (t *Tree) successorOf(current ref) ref {
	nodes := t.nodes
	if nodes[current].right != nilRef {
		return t.leftmostOf(nodes[current].right)
	}

	// otherwise walk up until we find a node that is a left child of its parent
	var suc = nodes[current].parent
	for suc != nilRef && current == nodes[suc].right {
		current = suc
		suc = nodes[suc].parent
	}

	return suc
}
