package rbtree

// Insert adds key to the tree and returns the handle of the new node.
// Duplicate keys are kept; an equal key descends to the right.
//
// When the node limit is reached Insert returns ErrAllocation and the tree
// is left untouched.
func (t *Tree) Insert(key Key) (Handle, error) {
	if t.destroyed {
		return Handle{}, ErrDestroyed
	}

	// the first node becomes the black root, no fixup needed
	if t.root == nilRef {
		z, err := t.newNode(key, Black)
		if err != nil {
			return Handle{}, err
		}

		t.root = z
		t.size++
		return t.handleOf(z), nil
	}

	z, err := t.newNode(key, Red)
	if err != nil {
		return Handle{}, err
	}

	// newNode may have grown the arena
	nodes := t.nodes

	var y = nilRef
	var x = t.root
	for x != nilRef {
		y = x

		if key < nodes[x].key {
			x = nodes[x].left
		} else {
			x = nodes[x].right
		}
	}

	nodes[z].parent = y
	if key < nodes[y].key {
		nodes[y].left = z
	} else {
		nodes[y].right = z
	}

	t.size++
	t.insertFixup(z)
	return t.handleOf(z), nil
}

func (t *Tree) insertFixup(z ref) {
	nodes := t.nodes

	// A red node can't have a red parent, we need to fix it up
	for nodes[nodes[z].parent].color == Red {
		t.stats.InsertFixups++

		p := nodes[z].parent
		g := nodes[p].parent

		if p == nodes[g].left {
			uncle := nodes[g].right
			if nodes[uncle].color == Red {
				nodes[p].color = Black
				nodes[uncle].color = Black
				nodes[g].color = Red
				z = g
				continue
			}

			// bent shape, straighten it first
			if z == nodes[p].right {
				z = p
				t.rotateLeft(z)
			}

			nodes[nodes[z].parent].color = Black
			g = nodes[nodes[z].parent].parent
			nodes[g].color = Red
			t.rotateRight(g)
		} else {
			uncle := nodes[g].left
			if nodes[uncle].color == Red {
				nodes[p].color = Black
				nodes[uncle].color = Black
				nodes[g].color = Red
				z = g
				continue
			}

			if z == nodes[p].left {
				z = p
				t.rotateRight(z)
			}

			nodes[nodes[z].parent].color = Black
			g = nodes[nodes[z].parent].parent
			nodes[g].color = Red
			t.rotateLeft(g)
		}
	}

	// ensure that root is black
	nodes[t.root].color = Black
}
