package rbtree

import (
	"github.com/pkg/errors"
)

// Inorder traverses the tree in ascending order. Returning false from cb
// stops the traversal.
func (t *Tree) Inorder(cb func(h Handle, key Key) bool) {
	var stack []ref
	var current = t.root

	for current != nilRef || len(stack) > 0 {
		for current != nilRef {
			stack = append(stack, current)
			current = t.nodes[current].left
		}

		current = stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !cb(t.handleOf(current), t.nodes[current].key) {
			return
		}

		current = t.nodes[current].right
	}
}

// Keys returns all keys in ascending order.
func (t *Tree) Keys() []Key {
	keys := make([]Key, 0, t.size)
	t.Inorder(func(_ Handle, key Key) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// ToSortedSequence returns at most capacity keys in ascending order. If the
// tree holds more keys than that, the first capacity keys are returned
// together with ErrTruncated.
func (t *Tree) ToSortedSequence(capacity int) ([]Key, error) {
	if capacity < 0 {
		return nil, errors.Wrapf(ErrInvalidOption, "capacity %d is negative", capacity)
	}

	size := t.size
	if size > capacity {
		size = capacity
	}

	keys := make([]Key, 0, size)
	truncated := false
	t.Inorder(func(_ Handle, key Key) bool {
		if len(keys) == capacity {
			truncated = true
			return false
		}

		keys = append(keys, key)
		return true
	})

	if truncated {
		return keys, errors.Wrapf(ErrTruncated, "tree holds %d keys, capacity is %d", t.size, capacity)
	}

	return keys, nil
}
