package rbtree

import "github.com/pkg/errors"

var (
	// ErrAllocation is returned when a node can not be allocated, either
	// because the tree reached its node limit or the arena is exhausted.
	ErrAllocation = errors.New("rbtree: node allocation failed")

	// ErrInvalidHandle is returned by Erase for handles that do not refer to
	// a live node of the tree.
	ErrInvalidHandle = errors.New("rbtree: invalid node handle")

	// ErrTruncated is returned by ToSortedSequence when the tree holds more
	// keys than the requested capacity.
	ErrTruncated = errors.New("rbtree: sorted sequence truncated")

	ErrInvalidOption = errors.New("rbtree: invalid option")

	ErrDestroyed = errors.New("rbtree: tree is destroyed")
)
