package rbtree

import (
	"math"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var treeSeq atomic.Uint64

// Stats counts the allocation and rebalancing work done by a tree.
type Stats struct {
	Allocs uint64
	Frees  uint64

	Rotations uint64

	// InsertFixups and EraseFixups count fixup loop iterations.
	InsertFixups uint64
	EraseFixups  uint64
}

// Tree is a red-black tree keyed by Key. Nodes are kept in an arena owned by
// the tree and addressed by index; slot 0 is the sentinel.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	id    uint64
	nodes []node
	free  []ref
	root  ref
	size  int

	maxNodes        int
	initialCapacity int
	destroyed       bool

	logger logrus.FieldLogger
	stats  Stats
}

type Option func(t *Tree) error

// WithMaxNodes limits the number of live nodes. Zero means unlimited.
func WithMaxNodes(n int) Option {
	return func(t *Tree) error {
		if n < 0 {
			return errors.Wrapf(ErrInvalidOption, "max nodes %d is negative", n)
		}

		t.maxNodes = n
		return nil
	}
}

// WithInitialCapacity reserves arena slots for n nodes up front.
func WithInitialCapacity(n int) Option {
	return func(t *Tree) error {
		if n < 0 {
			return errors.Wrapf(ErrInvalidOption, "initial capacity %d is negative", n)
		}

		t.initialCapacity = n
		return nil
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(t *Tree) error {
		if logger != nil {
			t.logger = logger
		}
		return nil
	}
}

// New creates an empty tree whose root is the sentinel.
func New(options ...Option) (*Tree, error) {
	t := &Tree{
		id:     treeSeq.Add(1),
		logger: logrus.WithField("component", "rbtree"),
	}

	for _, option := range options {
		if err := option(t); err != nil {
			return nil, err
		}
	}

	if t.maxNodes > 0 && t.initialCapacity > t.maxNodes {
		return nil, errors.Wrapf(ErrAllocation, "initial capacity %d exceeds node limit %d", t.initialCapacity, t.maxNodes)
	}

	if t.initialCapacity >= math.MaxInt32 {
		return nil, errors.Wrapf(ErrAllocation, "initial capacity %d exceeds the arena size", t.initialCapacity)
	}

	t.nodes = make([]node, 1, t.initialCapacity+1)
	t.nodes[nilRef] = node{
		left:   nilRef,
		right:  nilRef,
		parent: nilRef,
		color:  Black,
	}
	t.root = nilRef
	return t, nil
}

// Destroy releases every node in post-order, then the sentinel. The tree
// must not be used afterwards; calling Destroy again is a no-op.
func (t *Tree) Destroy() {
	if t.destroyed {
		return
	}

	released := 0
	t.postorder(t.root, len(t.nodes), func(r ref) {
		t.release(r)
		released++
	})

	t.logger.Debugf("destroyed tree #%d, released %d nodes", t.id, released)

	t.nodes = nil
	t.free = nil
	t.root = nilRef
	t.size = 0
	t.destroyed = true
}

// Len returns the number of keys in the tree.
func (t *Tree) Len() int {
	return t.size
}

func (t *Tree) Stats() Stats {
	return t.stats
}

// newNode takes a slot from the free list or grows the arena. It must be
// called before any *node pointer into the arena is held.
func (t *Tree) newNode(key Key, color Color) (ref, error) {
	if t.maxNodes > 0 && t.size >= t.maxNodes {
		return nilRef, errors.Wrapf(ErrAllocation, "node limit %d reached", t.maxNodes)
	}

	var r ref
	if n := len(t.free); n > 0 {
		r = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		if len(t.nodes) >= math.MaxInt32 {
			return nilRef, errors.Wrap(ErrAllocation, "arena is full")
		}

		t.nodes = append(t.nodes, node{})
		r = ref(len(t.nodes) - 1)
	}

	n := &t.nodes[r]
	n.left = nilRef
	n.right = nilRef
	n.parent = nilRef
	n.key = key
	n.color = color
	n.live = true

	t.stats.Allocs++
	return r, nil
}

// release returns the slot to the free list
func (t *Tree) release(r ref) {
	n := &t.nodes[r]
	*n = node{gen: n.gen + 1}
	t.free = append(t.free, r)
	t.stats.Frees++
}

func (t *Tree) resolve(h Handle) (ref, bool) {
	if h.owner != t.id || h.ref <= nilRef || int(h.ref) >= len(t.nodes) {
		return nilRef, false
	}

	n := &t.nodes[h.ref]
	if !n.live || n.gen != h.gen {
		return nilRef, false
	}

	return h.ref, true
}

func (t *Tree) handleOf(r ref) Handle {
	return Handle{owner: t.id, ref: r, gen: t.nodes[r].gen}
}

func (t *Tree) lookup(r ref) (Handle, bool) {
	if r == nilRef {
		return Handle{}, false
	}

	return t.handleOf(r), true
}

// Contains reports whether h refers to a live node of this tree.
func (t *Tree) Contains(h Handle) bool {
	_, ok := t.resolve(h)
	return ok
}

// Root returns the root node; it reports false on an empty tree.
func (t *Tree) Root() (Handle, bool) {
	return t.lookup(t.root)
}

func (t *Tree) Key(h Handle) (Key, bool) {
	r, ok := t.resolve(h)
	if !ok {
		return 0, false
	}
	return t.nodes[r].key, true
}

func (t *Tree) Color(h Handle) (Color, bool) {
	r, ok := t.resolve(h)
	if !ok {
		return Black, false
	}
	return t.nodes[r].color, true
}

func (t *Tree) Left(h Handle) (Handle, bool) {
	r, ok := t.resolve(h)
	if !ok {
		return Handle{}, false
	}
	return t.lookup(t.nodes[r].left)
}

func (t *Tree) Right(h Handle) (Handle, bool) {
	r, ok := t.resolve(h)
	if !ok {
		return Handle{}, false
	}
	return t.lookup(t.nodes[r].right)
}

func (t *Tree) Parent(h Handle) (Handle, bool) {
	r, ok := t.resolve(h)
	if !ok {
		return Handle{}, false
	}
	return t.lookup(t.nodes[r].parent)
}

// BlackHeight returns the number of black nodes on any path from the root
// down to the sentinel, the sentinel included and the root excluded.
func (t *Tree) BlackHeight() int {
	h := 0
	for r := t.root; r != nilRef; r = t.nodes[r].left {
		if t.nodes[t.nodes[r].left].color == Black {
			h++
		}
	}
	return h
}

// postorder visits the subtree at r children-first with an explicit stack.
// It gives up and returns false after limit visits, which only happens when
// the links contain a cycle.
func (t *Tree) postorder(r ref, limit int, visit func(r ref)) bool {
	type frame struct {
		r        ref
		expanded bool
	}

	if r == nilRef {
		return true
	}

	visited := 0
	stack := []frame{{r: r}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.expanded {
			visit(f.r)
			continue
		}

		visited++
		if visited > limit {
			return false
		}

		n := &t.nodes[f.r]
		stack = append(stack, frame{r: f.r, expanded: true})
		if n.right != nilRef {
			stack = append(stack, frame{r: n.right})
		}
		if n.left != nilRef {
			stack = append(stack, frame{r: n.left})
		}
	}

	return true
}
