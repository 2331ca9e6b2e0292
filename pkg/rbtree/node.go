package rbtree

// Key is the ordered scalar stored in every tree node.
type Key int64

// Color is the RB Tree color
type Color bool

const (
	Red   = Color(false)
	Black = Color(true)
)

func (c Color) String() string {
	if c == Red {
		return "R"
	}
	return "B"
}

// ref is an arena index. The zero ref is the sentinel of the owning tree.
type ref int32

const nilRef ref = 0

/*
node
A red node always has black children.
A black node may have red or black children
*/
type node struct {
	left, right, parent ref
	key                 Key
	color               Color

	// gen is bumped every time the slot is released, so handles issued
	// for an earlier occupant stop resolving.
	gen  uint32
	live bool
}

// Handle refers to a node owned by a Tree. The zero Handle is never valid.
type Handle struct {
	owner uint64
	ref   ref
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.ref == nilRef
}
