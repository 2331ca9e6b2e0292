// Package rbtree implements an ordered container of int64-backed keys on top
// of a red-black tree.
//
// Nodes are stored in a per-tree arena and linked by index, with slot 0 acting
// as the black sentinel that terminates every path. Callers hold Handles,
// which stop resolving once the node they refer to is erased.
package rbtree
