package rbtree

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	redNode   = color.New(color.FgHiRed, color.Bold)
	blackNode = color.New(color.FgHiWhite)
)

// Fprint writes the tree as a sideways graph, right sub-trees first.
func (t *Tree) Fprint(w io.Writer, colored bool) {
	if t.root == nilRef {
		fmt.Fprintln(w, "<empty>")
		return
	}

	t.fprintSubTree(w, t.root, "", true, colored)
}

func (t *Tree) fprintSubTree(w io.Writer, r ref, prefix string, isTail bool, colored bool) {
	if r == nilRef {
		return
	}

	n := &t.nodes[r]
	label := fmt.Sprintf("%d(%s)", n.key, n.color)
	if colored {
		if n.color == Red {
			label = redNode.Sprint(label)
		} else {
			label = blackNode.Sprint(label)
		}
	}

	fmt.Fprintf(w, "%s%s── %s\n", prefix, getBranch(isTail), label)

	newPrefix := prefix + getIndent(isTail)
	if n.left != nilRef || n.right != nilRef {
		if n.right != nilRef {
			t.fprintSubTree(w, n.right, newPrefix, n.left == nilRef, colored)
		}
		t.fprintSubTree(w, n.left, newPrefix, true, colored)
	}
}

func getBranch(isTail bool) string {
	if isTail {
		return "└"
	}
	return "├"
}

func getIndent(isTail bool) string {
	if isTail {
		return "   "
	}
	return "│  "
}
