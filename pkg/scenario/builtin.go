package scenario

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/c9s/rbtree/pkg/rbtree"
)

// Builtin returns the fixed conformance scenarios in run order.
func Builtin() []Scenario {
	return []Scenario{
		{Name: "new_tree_basic", Description: "a new tree is empty with a black sentinel root", Run: newTreeBasic},
		{Name: "insert_one", Description: "the first key becomes a black root without children", Run: insertOne},
		{Name: "inorder_sorted", Description: "{7,5,10,3,6,8,12} exports as [3,5,6,7,8,10,12]", Run: inorderSorted},
		{Name: "root_black", Description: "the root stays black after inserts", Run: rootBlack},
		{Name: "left_chain_rotates", Description: "7,5,3 rotates into 5 with children 3 and 7", Run: leftChainRotates},
		{Name: "erase_by_degree", Description: "erase a leaf, a one-child node and a two-child node", Run: eraseByDegree},
		{Name: "delete_cases", Description: "erase 3, 5 and 10 from {10,5,20,3,7,15,30}", Run: deleteCases},
		{Name: "empty_queries", Description: "find, min and max report not found on an empty tree", Run: emptyQueries},
		{Name: "duplicates_preserved", Description: "duplicate keys are kept in insertion order", Run: duplicatesPreserved},
		{Name: "export_truncates", Description: "a short export buffer truncates with an error", Run: exportTruncates},
		{Name: "invalid_handle_rejected", Description: "stale, zero and foreign handles are rejected", Run: invalidHandleRejected},
		{Name: "allocation_failure_atomic", Description: "a failed insert leaves the tree unchanged", Run: allocationFailureAtomic},
		{Name: "destroy_releases_all", Description: "destroy releases every allocated node", Run: destroyReleasesAll},
		{Name: "random_invariants", Description: "random inserts and erases keep every invariant", Run: randomInvariants},
	}
}

func newTreeBasic(env *Env) error {
	tree, err := env.NewTree()
	if err != nil {
		return err
	}
	defer tree.Destroy()

	_, hasRoot := tree.Root()
	return multierr.Combine(
		expect(!hasRoot, "new tree should not have a root"),
		expect(tree.Len() == 0, "new tree should be empty, got %d keys", tree.Len()),
		tree.Verify(),
	)
}

func insertOne(env *Env) error {
	tree, err := env.NewTree()
	if err != nil {
		return err
	}
	defer tree.Destroy()

	h, err := tree.Insert(7)
	if err != nil {
		return err
	}

	root, ok := tree.Root()
	_, hasLeft := tree.Left(h)
	_, hasRight := tree.Right(h)
	_, hasParent := tree.Parent(h)

	return multierr.Combine(
		expect(ok && root == h, "inserted node should be the root"),
		expectNode(tree, "root", root, ok, 7, rbtree.Black),
		expect(!hasLeft && !hasRight, "root should not have children"),
		expect(!hasParent, "root should not have a parent"),
	)
}

func inorderSorted(env *Env) error {
	tree, err := env.NewTree(7, 5, 10, 3, 6, 8, 12)
	if err != nil {
		return err
	}
	defer tree.Destroy()

	_, hasRoot := tree.Root()
	return multierr.Combine(
		expect(hasRoot, "tree should have a root"),
		expectKeys(tree, 3, 5, 6, 7, 8, 10, 12),
		tree.Verify(),
	)
}

func rootBlack(env *Env) error {
	tree, err := env.NewTree(10, 5, 20, 1, 7, 15, 30)
	if err != nil {
		return err
	}
	defer tree.Destroy()

	root, ok := tree.Root()
	c, _ := tree.Color(root)
	return expect(ok && c == rbtree.Black, "root should be black")
}

func leftChainRotates(env *Env) error {
	tree, err := env.NewTree(7, 5, 3)
	if err != nil {
		return err
	}
	defer tree.Destroy()

	root, ok := tree.Root()
	left, hasLeft := tree.Left(root)
	right, hasRight := tree.Right(root)

	return multierr.Combine(
		expectNode(tree, "root", root, ok, 5, rbtree.Black),
		expectNode(tree, "left child", left, hasLeft, 3, rbtree.Red),
		expectNode(tree, "right child", right, hasRight, 7, rbtree.Red),
		expectKeys(tree, 3, 5, 7),
	)
}

// pickByDegree returns the first node in key order with the given number of
// children.
func pickByDegree(tree *rbtree.Tree, degree int) (rbtree.Handle, bool) {
	var found rbtree.Handle
	var ok bool

	tree.Inorder(func(h rbtree.Handle, _ rbtree.Key) bool {
		c := 0
		if _, has := tree.Left(h); has {
			c++
		}
		if _, has := tree.Right(h); has {
			c++
		}

		if c == degree {
			found, ok = h, true
			return false
		}
		return true
	})

	return found, ok
}

func eraseByDegree(env *Env) error {
	keys := []rbtree.Key{20, 10, 30, 5, 15, 25, 35, 3, 7, 13, 17, 23, 27, 33, 37}
	tree, err := env.NewTree(keys...)
	if err != nil {
		return err
	}
	defer tree.Destroy()

	var erased []rbtree.Key
	erase := func(h rbtree.Handle) error {
		k, _ := tree.Key(h)
		if err := tree.Erase(h); err != nil {
			return err
		}
		erased = append(erased, k)

		out := tree.Keys()
		for _, e := range erased {
			i := sort.Search(len(out), func(i int) bool { return out[i] >= e })
			if i < len(out) && out[i] == e {
				return errors.Errorf("erased key %d is still exported", e)
			}
		}

		return multierr.Combine(
			expect(len(out) == len(keys)-len(erased), "want %d keys, got %d", len(keys)-len(erased), len(out)),
			expectSorted(out),
			tree.Verify(),
		)
	}

	leaf, ok := pickByDegree(tree, 0)
	if !ok {
		return errors.New("no leaf node found")
	}
	if err := erase(leaf); err != nil {
		return errors.Wrap(err, "leaf")
	}

	// the shape may not have a one-child node
	if one, ok := pickByDegree(tree, 1); ok {
		if err := erase(one); err != nil {
			return errors.Wrap(err, "one child")
		}
	} else {
		env.Logger.Infof("erase_by_degree: no one-child node in the current shape, skipped")
	}

	two, ok := pickByDegree(tree, 2)
	if !ok {
		return errors.New("no two-child node found")
	}

	return errors.Wrap(erase(two), "two children")
}

func deleteCases(env *Env) error {
	tree, err := env.NewTree(10, 5, 20, 3, 7, 15, 30)
	if err != nil {
		return err
	}
	defer tree.Destroy()

	steps := []struct {
		key  rbtree.Key
		want []rbtree.Key
	}{
		{key: 3, want: []rbtree.Key{5, 7, 10, 15, 20, 30}},
		{key: 5, want: []rbtree.Key{7, 10, 15, 20, 30}},
		{key: 10, want: []rbtree.Key{7, 15, 20, 30}},
	}

	for _, step := range steps {
		if err := eraseKey(tree, step.key); err != nil {
			return err
		}

		if err := multierr.Combine(expectKeys(tree, step.want...), tree.Verify()); err != nil {
			return errors.Wrapf(err, "after erasing %d", step.key)
		}
	}

	root, ok := tree.Root()
	k, _ := tree.Key(root)
	return expect(ok && k == 15, "successor 15 should become the root, got %d", k)
}

func emptyQueries(env *Env) error {
	tree, err := env.NewTree()
	if err != nil {
		return err
	}
	defer tree.Destroy()

	_, found := tree.Find(1)
	_, hasMin := tree.Min()
	_, hasMax := tree.Max()

	return multierr.Combine(
		expect(!found, "find should report not found"),
		expect(!hasMin, "min should report not found"),
		expect(!hasMax, "max should report not found"),
	)
}

func duplicatesPreserved(env *Env) error {
	tree, err := env.NewTree()
	if err != nil {
		return err
	}
	defer tree.Destroy()

	var dups []rbtree.Handle
	for _, k := range []rbtree.Key{4, 2, 4, 6, 4} {
		h, err := tree.Insert(k)
		if err != nil {
			return err
		}
		if k == 4 {
			dups = append(dups, h)
		}
	}

	var order []rbtree.Handle
	tree.Inorder(func(h rbtree.Handle, k rbtree.Key) bool {
		if k == 4 {
			order = append(order, h)
		}
		return true
	})

	sameOrder := len(order) == len(dups)
	for i := 0; sameOrder && i < len(order); i++ {
		sameOrder = order[i] == dups[i]
	}

	return multierr.Combine(
		expectKeys(tree, 2, 4, 4, 4, 6),
		expect(sameOrder, "equal keys should keep their insertion order"),
		tree.Verify(),
	)
}

func exportTruncates(env *Env) error {
	tree, err := env.NewTree(5, 1, 4, 2, 3)
	if err != nil {
		return err
	}
	defer tree.Destroy()

	keys, err := tree.ToSortedSequence(2)
	if !errors.Is(err, rbtree.ErrTruncated) {
		return errors.Errorf("want ErrTruncated, got %v", err)
	}

	full, err := tree.ToSortedSequence(5)
	return multierr.Combine(
		expect(len(keys) == 2 && keys[0] == 1 && keys[1] == 2, "want [1 2], got %v", keys),
		err,
		expect(len(full) == 5, "want 5 keys, got %v", full),
	)
}

func invalidHandleRejected(env *Env) error {
	tree, err := env.NewTree(1, 2, 3)
	if err != nil {
		return err
	}
	defer tree.Destroy()

	other, err := env.NewTree(1, 2, 3)
	if err != nil {
		return err
	}
	defer other.Destroy()

	h, err := findKey(tree, 2)
	if err != nil {
		return err
	}

	if err := tree.Erase(h); err != nil {
		return err
	}

	foreign, _ := other.Find(3)
	return multierr.Combine(
		expect(errors.Is(tree.Erase(h), rbtree.ErrInvalidHandle), "a stale handle should be rejected"),
		expect(errors.Is(tree.Erase(rbtree.Handle{}), rbtree.ErrInvalidHandle), "the zero handle should be rejected"),
		expect(errors.Is(tree.Erase(foreign), rbtree.ErrInvalidHandle), "a handle of another tree should be rejected"),
		expectKeys(tree, 1, 3),
		expectKeys(other, 1, 2, 3),
	)
}

func allocationFailureAtomic(env *Env) error {
	limited := *env
	limited.MaxNodes = 4

	tree, err := limited.NewTree(40, 20, 60, 10)
	if err != nil {
		return err
	}
	defer tree.Destroy()

	before := tree.Stats()
	_, err = tree.Insert(5)

	return multierr.Combine(
		expect(errors.Is(err, rbtree.ErrAllocation), "want ErrAllocation, got %v", err),
		expect(tree.Stats() == before, "a failed insert should not allocate or rotate"),
		expectKeys(tree, 10, 20, 40, 60),
		tree.Verify(),
	)
}

func destroyReleasesAll(env *Env) error {
	tree, err := env.NewTree(8, 4, 12, 2, 6, 10, 14, 1, 3)
	if err != nil {
		return err
	}

	if err := eraseKey(tree, 4); err != nil {
		return err
	}

	tree.Destroy()
	stats := tree.Stats()

	_, insertErr := tree.Insert(1)
	return multierr.Combine(
		expect(stats.Allocs == stats.Frees, "allocated %d nodes, released %d", stats.Allocs, stats.Frees),
		expect(tree.Len() == 0, "destroyed tree should be empty"),
		expect(errors.Is(insertErr, rbtree.ErrDestroyed), "insert into a destroyed tree should fail"),
	)
}

func randomInvariants(env *Env) error {
	tree, err := env.NewTree()
	if err != nil {
		return err
	}
	defer tree.Destroy()

	rnd := rand.New(rand.NewSource(20240901))
	inserts, erases := 0, 0

	for step := 0; step < 5000; step++ {
		k := rbtree.Key(rnd.Int63n(512))
		if rnd.Intn(3) == 0 {
			if h, ok := tree.Find(k); ok {
				if err := tree.Erase(h); err != nil {
					return err
				}
				erases++
			}
		} else {
			if _, err := tree.Insert(k); err != nil {
				return err
			}
			inserts++
		}

		if step%250 == 0 {
			if err := tree.Verify(); err != nil {
				return errors.Wrapf(err, "step %d", step)
			}
		}
	}

	keys := tree.Keys()
	return multierr.Combine(
		expect(len(keys) == inserts-erases, "want %d keys, got %d", inserts-erases, len(keys)),
		expectSorted(keys),
		tree.Verify(),
	)
}
