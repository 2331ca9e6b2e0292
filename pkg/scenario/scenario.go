package scenario

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/c9s/rbtree/pkg/rbtree"
)

// Scenario is a named conformance check run against freshly built trees.
type Scenario struct {
	Name        string
	Description string
	Run         func(env *Env) error
}

// Env carries what scenarios need to build trees.
type Env struct {
	Logger logrus.FieldLogger

	// MaxNodes is passed to every tree the scenario builds, 0 means unlimited.
	MaxNodes int
}

func NewEnv(logger logrus.FieldLogger) *Env {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Env{Logger: logger}
}

// NewTree builds a tree and inserts keys in the given order.
func (e *Env) NewTree(keys ...rbtree.Key) (*rbtree.Tree, error) {
	var options = []rbtree.Option{rbtree.WithLogger(e.Logger)}
	if e.MaxNodes > 0 {
		options = append(options, rbtree.WithMaxNodes(e.MaxNodes))
	}

	tree, err := rbtree.New(options...)
	if err != nil {
		return nil, errors.Wrap(err, "can not create tree")
	}

	for _, k := range keys {
		if _, err := tree.Insert(k); err != nil {
			tree.Destroy()
			return nil, errors.Wrapf(err, "can not insert key %d", k)
		}
	}

	return tree, nil
}

func expect(cond bool, format string, args ...interface{}) error {
	if cond {
		return nil
	}

	return errors.Errorf(format, args...)
}

func expectKeys(tree *rbtree.Tree, want ...rbtree.Key) error {
	got := tree.Keys()
	return expect(fmt.Sprint(got) == fmt.Sprint(want), "in-order keys: want %v, got %v", want, got)
}

func expectSorted(keys []rbtree.Key) error {
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			return errors.Errorf("in-order keys are not sorted at %d: %v", i, keys)
		}
	}
	return nil
}

// expectNode checks the key and color of the node at h.
func expectNode(tree *rbtree.Tree, name string, h rbtree.Handle, ok bool, key rbtree.Key, color rbtree.Color) error {
	if !ok {
		return errors.Errorf("%s: want key %d, node is absent", name, key)
	}

	k, _ := tree.Key(h)
	c, _ := tree.Color(h)
	if k != key || c != color {
		return errors.Errorf("%s: want %d(%s), got %d(%s)", name, key, color, k, c)
	}

	return nil
}

func findKey(tree *rbtree.Tree, key rbtree.Key) (rbtree.Handle, error) {
	h, ok := tree.Find(key)
	if !ok {
		return h, errors.Errorf("key %d not found", key)
	}
	return h, nil
}

func eraseKey(tree *rbtree.Tree, key rbtree.Key) error {
	h, err := findKey(tree, key)
	if err != nil {
		return err
	}

	return errors.Wrapf(tree.Erase(h), "erase key %d", key)
}
