package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/c9s/rbtree/pkg/rbtree"
)

func TestObserveTree(t *testing.T) {
	inserts := testutil.ToFloat64(TreeOperationsMetrics.WithLabelValues("insert"))
	erases := testutil.ToFloat64(TreeOperationsMetrics.WithLabelValues("erase"))
	rotations := testutil.ToFloat64(TreeRotationsMetrics)

	before := rbtree.Stats{Allocs: 10, Frees: 2, Rotations: 3}
	after := rbtree.Stats{Allocs: 15, Frees: 4, Rotations: 7, InsertFixups: 2, EraseFixups: 1}
	ObserveTree("w0", before, after, 9)

	assert.Equal(t, inserts+5, testutil.ToFloat64(TreeOperationsMetrics.WithLabelValues("insert")))
	assert.Equal(t, erases+2, testutil.ToFloat64(TreeOperationsMetrics.WithLabelValues("erase")))
	assert.Equal(t, rotations+4, testutil.ToFloat64(TreeRotationsMetrics))
	assert.Equal(t, float64(9), testutil.ToFloat64(TreeLiveNodesMetrics.WithLabelValues("w0")))
}
