package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c9s/rbtree/pkg/rbtree"
)

var TreeOperationsMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rbtree_operations_total",
		Help: "tree operations by kind",
	}, []string{"op"})

var TreeRotationsMetrics = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "rbtree_rotations_total",
		Help: "rotations performed while rebalancing",
	})

var TreeFixupsMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rbtree_fixups_total",
		Help: "fixup loop iterations by kind",
	}, []string{"kind"})

var TreeLiveNodesMetrics = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "rbtree_live_nodes",
		Help: "live nodes per stress worker tree",
	}, []string{"worker"})

var StressFailuresMetrics = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "rbtree_stress_failures_total",
		Help: "stress workers that found an invariant violation",
	})

// ObserveTree publishes the work a tree did between two Stats snapshots.
func ObserveTree(worker string, before, after rbtree.Stats, live int) {
	TreeOperationsMetrics.With(prometheus.Labels{"op": "insert"}).Add(float64(after.Allocs - before.Allocs))
	TreeOperationsMetrics.With(prometheus.Labels{"op": "erase"}).Add(float64(after.Frees - before.Frees))
	TreeRotationsMetrics.Add(float64(after.Rotations - before.Rotations))
	TreeFixupsMetrics.With(prometheus.Labels{"kind": "insert"}).Add(float64(after.InsertFixups - before.InsertFixups))
	TreeFixupsMetrics.With(prometheus.Labels{"kind": "erase"}).Add(float64(after.EraseFixups - before.EraseFixups))
	TreeLiveNodesMetrics.With(prometheus.Labels{"worker": worker}).Set(float64(live))
}

func init() {
	prometheus.MustRegister(
		TreeOperationsMetrics,
		TreeRotationsMetrics,
		TreeFixupsMetrics,
		TreeLiveNodesMetrics,
		StressFailuresMetrics,
	)
}
