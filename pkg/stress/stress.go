package stress

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/c9s/rbtree/pkg/rbtree"
)

var log = logrus.WithField("component", "stress")

type Config struct {
	Workers     int     `json:"workers" yaml:"workers"`
	Operations  int     `json:"operations" yaml:"operations"`
	KeyRange    int64   `json:"keyRange" yaml:"keyRange"`
	EraseRatio  float64 `json:"eraseRatio" yaml:"eraseRatio"`
	VerifyEvery int     `json:"verifyEvery" yaml:"verifyEvery"`
	Seed        int64   `json:"seed" yaml:"seed"`

	// MaxNodes caps every worker tree, inserts beyond it are expected to
	// fail without touching the tree.
	MaxNodes int `json:"maxNodes" yaml:"maxNodes"`
}

func DefaultConfig() Config {
	return Config{
		Workers:     4,
		Operations:  100_000,
		KeyRange:    10_000,
		EraseRatio:  0.4,
		VerifyEvery: 1_000,
		Seed:        1,
	}
}

func (c Config) Validate() error {
	if c.Workers <= 0 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}

	if c.Operations < 0 {
		return errors.Errorf("operations must not be negative, got %d", c.Operations)
	}

	if c.KeyRange <= 0 {
		return errors.Errorf("key range must be positive, got %d", c.KeyRange)
	}

	if c.EraseRatio < 0 || c.EraseRatio > 1 {
		return errors.Errorf("erase ratio must be within [0, 1], got %f", c.EraseRatio)
	}

	if c.VerifyEvery < 0 {
		return errors.Errorf("verify interval must not be negative, got %d", c.VerifyEvery)
	}

	if c.MaxNodes < 0 {
		return errors.Errorf("max nodes must not be negative, got %d", c.MaxNodes)
	}

	return nil
}

// Observer is notified from worker goroutines, implementations must be safe
// for concurrent use.
type Observer interface {
	OnOperation(worker int)
	OnWorkerDone(result WorkerResult, err error)
}

type WorkerResult struct {
	Worker        int
	Inserts       int
	Erases        int
	Rejected      int
	Verifications int
	Live          int
	Stats         rbtree.Stats
	Duration      time.Duration
}

type Report struct {
	RunID    string
	Config   Config
	Workers  []WorkerResult
	Duration time.Duration
}

func (r *Report) Totals() (total WorkerResult) {
	for _, w := range r.Workers {
		total.Inserts += w.Inserts
		total.Erases += w.Erases
		total.Rejected += w.Rejected
		total.Verifications += w.Verifications
		total.Live += w.Live
		total.Stats.Allocs += w.Stats.Allocs
		total.Stats.Frees += w.Stats.Frees
		total.Stats.Rotations += w.Stats.Rotations
		total.Stats.InsertFixups += w.Stats.InsertFixups
		total.Stats.EraseFixups += w.Stats.EraseFixups
	}
	return total
}

type nopObserver struct{}

func (nopObserver) OnOperation(int)                  {}
func (nopObserver) OnWorkerDone(WorkerResult, error) {}

// Run drives one independent tree per worker with random inserts and erases
// and checks each tree against a sorted reference model.
func Run(ctx context.Context, config Config, observer Observer) (*Report, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if observer == nil {
		observer = nopObserver{}
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Config:  config,
		Workers: make([]WorkerResult, config.Workers),
	}

	logger := log.WithField("run", report.RunID)
	logger.Infof("starting %d workers, %d operations each", config.Workers, config.Operations)

	start := time.Now()
	eg, workerCtx := errgroup.WithContext(ctx)
	for i := 0; i < config.Workers; i++ {
		w := &worker{
			id:       i,
			config:   config,
			rnd:      rand.New(rand.NewSource(config.Seed + int64(i))),
			observer: observer,
			logger:   logger.WithField("worker", i),
		}

		eg.Go(func() error {
			result, err := w.run(workerCtx)
			report.Workers[w.id] = result
			observer.OnWorkerDone(result, err)
			return err
		})
	}

	err := eg.Wait()
	report.Duration = time.Since(start)
	if err != nil {
		return report, err
	}

	logger.Infof("run finished in %s", report.Duration)
	return report, nil
}

type worker struct {
	id       int
	config   Config
	rnd      *rand.Rand
	observer Observer
	logger   logrus.FieldLogger

	tree  *rbtree.Tree
	model []rbtree.Key
}

func (w *worker) run(ctx context.Context) (result WorkerResult, err error) {
	result.Worker = w.id
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
	}()

	var options = []rbtree.Option{rbtree.WithLogger(w.logger)}
	if w.config.MaxNodes > 0 {
		options = append(options, rbtree.WithMaxNodes(w.config.MaxNodes))
	}

	w.tree, err = rbtree.New(options...)
	if err != nil {
		return result, err
	}

	defer func() {
		result.Live = w.tree.Len()
		result.Stats = w.tree.Stats()
		w.tree.Destroy()
	}()

	for step := 0; step < w.config.Operations; step++ {
		if step%256 == 0 {
			if err := ctx.Err(); err != nil {
				return result, err
			}
		}

		if len(w.model) > 0 && w.rnd.Float64() < w.config.EraseRatio {
			if err := w.erase(); err != nil {
				return result, errors.Wrapf(err, "worker %d step %d", w.id, step)
			}
			result.Erases++
		} else {
			inserted, err := w.insert()
			if err != nil {
				return result, errors.Wrapf(err, "worker %d step %d", w.id, step)
			}

			if inserted {
				result.Inserts++
			} else {
				result.Rejected++
			}
		}

		w.observer.OnOperation(w.id)

		if w.config.VerifyEvery > 0 && (step+1)%w.config.VerifyEvery == 0 {
			if err := w.verify(); err != nil {
				return result, errors.Wrapf(err, "worker %d step %d", w.id, step)
			}
			result.Verifications++
		}
	}

	if err := w.verify(); err != nil {
		return result, errors.Wrapf(err, "worker %d final check", w.id)
	}
	result.Verifications++
	return result, nil
}

func (w *worker) insert() (bool, error) {
	k := rbtree.Key(w.rnd.Int63n(w.config.KeyRange))

	if _, err := w.tree.Insert(k); err != nil {
		if errors.Is(err, rbtree.ErrAllocation) {
			if w.tree.Len() != len(w.model) {
				return false, errors.Errorf("failed insert changed the tree size to %d, want %d", w.tree.Len(), len(w.model))
			}
			return false, nil
		}
		return false, err
	}

	// duplicates go after their equals, like the tree does
	i := sort.Search(len(w.model), func(i int) bool { return w.model[i] > k })
	w.model = append(w.model, 0)
	copy(w.model[i+1:], w.model[i:])
	w.model[i] = k
	return true, nil
}

func (w *worker) erase() error {
	k := w.model[w.rnd.Intn(len(w.model))]

	h, ok := w.tree.Find(k)
	if !ok {
		return errors.Errorf("key %d is in the model but not in the tree", k)
	}

	if err := w.tree.Erase(h); err != nil {
		return err
	}

	i := sort.Search(len(w.model), func(i int) bool { return w.model[i] >= k })
	w.model = append(w.model[:i], w.model[i+1:]...)
	return nil
}

func (w *worker) verify() error {
	if err := w.tree.Verify(); err != nil {
		return errors.Wrap(err, "invariant violation")
	}

	keys := w.tree.Keys()
	if len(keys) != len(w.model) {
		return errors.Errorf("tree holds %d keys, model holds %d", len(keys), len(w.model))
	}

	for i := range keys {
		if keys[i] != w.model[i] {
			return errors.Errorf("key mismatch at %d: tree has %d, model has %d", i, keys[i], w.model[i])
		}
	}

	return nil
}
