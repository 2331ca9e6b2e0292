package stress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	mu         sync.Mutex
	operations map[int]int
	done       []WorkerResult
	errs       []error
}

func (o *countingObserver) OnOperation(worker int) {
	o.mu.Lock()
	o.operations[worker]++
	o.mu.Unlock()
}

func (o *countingObserver) OnWorkerDone(result WorkerResult, err error) {
	o.mu.Lock()
	o.done = append(o.done, result)
	if err != nil {
		o.errs = append(o.errs, err)
	}
	o.mu.Unlock()
}

func TestRun(t *testing.T) {
	config := Config{
		Workers:     4,
		Operations:  5_000,
		KeyRange:    300,
		EraseRatio:  0.45,
		VerifyEvery: 500,
		Seed:        99,
	}

	observer := &countingObserver{operations: map[int]int{}}
	report, err := Run(context.Background(), config, observer)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Len(t, report.Workers, 4)
	assert.Len(t, observer.done, 4)
	assert.Empty(t, observer.errs)

	for w := 0; w < 4; w++ {
		assert.Equal(t, 5_000, observer.operations[w])

		result := report.Workers[w]
		assert.Equal(t, w, result.Worker)
		assert.Equal(t, 5_000, result.Inserts+result.Erases+result.Rejected)
		assert.Equal(t, result.Inserts-result.Erases, result.Live)
		assert.Equal(t, 11, result.Verifications)
		assert.Equal(t, result.Stats.Allocs, uint64(result.Inserts))
	}

	totals := report.Totals()
	assert.Equal(t, 20_000, totals.Inserts+totals.Erases)
}

func TestRun_NodeLimit(t *testing.T) {
	config := Config{
		Workers:     2,
		Operations:  3_000,
		KeyRange:    1_000,
		EraseRatio:  0.1,
		VerifyEvery: 100,
		Seed:        5,
		MaxNodes:    64,
	}

	report, err := Run(context.Background(), config, nil)
	require.NoError(t, err)

	for _, result := range report.Workers {
		assert.LessOrEqual(t, result.Live, 64)
		assert.Greater(t, result.Rejected, 0, "inserts beyond the node limit should be rejected")
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := DefaultConfig()
	_, err := Run(ctx, config, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"operations", func(c *Config) { c.Operations = -1 }},
		{"key range", func(c *Config) { c.KeyRange = 0 }},
		{"erase ratio", func(c *Config) { c.EraseRatio = 1.5 }},
		{"verify every", func(c *Config) { c.VerifyEvery = -1 }},
		{"max nodes", func(c *Config) { c.MaxNodes = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			assert.Error(t, c.Validate())
		})
	}
}
