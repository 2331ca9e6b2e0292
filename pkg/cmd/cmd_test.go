package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/rbtree/pkg/cmd/cmdutil"
	"github.com/c9s/rbtree/pkg/metrics"
	"github.com/c9s/rbtree/pkg/stress"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs(args)
	defer RootCmd.SetArgs(nil)

	err := RootCmd.Execute()
	return buf.String(), err
}

func TestScenariosCmd(t *testing.T) {
	out, err := execute(t, "scenarios", "--no-color", "--run", "^(inorder_sorted|delete_cases)$")
	require.NoError(t, err)
	assert.Contains(t, out, "inorder_sorted")
	assert.Contains(t, out, "delete_cases")
	assert.NotContains(t, out, "insert_one")
	assert.Contains(t, out, "Summary: 2/2 tests passed.")
}

func TestScenariosCmd_NoMatch(t *testing.T) {
	_, err := execute(t, "scenarios", "--no-color", "--run", "^nothing$")
	assert.Error(t, err)
}

func TestDumpCmd(t *testing.T) {
	out, err := execute(t, "dump", "--no-color", "10", "5", "20", "3", "7", "15", "30", "--erase", "3,5,10")
	require.NoError(t, err)
	assert.Contains(t, out, "└── 15(B)")
	assert.Contains(t, out, "keys: [7 15 20 30]")
	assert.Contains(t, out, "black height: 2")
}

func TestDumpCmd_InvalidKey(t *testing.T) {
	_, err := execute(t, "dump", "--no-color", "x")
	assert.Error(t, err)
}

func newStressViper(t *testing.T, args ...string) *viper.Viper {
	t.Helper()

	flags := pflag.NewFlagSet("stress", pflag.ContinueOnError)
	cmdutil.StressFlags(flags)
	require.NoError(t, flags.Parse(args))

	v := viper.New()
	require.NoError(t, v.BindPFlags(flags))
	v.SetEnvPrefix("rbtree")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func TestStressConfigFromViper(t *testing.T) {
	v := newStressViper(t, "--workers=3", "--erase-ratio=0.25", "--seed=11")

	conf, err := stressConfigFromViper(v, stress.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, conf.Workers)
	assert.Equal(t, 0.25, conf.EraseRatio)
	assert.Equal(t, int64(11), conf.Seed)

	// flags that are not given keep the config value
	assert.Equal(t, stress.DefaultConfig().Operations, conf.Operations)

	_, err = stressConfigFromViper(newStressViper(t, "--workers=0"), stress.DefaultConfig())
	assert.Error(t, err)
}

func TestStressConfigFromViper_Env(t *testing.T) {
	t.Setenv("RBTREE_OPS", "1234")
	t.Setenv("RBTREE_KEY_RANGE", "64")
	t.Setenv("RBTREE_WORKERS", "5")

	// a flag wins over its environment variable
	v := newStressViper(t, "--workers=2")

	conf, err := stressConfigFromViper(v, stress.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1234, conf.Operations)
	assert.Equal(t, int64(64), conf.KeyRange)
	assert.Equal(t, 2, conf.Workers)
	assert.Equal(t, stress.DefaultConfig().Seed, conf.Seed)
}

func TestMetricsObserver_Failures(t *testing.T) {
	observer := &metricsObserver{}
	before := testutil.ToFloat64(metrics.StressFailuresMetrics)

	observer.OnWorkerDone(stress.WorkerResult{Worker: 0}, nil)
	observer.OnWorkerDone(stress.WorkerResult{Worker: 1}, context.Canceled)
	observer.OnWorkerDone(stress.WorkerResult{Worker: 2}, errors.Wrap(context.Canceled, "worker 2 step 256"))
	assert.Equal(t, before, testutil.ToFloat64(metrics.StressFailuresMetrics))

	observer.OnWorkerDone(stress.WorkerResult{Worker: 3}, errors.New("invariant violation"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StressFailuresMetrics))
}

func TestStressCmd(t *testing.T) {
	out, err := execute(t, "stress", "--no-color", "--no-progress", "--workers=2", "--ops=2000", "--key-range=128", "--verify-every=200")
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(out), "total")
}
