package scenario

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/rbtree/pkg/style"
)

func newTestEnv() *Env {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return NewEnv(logger)
}

func TestBuiltin_AllPass(t *testing.T) {
	runner := NewRunner(newTestEnv())
	report := runner.Run(context.Background(), Builtin())

	for _, result := range report.Results {
		assert.NoError(t, result.Err, result.Name)
	}

	assert.Equal(t, len(Builtin()), report.Total)
	assert.Equal(t, report.Total, report.Passed)
	assert.NoError(t, report.Err())
}

func TestBuiltin_UniqueNames(t *testing.T) {
	names := map[string]struct{}{}
	for _, s := range Builtin() {
		_, dup := names[s.Name]
		assert.False(t, dup, "duplicated scenario name %s", s.Name)
		names[s.Name] = struct{}{}
		assert.NotEmpty(t, s.Description)
	}
}

func TestRunner_Failures(t *testing.T) {
	scenarios := []Scenario{
		{Name: "ok", Run: func(env *Env) error { return nil }},
		{Name: "failed", Run: func(env *Env) error { return errors.New("boom") }},
		{Name: "panicked", Run: func(env *Env) error { panic("unexpected") }},
	}

	report := NewRunner(newTestEnv()).Run(context.Background(), scenarios)
	require.Len(t, report.Results, 3)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 3, report.Total)

	assert.True(t, report.Results[0].Passed())
	assert.EqualError(t, report.Results[1].Err, "boom")
	assert.Contains(t, report.Results[2].Err.Error(), "panic: unexpected")

	err := report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed: boom")
}

func TestRunner_Filter(t *testing.T) {
	runner := NewRunner(newTestEnv())
	require.NoError(t, runner.SetFilter("^delete_|^insert_"))

	report := runner.Run(context.Background(), Builtin())
	var names []string
	for _, result := range report.Results {
		names = append(names, result.Name)
	}
	assert.Equal(t, []string{"insert_one", "delete_cases"}, names)

	assert.Error(t, runner.SetFilter("("))
}

func TestRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewRunner(newTestEnv()).Run(ctx, Builtin())
	assert.Equal(t, 0, report.Total)
}

func TestReport_Print(t *testing.T) {
	report := &Report{
		Results: []Result{
			{Name: "insert_one"},
			{Name: "delete_cases", Err: errors.New("in-order keys: want [7], got [8]")},
		},
		Passed: 1,
		Total:  2,
	}

	var buf bytes.Buffer
	report.Print(&buf, nil, false)
	assert.Equal(t, "PASS insert_one\nFAIL delete_cases: in-order keys: want [7], got [8]\nSummary: 1/2 tests passed.\n", buf.String())

	buf.Reset()
	report.Print(&buf, style.NewPlainTableStyle(), false)
	out := buf.String()
	assert.Contains(t, out, "insert_one")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "Summary: 1/2 tests passed.")
}
