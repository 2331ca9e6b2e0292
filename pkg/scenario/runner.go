package scenario

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type Result struct {
	Name        string
	Description string
	Err         error
	Duration    time.Duration
}

func (r Result) Passed() bool {
	return r.Err == nil
}

type Report struct {
	Results []Result
	Passed  int
	Total   int
}

// Err combines the failures of the report, nil when every scenario passed.
func (r *Report) Err() (err error) {
	for _, result := range r.Results {
		if result.Err != nil {
			err = multierr.Append(err, errors.Wrap(result.Err, result.Name))
		}
	}
	return err
}

type Runner struct {
	env    *Env
	filter *regexp.Regexp
	logger logrus.FieldLogger
}

func NewRunner(env *Env) *Runner {
	return &Runner{
		env:    env,
		logger: env.Logger.WithField("component", "scenario"),
	}
}

// SetFilter restricts the run to scenarios whose name matches pattern.
func (r *Runner) SetFilter(pattern string) error {
	if pattern == "" {
		r.filter = nil
		return nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return errors.Wrapf(err, "invalid scenario filter %q", pattern)
	}

	r.filter = re
	return nil
}

// Run executes the scenarios in order and stops early when ctx is done.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) *Report {
	report := &Report{}

	for _, s := range scenarios {
		if r.filter != nil && !r.filter.MatchString(s.Name) {
			continue
		}

		if ctx.Err() != nil {
			r.logger.WithError(ctx.Err()).Warn("scenario run canceled")
			break
		}

		r.logger.Debugf("RUN  %s", s.Name)

		start := time.Now()
		err := r.runOne(s)
		result := Result{
			Name:        s.Name,
			Description: s.Description,
			Err:         err,
			Duration:    time.Since(start),
		}

		report.Results = append(report.Results, result)
		report.Total++
		if err == nil {
			report.Passed++
			r.logger.Debugf("PASS %s", s.Name)
		} else {
			r.logger.WithError(err).Errorf("FAIL %s", s.Name)
		}
	}

	return report
}

func (r *Runner) runOne(s Scenario) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("panic: %v", p)
		}
	}()

	return s.Run(r.env)
}
