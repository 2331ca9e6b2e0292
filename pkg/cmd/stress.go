package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/c9s/rbtree/pkg/cmd/cmdutil"
	"github.com/c9s/rbtree/pkg/metrics"
	"github.com/c9s/rbtree/pkg/rbtree"
	"github.com/c9s/rbtree/pkg/stress"
	"github.com/c9s/rbtree/pkg/style"
)

func init() {
	cmdutil.StressFlags(StressCmd.Flags())
	StressCmd.Flags().String("metrics-bind", "", "serve prometheus metrics on this address, e.g. :9090")
	StressCmd.Flags().Bool("no-progress", false, "do not show the progress bar")
	RootCmd.AddCommand(StressCmd)

	if err := viper.BindPFlags(StressCmd.Flags()); err != nil {
		log.WithError(err).Errorf("failed to bind stress flags. please check the flag settings.")
	}
}

// go run ./cmd/rbtree stress --workers=8 --ops=200000 --metrics-bind=:9090
var StressCmd = &cobra.Command{
	Use:   "stress",
	Short: "run random inserts and erases against independent trees and verify them",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := stressConfigFromViper(viper.GetViper(), userConfig.Stress)
		if err != nil {
			return err
		}

		metricsBind, err := cmd.Flags().GetString("metrics-bind")
		if err != nil {
			return err
		}

		noProgress, err := cmd.Flags().GetBool("no-progress")
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if metricsBind != "" {
			srv := &http.Server{Addr: metricsBind, Handler: promhttp.Handler()}
			go func() {
				log.Infof("serving metrics on %s", metricsBind)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.WithError(err).Error("metrics server error")
				}
			}()

			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.WithError(err).Error("metrics server shutdown error")
				}
			}()
		}

		observer := &metricsObserver{}
		if !noProgress {
			bar := pb.Full.New(conf.Workers * conf.Operations).SetWriter(os.Stderr).Start()
			observer.bar = bar
			defer bar.Finish()
		}

		report, err := stress.Run(ctx, conf, observer)
		if report != nil {
			printStressReport(cmd, report)
		}

		return err
	},
}

// stressConfigFromViper overrides the config file values with the stress
// flags or their RBTREE_ environment variables, whichever is set.
func stressConfigFromViper(v *viper.Viper, conf stress.Config) (stress.Config, error) {
	if v.IsSet("workers") {
		conf.Workers = v.GetInt("workers")
	}

	if v.IsSet("ops") {
		conf.Operations = v.GetInt("ops")
	}

	if v.IsSet("key-range") {
		conf.KeyRange = v.GetInt64("key-range")
	}

	if v.IsSet("erase-ratio") {
		conf.EraseRatio = v.GetFloat64("erase-ratio")
	}

	if v.IsSet("verify-every") {
		conf.VerifyEvery = v.GetInt("verify-every")
	}

	if v.IsSet("seed") {
		conf.Seed = v.GetInt64("seed")
	}

	if v.IsSet("max-nodes") {
		conf.MaxNodes = v.GetInt("max-nodes")
	}

	return conf, conf.Validate()
}

// metricsObserver forwards stress progress to the progress bar and the
// prometheus collectors.
type metricsObserver struct {
	bar *pb.ProgressBar
}

func (o *metricsObserver) OnOperation(worker int) {
	if o.bar != nil {
		o.bar.Increment()
	}
}

func (o *metricsObserver) OnWorkerDone(result stress.WorkerResult, err error) {
	metrics.ObserveTree(strconv.Itoa(result.Worker), rbtree.Stats{}, result.Stats, result.Live)

	// canceled workers were stopped by a signal or by a failing sibling
	if err != nil && !errors.Is(err, context.Canceled) {
		metrics.StressFailuresMetrics.Inc()
		log.WithError(err).Errorf("worker %d failed", result.Worker)
	}
}

func printStressReport(cmd *cobra.Command, report *stress.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	if colorEnabled() {
		t.SetStyle(*style.NewDefaultTableStyle())
	} else {
		t.SetStyle(*style.NewPlainTableStyle())
	}

	t.SetTitle("run " + report.RunID)
	t.AppendHeader(table.Row{"worker", "inserts", "erases", "rejected", "live", "rotations", "verifications", "duration"})
	for _, w := range report.Workers {
		t.AppendRow(table.Row{w.Worker, w.Inserts, w.Erases, w.Rejected, w.Live, w.Stats.Rotations, w.Verifications, w.Duration.Round(time.Millisecond).String()})
	}

	total := report.Totals()
	t.AppendFooter(table.Row{"total", total.Inserts, total.Erases, total.Rejected, total.Live, total.Stats.Rotations, total.Verifications, report.Duration.Round(time.Millisecond).String()})
	t.Render()
}
