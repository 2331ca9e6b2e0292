package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/c9s/rbtree/pkg/scenario"
	"github.com/c9s/rbtree/pkg/style"
)

func init() {
	ScenariosCmd.Flags().String("run", "", "only run scenarios whose name matches the regular expression")
	ScenariosCmd.Flags().Bool("list", false, "list the scenarios without running them")
	RootCmd.AddCommand(ScenariosCmd)
}

// go run ./cmd/rbtree scenarios --run='^delete_'
var ScenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "run the red-black tree conformance scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern, err := cmd.Flags().GetString("run")
		if err != nil {
			return err
		}

		list, err := cmd.Flags().GetBool("list")
		if err != nil {
			return err
		}

		if list {
			for _, s := range scenario.Builtin() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", s.Name, s.Description)
			}
			return nil
		}

		if pattern == "" {
			pattern = userConfig.Scenarios.Run.Pattern()
		}

		env := scenario.NewEnv(log.StandardLogger())
		env.MaxNodes = userConfig.Scenarios.MaxNodes

		runner := scenario.NewRunner(env)
		if err := runner.SetFilter(pattern); err != nil {
			return err
		}

		report := runner.Run(context.Background(), scenario.Builtin())

		tableStyle := style.NewPlainTableStyle()
		if colorEnabled() {
			tableStyle = style.NewDefaultTableStyle()
		}
		report.Print(cmd.OutOrStdout(), tableStyle, colorEnabled())

		if report.Total == 0 {
			return errors.Errorf("no scenario matches %q", pattern)
		}

		if report.Passed != report.Total {
			return errors.Wrapf(report.Err(), "%d of %d scenarios failed", report.Total-report.Passed, report.Total)
		}

		return nil
	},
}
