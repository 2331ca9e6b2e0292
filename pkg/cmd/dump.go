package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/c9s/rbtree/pkg/rbtree"
)

func init() {
	DumpCmd.Flags().StringSlice("erase", nil, "keys to erase after inserting, in order")
	RootCmd.AddCommand(DumpCmd)
}

// go run ./cmd/rbtree dump 10 5 20 3 7 15 30 --erase=3,5,10
var DumpCmd = &cobra.Command{
	Use:   "dump KEY...",
	Short: "insert keys into a tree and print its shape",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		erase, err := cmd.Flags().GetStringSlice("erase")
		if err != nil {
			return err
		}

		inserts, err := parseKeys(args)
		if err != nil {
			return err
		}

		erases, err := parseKeys(erase)
		if err != nil {
			return err
		}

		tree, err := rbtree.New(rbtree.WithLogger(log.StandardLogger()))
		if err != nil {
			return err
		}
		defer tree.Destroy()

		for _, k := range inserts {
			if _, err := tree.Insert(k); err != nil {
				return err
			}
		}

		for _, k := range erases {
			h, ok := tree.Find(k)
			if !ok {
				return errors.Errorf("key %d is not in the tree", k)
			}

			if err := tree.Erase(h); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		tree.Fprint(out, colorEnabled())
		fmt.Fprintf(out, "keys: %v\n", tree.Keys())
		fmt.Fprintf(out, "black height: %d\n", tree.BlackHeight())

		stats := tree.Stats()
		log.Debugf("rotations: %d, insert fixups: %d, erase fixups: %d", stats.Rotations, stats.InsertFixups, stats.EraseFixups)

		return tree.Verify()
	},
}

func parseKeys(args []string) ([]rbtree.Key, error) {
	keys := make([]rbtree.Key, 0, len(args))
	for _, arg := range args {
		k, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid key %q", arg)
		}
		keys = append(keys, rbtree.Key(k))
	}
	return keys, nil
}
