package cmdutil

import "github.com/spf13/pflag"

// PersistentFlags defines the flags shared by every command
func PersistentFlags(flags *pflag.FlagSet) {
	flags.Bool("debug", false, "debug flag")
	flags.String("config", "", "config file, rbtree.yaml is used when present")
	flags.Bool("no-color", false, "disable colored output")
}

// StressFlags defines the workload flags, they override the stress section of the config file
func StressFlags(flags *pflag.FlagSet) {
	flags.Int("workers", 0, "number of concurrent worker trees")
	flags.Int("ops", 0, "operations per worker")
	flags.Int64("key-range", 0, "keys are drawn from [0, key-range)")
	flags.Float64("erase-ratio", 0, "probability of an erase when the tree is not empty")
	flags.Int("verify-every", 0, "verify the tree every N operations")
	flags.Int64("seed", 0, "random seed, worker i uses seed+i")
	flags.Int("max-nodes", 0, "node limit per worker tree")
}
