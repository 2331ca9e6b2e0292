package cmd

import (
	"os"
	"strings"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/c9s/rbtree/pkg/cmd/cmdutil"
	"github.com/c9s/rbtree/pkg/config"
)

const defaultConfigFile = "rbtree.yaml"

// userConfig is loaded before any sub-command runs
var userConfig = config.Default()

var RootCmd = &cobra.Command{
	Use:   "rbtree",
	Short: "red-black tree conformance and stress tool",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile := viper.GetString("config")
		if configFile == "" {
			if _, err := os.Stat(defaultConfigFile); err == nil {
				configFile = defaultConfigFile
			}
		}

		if configFile != "" {
			conf, err := config.Load(configFile)
			if err != nil {
				return err
			}

			userConfig = conf
			log.Debugf("config loaded from %s", configFile)
		}

		setupLogging(userConfig.Logging)
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	cmdutil.PersistentFlags(RootCmd.PersistentFlags())

	// Once the flags are defined, we can bind config keys with flags.
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		log.WithError(err).Errorf("failed to bind persistent flags. please check the flag settings.")
	}
}

func setupLogging(conf config.LoggingConfig) {
	log.SetFormatter(&prefixed.TextFormatter{})

	logger := log.StandardLogger()
	if viper.GetBool("debug") {
		logger.SetLevel(log.DebugLevel)
	}

	environment := os.Getenv("RBTREE_ENV")
	switch environment {
	case "production", "prod":
		writer := &lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    conf.MaxSize,
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAge,
		}

		logger.AddHook(
			lfshook.NewHook(
				lfshook.WriterMap{
					log.DebugLevel: writer,
					log.InfoLevel:  writer,
					log.WarnLevel:  writer,
					log.ErrorLevel: writer,
					log.FatalLevel: writer,
				},
				&log.JSONFormatter{},
			),
		)
	}
}

func colorEnabled() bool {
	return !viper.GetBool("no-color")
}

func Execute() {
	viper.SetEnvPrefix("rbtree")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Enable environment variable binding, the env vars are not overloaded yet.
	viper.AutomaticEnv()

	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Fatalf("cannot execute command")
	}
}
