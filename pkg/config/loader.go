package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/c9s/rbtree/pkg/stress"
)

type ScenarioConfig struct {
	// Run lists the scenarios to run, all of them when empty.
	Run NameList `json:"run,omitempty" yaml:"run,omitempty"`

	MaxNodes int `json:"maxNodes,omitempty" yaml:"maxNodes,omitempty"`
}

type LoggingConfig struct {
	// File is where production logs are written as JSON.
	File       string `json:"file" yaml:"file"`
	MaxSize    int    `json:"maxSize" yaml:"maxSize"`
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups"`
	MaxAge     int    `json:"maxAge" yaml:"maxAge"`
}

type Config struct {
	Stress    stress.Config  `json:"stress" yaml:"stress"`
	Scenarios ScenarioConfig `json:"scenarios" yaml:"scenarios"`
	Logging   LoggingConfig  `json:"logging" yaml:"logging"`
}

func Default() *Config {
	return &Config{
		Stress: stress.DefaultConfig(),
		Logging: LoggingConfig{
			File:       "log/rbtree.log",
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
	}
}

// Load reads the config file on top of the defaults. Files ending in .json
// are decoded as JSON, everything else as yaml.
func Load(configFile string) (*Config, error) {
	config := Default()

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(configFile), ".json") {
		unmarshal = json.Unmarshal
	}

	if err := unmarshal(content, config); err != nil {
		return nil, errors.Wrapf(err, "can not parse config file %s", configFile)
	}

	if err := config.Stress.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid stress config in %s", configFile)
	}

	if config.Scenarios.MaxNodes < 0 {
		return nil, errors.Errorf("invalid scenarios config in %s: max nodes %d is negative", configFile, config.Scenarios.MaxNodes)
	}

	return config, nil
}
