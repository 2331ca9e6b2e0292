package config

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	type args struct {
		configFile string
	}

	tests := []struct {
		name    string
		args    args
		wantErr bool
		f       func(t *testing.T, config *Config)
	}{
		{
			name: "full",
			args: args{configFile: "testdata/rbtree.yaml"},
			f: func(t *testing.T, config *Config) {
				assert.Equal(t, 8, config.Stress.Workers)
				assert.Equal(t, 50000, config.Stress.Operations)
				assert.Equal(t, int64(2048), config.Stress.KeyRange)
				assert.Equal(t, 0.5, config.Stress.EraseRatio)
				assert.Equal(t, 250, config.Stress.VerifyEvery)
				assert.Equal(t, int64(7), config.Stress.Seed)
				assert.Equal(t, NameList{"inorder_sorted", "delete_cases"}, config.Scenarios.Run)
				assert.Equal(t, "/var/log/rbtree/rbtree.log", config.Logging.File)

				// untouched fields keep their defaults
				assert.Equal(t, 7, config.Logging.MaxBackups)
			},
		},
		{
			name: "single scenario name",
			args: args{configFile: "testdata/single.yaml"},
			f: func(t *testing.T, config *Config) {
				assert.Equal(t, NameList{"left_chain_rotates"}, config.Scenarios.Run)
				assert.Equal(t, 64, config.Scenarios.MaxNodes)
				assert.Equal(t, Default().Stress, config.Stress)
			},
		},
		{
			name: "json",
			args: args{configFile: "testdata/rbtree.json"},
			f: func(t *testing.T, config *Config) {
				assert.Equal(t, 2, config.Stress.Workers)
				assert.Equal(t, int64(512), config.Stress.KeyRange)
				assert.Equal(t, NameList{"root_black"}, config.Scenarios.Run)
				assert.Equal(t, Default().Logging, config.Logging)
			},
		},
		{
			name: "json scenario list",
			args: args{configFile: "testdata/list.json"},
			f: func(t *testing.T, config *Config) {
				assert.Equal(t, NameList{"insert_one", "duplicates_preserved"}, config.Scenarios.Run)
			},
		},
		{
			name:    "json with a non-string scenario name",
			args:    args{configFile: "testdata/invalid.json"},
			wantErr: true,
		},
		{
			name:    "invalid stress config",
			args:    args{configFile: "testdata/invalid.yaml"},
			wantErr: true,
		},
		{
			name:    "missing file",
			args:    args{configFile: "testdata/missing.yaml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := Load(tt.args.configFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.f != nil {
				tt.f(t, config)
			}
		})
	}
}

func TestNameList(t *testing.T) {
	var names NameList
	require.NoError(t, json.Unmarshal([]byte(`["a", ["b.c"]]`), &names))
	assert.Equal(t, NameList{"a", "b.c"}, names)

	var single NameList
	require.NoError(t, json.Unmarshal([]byte(`"a"`), &single))
	assert.Equal(t, NameList{"a"}, single)

	var invalid NameList
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &invalid))

	pattern := names.Pattern()
	re := regexp.MustCompile(pattern)
	assert.True(t, re.MatchString("b.c"))
	assert.False(t, re.MatchString("bxc"))
	assert.False(t, re.MatchString("ab"))

	assert.Equal(t, "", NameList{}.Pattern())
}
