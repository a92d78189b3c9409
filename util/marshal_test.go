package util_test

import (
	"encoding/json"
	"testing"

	"github.com/downfa11-org/boundlog/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want util.LogLevel
	}{
		{"debug", util.LogLevelDebug},
		{" INFO ", util.LogLevelInfo},
		{"warning", util.LogLevelWarn},
		{"warn", util.LogLevelWarn},
		{"error", util.LogLevelError},
		{"verbose", util.LogLevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, util.ParseLogLevel(tt.in), tt.in)
	}
}

func TestLogLevelUnmarshal(t *testing.T) {
	var cfg struct {
		Level util.LogLevel `yaml:"level" json:"level"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("level: error\n"), &cfg))
	assert.Equal(t, util.LogLevelError, cfg.Level)

	require.NoError(t, yaml.Unmarshal([]byte("level: 0\n"), &cfg))
	assert.Equal(t, util.LogLevelDebug, cfg.Level)

	require.NoError(t, json.Unmarshal([]byte(`{"level":"warn"}`), &cfg))
	assert.Equal(t, util.LogLevelWarn, cfg.Level)

	require.NoError(t, json.Unmarshal([]byte(`{"level":1}`), &cfg))
	assert.Equal(t, util.LogLevelInfo, cfg.Level)

	assert.Error(t, json.Unmarshal([]byte(`{"level":[1]}`), &cfg))

	var l util.LogLevel
	require.NoError(t, l.UnmarshalText([]byte("debug")))
	assert.Equal(t, util.LogLevelDebug, l)
	assert.Equal(t, "debug", l.String())
}
