package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/covidtesting/internal/dataset"
	"github.com/roach88/covidtesting/internal/testutil"
)

// noEnv keeps tests independent of the process environment.
var noEnv = LoadOptions{Environ: map[string]string{}}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := testutil.WriteFile(t, "covidtesting.yaml", `
source_url: file:///data/daily.csv
fetch_timeout: 45s
default_states: [ny, ca]
chart:
  title: Tests per million
`)

	cfg, err := Load(path, noEnv)
	require.NoError(t, err)

	assert.Equal(t, "file:///data/daily.csv", cfg.SourceURL)
	assert.Equal(t, 45*time.Second, cfg.FetchTimeout)
	assert.Equal(t, []string{"NY", "CA"}, cfg.DefaultStates)
	assert.Equal(t, "Tests per million", cfg.Chart.Title)

	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultPopulationPath, cfg.PopulationPath)
	assert.Equal(t, "Date", cfg.Chart.XAxis)
	assert.Equal(t, 1024, cfg.Chart.Width)
}

func TestLoadEmptyFile(t *testing.T) {
	path := testutil.WriteFile(t, "empty.yaml", "")
	cfg, err := Load(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := testutil.WriteFile(t, "covidtesting.yaml", "listen: 127.0.0.1:9000\n")

	cfg, err := Load(path, LoadOptions{Environ: map[string]string{
		"COVIDTESTING_LISTEN":         "0.0.0.0:8080",
		"COVIDTESTING_DEFAULT_STATES": "wa,or",
		"COVIDTESTING_CHART_WIDTH":    "640",
		"COVIDTESTING_FETCH_TIMEOUT":  "5s",
	}})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Listen)
	assert.Equal(t, []string{"WA", "OR"}, cfg.DefaultStates)
	assert.Equal(t, 640, cfg.Chart.Width)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		environ map[string]string
		wantMsg string
	}{
		{name: "unknown field", yaml: "sourceurl: x\n", wantMsg: "decode config file"},
		{name: "bad duration", yaml: "fetch_timeout: soon\n", wantMsg: "decode config file"},
		{name: "bad state code", yaml: "default_states: [NYC]\n", wantMsg: "default_states"},
		{name: "zero timeout", yaml: "fetch_timeout: 0s\n", wantMsg: "fetch_timeout_ms"},
		{name: "tiny chart", yaml: "chart:\n  width: 10\n", wantMsg: "width"},
		{name: "empty title", yaml: "chart:\n  title: \"\"\n", wantMsg: "title"},
		{name: "bad listen", yaml: "listen: localhost\n", wantMsg: "listen"},
		{name: "empty source", yaml: "source_url: \"\"\n", wantMsg: "source_url"},
		{
			name:    "bad env value",
			yaml:    "",
			environ: map[string]string{"COVIDTESTING_CHART_HEIGHT": "tall"},
			wantMsg: "environment overrides",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, "covidtesting.yaml", tt.yaml)
			environ := tt.environ
			if environ == nil {
				environ = map[string]string{}
			}

			_, err := Load(path, LoadOptions{Environ: environ})
			require.Error(t, err)
			assert.True(t, dataset.IsConfigError(err), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/covidtesting.yaml", noEnv)
	require.Error(t, err)
	assert.True(t, dataset.IsConfigError(err))
	assert.Contains(t, err.Error(), "open config file")
}
