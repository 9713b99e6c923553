// Package config resolves dashboard settings from defaults, an optional YAML
// file, and COVIDTESTING_* environment variables, then validates the result
// against an embedded CUE schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roach88/covidtesting/internal/dataset"
)

//go:embed schema.cue
var schemaCUE string

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "COVIDTESTING_"

// Built-in defaults.
const (
	DefaultSourceURL      = "https://covidtracking.com/api/v1/states/daily.csv"
	DefaultPopulationPath = "./data/states_population.csv"
	DefaultFetchTimeout   = 30 * time.Second
	DefaultListen         = "127.0.0.1:8050"
)

// Config holds every setting of the pipeline and its front ends.
type Config struct {
	// SourceURL locates the long-form testing CSV (http, https, file, or path).
	SourceURL string `yaml:"source_url" env:"SOURCE_URL"`

	// PopulationPath is the local population CSV.
	PopulationPath string `yaml:"population_path" env:"POPULATION_PATH"`

	// FetchTimeout bounds the remote fetch.
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"FETCH_TIMEOUT"`

	// DefaultStates is the initial selection shown by the dashboard.
	DefaultStates []string `yaml:"default_states" env:"DEFAULT_STATES" envSeparator:","`

	// Listen is the HTTP address for the serve command.
	Listen string `yaml:"listen" env:"LISTEN"`

	Chart Chart `yaml:"chart" envPrefix:"CHART_"`
}

// Chart holds labels and size of rendered charts.
type Chart struct {
	Title  string `yaml:"title" env:"TITLE"`
	XAxis  string `yaml:"x_axis" env:"X_AXIS"`
	YAxis  string `yaml:"y_axis" env:"Y_AXIS"`
	Width  int    `yaml:"width" env:"WIDTH"`
	Height int    `yaml:"height" env:"HEIGHT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SourceURL:      DefaultSourceURL,
		PopulationPath: DefaultPopulationPath,
		FetchTimeout:   DefaultFetchTimeout,
		DefaultStates:  []string{"NY", "WA", "CA", "VA"},
		Listen:         DefaultListen,
		Chart: Chart{
			Title:  "COVID-19 Testing Conducted per Capita",
			XAxis:  "Date",
			YAxis:  "Number of Tests per Million People",
			Width:  1024,
			Height: 576,
		},
	}
}

// LoadOptions controls where Load reads overrides from.
type LoadOptions struct {
	// Environ replaces the process environment when non-nil.
	Environ map[string]string
}

// Load resolves the configuration. path may be empty to skip the file.
// Every failure is a config error.
func Load(path string, opts LoadOptions) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := ParseEnv(&cfg, opts.Environ); err != nil {
		return Config{}, dataset.NewConfigError(path, "environment overrides", err)
	}

	cfg.DefaultStates = dataset.NormalizeCodes(cfg.DefaultStates)

	if err := Validate(cfg); err != nil {
		var e *dataset.Error
		if errors.As(err, &e) && e.Source == "" {
			e.Source = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv overlays COVIDTESTING_* variables onto target. Unset variables
// leave fields untouched.
func ParseEnv(target *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return dataset.NewConfigError(path, "open config file", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return dataset.NewConfigError(path, "decode config file", err)
	}
	return nil
}

// Validate checks cfg against the embedded CUE schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := ctx.Encode(cfg.view())
	if err := v.Err(); err != nil {
		return dataset.NewConfigError("", "encode config", err)
	}

	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return dataset.NewConfigError("", "invalid config", firstCUEError(err))
	}
	return nil
}

// view is the shape the CUE schema constrains. Durations are flattened to
// milliseconds so the schema can bound them numerically.
func (c Config) view() map[string]any {
	states := make([]any, len(c.DefaultStates))
	for i, s := range c.DefaultStates {
		states[i] = s
	}
	return map[string]any{
		"source_url":       c.SourceURL,
		"population_path":  c.PopulationPath,
		"fetch_timeout_ms": c.FetchTimeout.Milliseconds(),
		"default_states":   states,
		"listen":           c.Listen,
		"chart": map[string]any{
			"title":  c.Chart.Title,
			"x_axis": c.Chart.XAxis,
			"y_axis": c.Chart.YAxis,
			"width":  c.Chart.Width,
			"height": c.Chart.Height,
		},
	}
}

// firstCUEError reduces a CUE error list to its first entry, rendered as
// "field.path: message".
func firstCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	format, args := first.Msg()
	msg := fmt.Sprintf(format, args...)
	if path := first.Path(); len(path) > 0 {
		return fmt.Errorf("%s: %s", strings.Join(path, "."), msg)
	}
	return errors.New(msg)
}
