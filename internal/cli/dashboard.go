package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/covidtesting/internal/config"
	"github.com/roach88/covidtesting/internal/pipeline"
)

// newFormatter builds the formatter every command reports through.
// Diagnostics go to stderr so JSON on stdout stays parseable.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newLogger returns a text logger on w, at DEBUG when --verbose is set.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// loadDashboard resolves the configuration and runs the pipeline once.
// Errors come back unwrapped so OutputFormatter.Fail can classify them.
func loadDashboard(opts *RootOptions, cmd *cobra.Command, logger *slog.Logger) (config.Config, *pipeline.Dashboard, error) {
	cfg, err := config.Load(opts.Config, config.LoadOptions{Environ: opts.Environ})
	if err != nil {
		return config.Config{}, nil, err
	}
	logger.Debug("configuration resolved",
		"config", opts.Config,
		"source", cfg.SourceURL,
		"population", cfg.PopulationPath,
		"default_states", cfg.DefaultStates,
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := pipeline.Build(ctx, cfg, pipeline.BuildOptions{
		Logger: logger,
		IDs:    opts.IDs,
		Now:    opts.Now,
	})
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, d, nil
}
