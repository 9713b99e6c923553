package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/covidtesting/internal/dataset"
	"github.com/roach88/covidtesting/internal/render"
)

// SeriesOptions holds flags for the series command.
type SeriesOptions struct {
	*RootOptions
	All bool
}

// NewSeriesCommand creates the series command.
func NewSeriesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeriesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "series [STATE...]",
		Short: "Print tests per million for selected states",
		Long: `Print the per-million testing series for the given state codes, in the
order given. Without arguments the configured default states are used.

An unknown state code is an error: nothing is printed and the command exits 1.

Example:
  covidtesting series NY WA
  covidtesting series --all --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeries(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "print every selectable state")

	return cmd
}

func runSeries(opts *SeriesOptions, states []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	_, d, err := loadDashboard(opts.RootOptions, cmd, logger)
	if err != nil {
		return formatter.Fail("failed to load dashboard", err)
	}

	switch {
	case opts.All:
		states = d.States()
	case len(states) == 0:
		states = d.DefaultStates()
	}
	formatter.VerboseLog("Selecting %d state(s): %v", len(states), states)

	series, err := d.Series(states)
	if err != nil {
		return formatter.Fail("failed to select series", err)
	}

	if formatter.Format == "json" {
		if series == nil {
			series = []dataset.Series{}
		}
		return formatter.SuccessWithSnapshot(d.SnapshotID(), series)
	}
	if err := render.WriteSeriesText(series, formatter.Writer); err != nil {
		return WrapExitError(ExitCommandError, "failed to write series", err)
	}
	return nil
}
