package cli

import (
	"github.com/spf13/cobra"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Load the data and describe the normalized table",
		Long: `Load the testing feed and the population table, normalize, and print
the date span, the selectable states, and the states dropped for lack of a
population entry.

Example:
  covidtesting summary
  covidtesting summary --format json --config ./configs/covidtesting.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(rootOpts, cmd)
		},
	}
	return cmd
}

func runSummary(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	logger := newLogger(opts, cmd.ErrOrStderr())

	_, d, err := loadDashboard(opts, cmd, logger)
	if err != nil {
		return formatter.Fail("failed to load dashboard", err)
	}

	s := d.Summary()
	return formatter.SuccessWithSnapshot(s.SnapshotID, s)
}
