package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/covidtesting/internal/dataset"
	"github.com/roach88/covidtesting/internal/render"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Out string
	SVG bool
}

// RenderResult is the JSON payload of the render command.
type RenderResult struct {
	Path   string   `json:"path"`
	Format string   `json:"format"`
	States []string `json:"states"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render --out FILE [STATE...]",
		Short: "Write the tests-per-million chart to an image file",
		Long: `Render the chart for the given states (default: the configured default
states) as PNG, or SVG when --svg is set or the file name ends in .svg.

Example:
  covidtesting render --out chart.png NY WA CA
  covidtesting render --out chart.svg`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output image path (required)")
	cmd.Flags().BoolVar(&opts.SVG, "svg", false, "write SVG instead of PNG")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runRender(opts *RenderOptions, states []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	_, d, err := loadDashboard(opts.RootOptions, cmd, logger)
	if err != nil {
		return formatter.Fail("failed to load dashboard", err)
	}
	if len(states) == 0 {
		states = d.DefaultStates()
	}

	series, err := d.Series(states)
	if err != nil {
		return formatter.Fail("failed to select series", err)
	}

	format := render.FormatFromPath(opts.Out)
	if opts.SVG {
		format = render.SVG
	}

	if err := writeChart(opts.Out, series, render.ChartOptions{Chart: d.Chart(), Format: format}); err != nil {
		_ = formatter.Error(ErrCodeOutput, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to render chart", err)
	}
	logger.Info("chart written", "path", opts.Out, "format", format, "series", len(series))

	if formatter.Format == "json" {
		return formatter.SuccessWithSnapshot(d.SnapshotID(), RenderResult{
			Path:   opts.Out,
			Format: string(format),
			States: seriesStates(series),
		})
	}
	fmt.Fprintf(formatter.Writer, "Wrote %s chart of %d state(s) to %s\n", format, len(series), opts.Out)
	return nil
}

// writeChart renders into path, removing the file again if rendering fails.
func writeChart(path string, series []dataset.Series, opts render.ChartOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return render.Chart(series, opts, f)
}

func seriesStates(series []dataset.Series) []string {
	out := make([]string, 0, len(series))
	for _, s := range series {
		out = append(out, s.State)
	}
	return out
}
