package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/covidtesting/internal/dataset"
	"github.com/roach88/covidtesting/internal/render"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Out string
	Raw bool
}

// ExportResult is the JSON payload of the export command.
type ExportResult struct {
	Path    string `json:"path"`
	Table   string `json:"table"` // "normalized" | "raw"
	Dates   int    `json:"dates"`
	Columns int    `json:"columns"`
	Digest  string `json:"digest"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export --out FILE",
		Short: "Write the wide per-million table as CSV",
		Long: `Write the normalized table (one row per date, one column per state) as
CSV. Missing cells are left empty. With --raw, the pivoted test totals are
written instead.

Example:
  covidtesting export --out per_million.csv
  covidtesting export --raw --out totals.csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output CSV path (required)")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "export raw test totals instead of per-million values")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	_, d, err := loadDashboard(opts.RootOptions, cmd, logger)
	if err != nil {
		return formatter.Fail("failed to load dashboard", err)
	}

	tbl, name := d.Normalized(), "normalized"
	if opts.Raw {
		tbl, name = d.Raw(), "raw"
	}

	if err := writeTable(opts.Out, tbl); err != nil {
		_ = formatter.Error(ErrCodeOutput, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to export table", err)
	}
	logger.Info("table exported", "path", opts.Out, "table", name, "dates", tbl.Len())

	if formatter.Format == "json" {
		return formatter.SuccessWithSnapshot(d.SnapshotID(), ExportResult{
			Path:    opts.Out,
			Table:   name,
			Dates:   tbl.Len(),
			Columns: len(tbl.Columns()),
			Digest:  tbl.Digest(),
		})
	}
	fmt.Fprintf(formatter.Writer, "Wrote %s table (%d dates x %d states) to %s\n",
		name, tbl.Len(), len(tbl.Columns()), opts.Out)
	return nil
}

func writeTable(path string, tbl *dataset.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return render.WriteCSV(tbl, f)
}
