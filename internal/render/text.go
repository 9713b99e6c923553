package render

import (
	"fmt"
	"io"

	"github.com/roach88/covidtesting/internal/dataset"
)

// WriteSeriesText lists each series as a header line followed by one
// "date value" line per point.
func WriteSeriesText(series []dataset.Series, w io.Writer) error {
	for i, s := range series {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s (%d points)\n", s.State, len(s.Points)); err != nil {
			return err
		}
		for _, p := range s.Points {
			if _, err := fmt.Fprintf(w, "  %s %12.2f\n", dataset.FormatDate(p.Date), p.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
