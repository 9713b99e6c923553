package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/roach88/covidtesting/internal/dataset"
)

// WriteCSV writes a wide table: a date column followed by one column per
// state. Missing cells are empty; values carry four decimals.
func WriteCSV(tbl *dataset.Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	cols := tbl.Columns()

	if err := cw.Write(append([]string{"date"}, cols...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(cols)+1)
	for _, d := range tbl.Dates() {
		record[0] = dataset.FormatDate(d)
		for i, c := range cols {
			v := tbl.Cell(d, c)
			if v.Valid {
				record[i+1] = strconv.FormatFloat(v.V, 'f', 4, 64)
			} else {
				record[i+1] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write %s: %w", record[0], err)
		}
	}

	cw.Flush()
	return cw.Error()
}
