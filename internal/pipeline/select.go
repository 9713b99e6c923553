package pipeline

import (
	"github.com/roach88/covidtesting/internal/dataset"
)

// Select returns one series per requested state, in request order.
//
// Codes are normalized first, so "ny" selects NY. A requested code that
// appears twice yields two series. Missing cells are skipped: a state that
// did not report on a date has no point for it.
//
// If any code has no column in norm, Select returns a selection error
// listing all such codes and no series. An empty request returns an empty
// result.
func Select(norm *dataset.Table, states []string) ([]dataset.Series, error) {
	codes := dataset.NormalizeCodes(states)

	var unknown []string
	for i, c := range codes {
		if !norm.Has(c) {
			if c == "" {
				c = states[i]
			}
			unknown = append(unknown, c)
		}
	}
	if len(unknown) > 0 {
		return nil, dataset.NewSelectionError(unknown)
	}

	dates := norm.Dates()
	out := make([]dataset.Series, 0, len(codes))
	for _, c := range codes {
		col, _ := norm.Column(c)
		pts := make([]dataset.Point, 0, len(col))
		for i, v := range col {
			if v.Valid {
				pts = append(pts, dataset.Point{Date: dates[i], Value: v.V})
			}
		}
		out = append(out, dataset.Series{State: c, Points: pts})
	}
	return out, nil
}
