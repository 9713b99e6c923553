package pipeline

import (
	"fmt"

	"github.com/roach88/covidtesting/internal/dataset"
)

// PerMillion is the scale of normalized values.
const PerMillion = 1_000_000

// Result is the output of Normalize.
type Result struct {
	// Series holds tests per million population, one column per state that
	// has a population entry.
	Series *dataset.Table

	// Dropped lists the raw columns without a population entry, sorted.
	Dropped []string
}

// Populations resolves a state code to its population.
// dataset.PopulationTable implements it.
type Populations interface {
	Lookup(code string) (int64, bool)
}

// Normalize rescales every raw column to tests per million population.
//
// Columns absent from pop are dropped and reported in Result.Dropped.
// Missing cells stay missing. A retained column whose population is not
// positive fails with a data error instead of producing Inf or NaN.
func Normalize(raw *dataset.Table, pop Populations) (*Result, error) {
	var kept, dropped []string
	for _, code := range raw.Columns() {
		if _, ok := pop.Lookup(code); ok {
			kept = append(kept, code)
		} else {
			dropped = append(dropped, code)
		}
	}

	out, err := dataset.NewTable(raw.Dates(), kept)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	dates := raw.Dates()
	for _, code := range kept {
		n, _ := pop.Lookup(code)
		if n <= 0 {
			return nil, dataset.NewDataError(fmt.Sprintf("population for %s must be positive, got %d", code, n), code)
		}
		col, _ := raw.Column(code)
		for i, v := range col {
			if !v.Valid {
				continue
			}
			if err := out.Set(dates[i], code, dataset.Some(v.V/float64(n)*PerMillion)); err != nil {
				return nil, fmt.Errorf("normalize %s: %w", code, err)
			}
		}
	}

	if dropped == nil {
		dropped = []string{}
	}
	return &Result{Series: out, Dropped: dropped}, nil
}
