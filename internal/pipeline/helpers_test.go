package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/covidtesting/internal/dataset"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dataset.ParseISODate(s)
	require.NoError(t, err)
	return d
}

// cell is one (date, state, value) entry for buildTable.
type cell struct {
	date  string
	state string
	value float64
}

// buildTable creates a table with the given columns over the given dates and
// fills the listed cells; everything else is missing.
func buildTable(t *testing.T, dates, columns []string, cells ...cell) *dataset.Table {
	t.Helper()
	ds := make([]time.Time, len(dates))
	for i, s := range dates {
		ds[i] = day(t, s)
	}
	tbl, err := dataset.NewTable(ds, columns)
	require.NoError(t, err)
	for _, c := range cells {
		require.NoError(t, tbl.Set(day(t, c.date), c.state, dataset.Some(c.value)))
	}
	return tbl
}

// populationMap is a Populations without the positivity check, so tests can
// feed invalid entries to Normalize.
type populationMap map[string]int64

func (m populationMap) Lookup(code string) (int64, bool) {
	n, ok := m[code]
	return n, ok
}

func mustPopulation(t *testing.T, m map[string]int64) dataset.PopulationTable {
	t.Helper()
	pop, err := dataset.NewPopulationTable(m)
	require.NoError(t, err)
	return pop
}
