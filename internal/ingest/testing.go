package ingest

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/roach88/covidtesting/internal/dataset"
	"github.com/roach88/covidtesting/internal/store"
)

// Column names of the testing feed.
const (
	ColDate  = "date"
	ColState = "state"
	ColTotal = "totalTestResults"
)

// LoadTesting fetches the testing feed at locator and pivots it into a wide
// table of cumulative test counts, one column per state.
func LoadTesting(ctx context.Context, locator string, opts Options) (*dataset.Table, error) {
	rc, err := Open(ctx, locator, opts)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	obs, err := ParseObservations(rc, locator)
	if err != nil {
		return nil, err
	}

	tbl, err := Pivot(ctx, obs)
	if err != nil {
		return nil, dataset.NewIngestionError(locator, "pivot testing feed", err)
	}
	return tbl, nil
}

// Pivot reshapes long-form observations into a wide table using an
// in-memory staging store.
func Pivot(ctx context.Context, obs []dataset.Observation) (*dataset.Table, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if err := st.Stage(ctx, obs); err != nil {
		return nil, err
	}
	return st.Pivot(ctx)
}

// ParseObservations reads the long-form testing CSV. Columns other than
// date, state and totalTestResults are ignored. source names the input in
// errors.
func ParseObservations(r io.Reader, source string) ([]dataset.Observation, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, dataset.NewIngestionError(source, "read testing CSV", df.Err)
	}

	if missing := missingColumns(df.Names(), ColDate, ColState, ColTotal); len(missing) > 0 {
		return nil, dataset.NewIngestionError(source,
			fmt.Sprintf("testing feed missing required column(s) %s", strings.Join(missing, ", ")), nil)
	}
	if df.Nrow() == 0 {
		return nil, dataset.NewIngestionError(source, "testing feed has no rows", nil)
	}

	dates := df.Col(ColDate).Records()
	states := df.Col(ColState).Records()
	totals := df.Col(ColTotal).Records()

	obs := make([]dataset.Observation, 0, len(dates))
	for i := range dates {
		// Row numbers in errors are 1-based and count the header line.
		line := i + 2

		d, err := dataset.ParseCompactDate(dates[i])
		if err != nil {
			return nil, dataset.NewIngestionError(source, fmt.Sprintf("line %d", line), err)
		}

		state := dataset.NormalizeCode(states[i])
		if state == "" || isNaN(states[i]) {
			return nil, dataset.NewIngestionError(source, fmt.Sprintf("line %d: empty state", line), nil)
		}

		total, err := parseTotal(totals[i])
		if err != nil {
			return nil, dataset.NewIngestionError(source, fmt.Sprintf("line %d", line), err)
		}

		obs = append(obs, dataset.Observation{Date: d, State: state, Total: total})
	}
	return obs, nil
}

func parseTotal(s string) (dataset.Value, error) {
	s = strings.TrimSpace(s)
	if s == "" || isNaN(s) {
		return dataset.Missing, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return dataset.Missing, fmt.Errorf("%s %q: not a number", ColTotal, s)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) || v < 0 {
		return dataset.Missing, fmt.Errorf("%s %q: want a non-negative count", ColTotal, s)
	}
	return dataset.Some(v), nil
}

// isNaN matches the markers gota uses for empty or NA string cells.
func isNaN(s string) bool {
	switch strings.TrimSpace(s) {
	case "NaN", "NA", "<nil>":
		return true
	}
	return false
}

func missingColumns(have []string, want ...string) []string {
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, w := range want {
		if !set[w] {
			missing = append(missing, w)
		}
	}
	return missing
}
