package ingest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/roach88/covidtesting/internal/dataset"
)

// Column names of the population file.
const (
	ColStateCode  = "State_Code"
	ColPopulation = "2019 Estimate"
)

// LoadPopulation reads the population table from a local CSV file.
func LoadPopulation(path string) (dataset.PopulationTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.PopulationTable{}, dataset.NewConfigError(path, "open population table", err)
	}
	defer f.Close()
	return ParsePopulation(f, path)
}

// ParsePopulation reads State_Code and 2019 Estimate columns into a
// PopulationTable. Rows with a blank code (national or regional totals) are
// skipped. Thousands separators are accepted.
func ParsePopulation(r io.Reader, source string) (dataset.PopulationTable, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataset.PopulationTable{}, dataset.NewConfigError(source, "read population CSV", df.Err)
	}
	if missing := missingColumns(df.Names(), ColStateCode, ColPopulation); len(missing) > 0 {
		return dataset.PopulationTable{}, dataset.NewConfigError(source,
			fmt.Sprintf("population table missing required column(s) %s", strings.Join(missing, ", ")), nil)
	}

	df = df.Rename("code", ColStateCode).Rename("population", ColPopulation)
	if df.Err != nil {
		return dataset.PopulationTable{}, dataset.NewConfigError(source, "rename population columns", df.Err)
	}

	codes := df.Col("code").Records()
	pops := df.Col("population").Records()

	m := make(map[string]int64, len(codes))
	for i := range codes {
		line := i + 2
		code := dataset.NormalizeCode(codes[i])
		if code == "" || isNaN(codes[i]) {
			continue
		}
		if _, dup := m[code]; dup {
			return dataset.PopulationTable{}, dataset.NewConfigError(source,
				fmt.Sprintf("line %d: duplicate state code %s", line, code), nil)
		}
		n, err := parsePopulation(pops[i])
		if err != nil {
			return dataset.PopulationTable{}, dataset.NewConfigError(source,
				fmt.Sprintf("line %d: %s", line, code), err)
		}
		m[code] = n
	}

	pop, err := dataset.NewPopulationTable(m)
	if err != nil {
		var e *dataset.Error
		if errors.As(err, &e) {
			e.Source = source
		}
		return dataset.PopulationTable{}, err
	}
	if pop.Len() == 0 {
		return dataset.PopulationTable{}, dataset.NewConfigError(source, "population table is empty", nil)
	}
	return pop, nil
}

func parsePopulation(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || isNaN(s) {
		return 0, fmt.Errorf("population is empty")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, fmt.Errorf("population %q is not a whole number", s)
	}
	return int64(f), nil
}
