package dataset

import (
	"fmt"
	"sort"
)

// PopulationTable maps a state code to its population estimate.
// Every entry is positive; the constructor enforces it.
type PopulationTable struct {
	pop map[string]int64
}

// NewPopulationTable validates and copies m. Codes are normalized with
// NormalizeCode; an empty code, a duplicate after normalization, or a
// population <= 0 fails with a config error.
func NewPopulationTable(m map[string]int64) (PopulationTable, error) {
	pop := make(map[string]int64, len(m))
	for raw, n := range m {
		code := NormalizeCode(raw)
		if code == "" {
			return PopulationTable{}, NewConfigError("", "empty state code in population table", nil)
		}
		if n <= 0 {
			return PopulationTable{}, NewConfigError("", fmt.Sprintf("population for %s must be positive, got %d", code, n), nil)
		}
		if _, dup := pop[code]; dup {
			return PopulationTable{}, NewConfigError("", fmt.Sprintf("duplicate state code %s in population table", code), nil)
		}
		pop[code] = n
	}
	return PopulationTable{pop: pop}, nil
}

// Lookup returns the population for code.
func (p PopulationTable) Lookup(code string) (int64, bool) {
	n, ok := p.pop[code]
	return n, ok
}

// Codes returns the state codes in sorted order.
func (p PopulationTable) Codes() []string {
	out := make([]string, 0, len(p.pop))
	for c := range p.pop {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of entries.
func (p PopulationTable) Len() int {
	return len(p.pop)
}
