package dataset

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"time"
)

// Value is a single cell. Valid is false when the source had no number for
// the (date, state) pair.
type Value struct {
	V     float64
	Valid bool
}

// Missing is the zero Value.
var Missing = Value{}

// Some returns a present Value.
func Some(v float64) Value {
	return Value{V: v, Valid: true}
}

// Observation is one long-form row of the testing feed.
type Observation struct {
	Date  time.Time
	State string
	Total Value
}

// Table is a wide time series keyed by date with one column per state.
//
// Cells are stored column-major: cells[c][d] is column c at date d.
type Table struct {
	dates   []time.Time
	dateIdx map[int64]int
	columns []string
	colIdx  map[string]int
	cells   [][]Value
}

// NewTable creates a table with every cell missing.
// Dates are truncated to days, de-duplicated and sorted ascending; columns are
// de-duplicated and sorted. Empty column names are rejected.
func NewTable(dates []time.Time, columns []string) (*Table, error) {
	t := &Table{
		dateIdx: make(map[int64]int, len(dates)),
		colIdx:  make(map[string]int, len(columns)),
	}

	ds := make([]time.Time, 0, len(dates))
	seenDate := make(map[int64]bool, len(dates))
	for _, d := range dates {
		d = Day(d)
		k := dayKey(d)
		if seenDate[k] {
			continue
		}
		seenDate[k] = true
		ds = append(ds, d)
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i].Before(ds[j]) })
	for i, d := range ds {
		t.dateIdx[dayKey(d)] = i
	}
	t.dates = ds

	cs := make([]string, 0, len(columns))
	seenCol := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("empty column name")
		}
		if seenCol[c] {
			continue
		}
		seenCol[c] = true
		cs = append(cs, c)
	}
	sort.Strings(cs)
	for i, c := range cs {
		t.colIdx[c] = i
	}
	t.columns = cs

	t.cells = make([][]Value, len(cs))
	for i := range t.cells {
		t.cells[i] = make([]Value, len(ds))
	}
	return t, nil
}

// Set stores a cell. It is only used while a table is being built.
func (t *Table) Set(date time.Time, column string, v Value) error {
	di, ok := t.dateIdx[dayKey(Day(date))]
	if !ok {
		return fmt.Errorf("date %s not in table", FormatDate(date))
	}
	ci, ok := t.colIdx[column]
	if !ok {
		return fmt.Errorf("column %q not in table", column)
	}
	t.cells[ci][di] = v
	return nil
}

// Dates returns a copy of the row keys in ascending order.
func (t *Table) Dates() []time.Time {
	out := make([]time.Time, len(t.dates))
	copy(out, t.dates)
	return out
}

// Columns returns a copy of the column names in sorted order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of dates.
func (t *Table) Len() int {
	return len(t.dates)
}

// Has reports whether the table has a column for code.
func (t *Table) Has(code string) bool {
	_, ok := t.colIdx[code]
	return ok
}

// Column returns a copy of one column aligned with Dates.
func (t *Table) Column(code string) ([]Value, bool) {
	ci, ok := t.colIdx[code]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(t.cells[ci]))
	copy(out, t.cells[ci])
	return out, true
}

// Cell returns the value at (date, code). Unknown keys read as Missing.
func (t *Table) Cell(date time.Time, code string) Value {
	di, ok := t.dateIdx[dayKey(Day(date))]
	if !ok {
		return Missing
	}
	ci, ok := t.colIdx[code]
	if !ok {
		return Missing
	}
	return t.cells[ci][di]
}

// Span returns the first and last date. ok is false for an empty table.
func (t *Table) Span() (first, last time.Time, ok bool) {
	if len(t.dates) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return t.dates[0], t.dates[len(t.dates)-1], true
}

// Equal reports whether two tables have the same keys and bit-identical
// cells.
func (t *Table) Equal(o *Table) bool {
	return t.Digest() == o.Digest()
}

// Digest returns a hex SHA-256 over the table's keys and cell bits.
func (t *Table) Digest() string {
	h := sha256.New()
	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], uint64(len(t.dates)))
	h.Write(buf[:])
	for _, d := range t.dates {
		h.Write([]byte(FormatDate(d)))
	}

	binary.BigEndian.PutUint64(buf[:], uint64(len(t.columns)))
	h.Write(buf[:])
	for ci, c := range t.columns {
		h.Write([]byte(c))
		h.Write([]byte{0})
		for _, v := range t.cells[ci] {
			if !v.Valid {
				h.Write([]byte{0})
				continue
			}
			h.Write([]byte{1})
			binary.BigEndian.PutUint64(buf[:], math.Float64bits(v.V))
			h.Write(buf[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func dayKey(d time.Time) int64 {
	return d.Unix() / 86400
}
