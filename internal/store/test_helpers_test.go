package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/covidtesting/internal/dataset"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// obs builds an observation from an ISO date; total < 0 means missing.
func obs(date, state string, total float64) dataset.Observation {
	d, err := dataset.ParseISODate(date)
	if err != nil {
		panic(err)
	}
	o := dataset.Observation{Date: d, State: state}
	if total >= 0 {
		o.Total = dataset.Some(total)
	}
	return o
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dataset.ParseISODate(s)
	if err != nil {
		t.Fatalf("ParseISODate(%q): %v", s, err)
	}
	return d
}
