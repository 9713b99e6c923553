package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/covidtesting/internal/dataset"
)

// Stage inserts observations in a single transaction.
// Missing totals are stored as NULL.
func (s *Store) Stage(ctx context.Context, obs []dataset.Observation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin stage: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO observations (date, state, total) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare stage: %w", err)
	}
	defer stmt.Close()

	for i, o := range obs {
		var total sql.NullFloat64
		if o.Total.Valid {
			total = sql.NullFloat64{Float64: o.Total.V, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, dataset.FormatDate(o.Date), o.State, total); err != nil {
			return fmt.Errorf("stage observation %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stage: %w", err)
	}
	return nil
}

// Count returns the number of staged rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM observations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count observations: %w", err)
	}
	return n, nil
}

// Reset removes every staged row.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM observations`); err != nil {
		return fmt.Errorf("reset observations: %w", err)
	}
	return nil
}

type pivotCell struct {
	date  time.Time
	state string
	value float64
}

// Pivot reads the staged observations back as a wide table.
// See the package documentation for the exact semantics.
func (s *Store) Pivot(ctx context.Context) (*dataset.Table, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, state, AVG(total)
		FROM observations
		WHERE total IS NOT NULL
		GROUP BY date, state
		ORDER BY date, state
	`)
	if err != nil {
		return nil, fmt.Errorf("query pivot: %w", err)
	}
	defer rows.Close()

	var (
		cells  []pivotCell
		dates  []time.Time
		states []string
		seen   = make(map[string]bool)
	)
	for rows.Next() {
		var dateText, state string
		var avg float64
		if err := rows.Scan(&dateText, &state, &avg); err != nil {
			return nil, fmt.Errorf("scan pivot row: %w", err)
		}
		d, err := dataset.ParseISODate(dateText)
		if err != nil {
			return nil, fmt.Errorf("parse staged date %q: %w", dateText, err)
		}
		if len(dates) == 0 || !dates[len(dates)-1].Equal(d) {
			dates = append(dates, d)
		}
		if !seen[state] {
			seen[state] = true
			states = append(states, state)
		}
		cells = append(cells, pivotCell{date: d, state: state, value: avg})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pivot rows: %w", err)
	}

	tbl, err := dataset.NewTable(dates, states)
	if err != nil {
		return nil, fmt.Errorf("build pivot table: %w", err)
	}
	for _, c := range cells {
		if err := tbl.Set(c.date, c.state, dataset.Some(c.value)); err != nil {
			return nil, fmt.Errorf("fill pivot table: %w", err)
		}
	}
	return tbl, nil
}
