// Package store provides the SQLite staging area used to pivot the testing
// feed from long form to wide form.
//
// Ingestion inserts one row per CSV record into the observations table and
// reads the wide table back with a single grouped query:
//
//	SELECT date, state, AVG(total) FROM observations
//	WHERE total IS NOT NULL
//	GROUP BY date, state
//	ORDER BY date, state
//
// This gives pivot-table semantics: duplicate (date, state) records are
// averaged, missing totals are ignored, and dates or states with no value at
// all never become rows or columns.
//
// # Database Configuration
//
//   - Usually opened at ":memory:" for the lifetime of one ingestion
//   - Single connection, so an in-memory database is not lost between calls
//   - WAL mode and busy_timeout apply when a file path is used
//
// Dates are stored as YYYY-MM-DD text so byte order equals calendar order.
package store
