// Package dataset defines the tabular types shared by the testing pipeline.
//
// A Table is a wide time series: one row per calendar day, one column per
// state code, each cell a Value that is either a number or missing. The raw
// testing counts and the per-capita rates share this shape.
//
// # Invariants
//
//   - Dates are unique and ascending, always at 00:00 UTC
//   - Columns are unique and sorted by byte order
//   - A missing cell is never coerced to zero
//   - PopulationTable holds positive populations only
//
// Tables are built once and then only read. Nothing in this package guards
// concurrent writers because the pipeline has none after startup.
package dataset
