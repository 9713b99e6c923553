// Package ingest loads the two inputs of the pipeline: the per-state testing
// feed and the state population table.
//
// The testing feed is a long-form CSV (one row per date and state). LoadTesting
// fetches it, checks that the date, state and totalTestResults columns exist,
// converts each record to a dataset.Observation, and pivots the records into a
// wide dataset.Table through an in-memory store.
//
// The population table is a small local CSV with State_Code and 2019 Estimate
// columns. LoadPopulation turns it into a dataset.PopulationTable.
//
// Both loaders fail fast. Errors from LoadTesting are ingestion errors and
// errors from LoadPopulation are config errors; neither substitutes default
// data.
package ingest
