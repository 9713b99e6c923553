// Package pipeline joins the testing feed with the population table and
// answers selection requests from the front ends.
//
// Build runs the whole batch once:
//
//	testing feed ──► ingest.LoadTesting ──► raw Table ──┐
//	                                                    ├─► Normalize ──► per-million Table
//	population CSV ─► ingest.LoadPopulation ────────────┘
//
// and returns a Dashboard holding the results. A Dashboard is never mutated
// after Build returns, so the HTTP handlers share one without locking.
//
// Normalize and Select are pure functions and can be used on their own.
package pipeline
