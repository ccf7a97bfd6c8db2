// Package optimize implements the schedule optimization engine. It builds a
// linear program from machine specifications, energy prices and a demand
// forecast, solves it with a simplex backend, validates the raw solution
// against the physical constraints and reports baseline versus optimized
// cost.
package optimize
