// Package finance turns entry snapshots into derived figures: amortization,
// aggregate metrics, the health score, multi-year projections, debt
// statistics and repayment strategies.
//
// Every function is a pure transform of its arguments. Nothing here does
// I/O, keeps state between calls or mutates its inputs, so callers can
// recompute on every read.
//
// Degenerate divisions resolve to zero. A payment that never covers the
// accruing interest yields the Never payoff instead of a number.
package finance
