// Package capgains implements the investment cost-basis and wash-sale engine
// of a personal tax-preparation tool. It maintains per-security tax lots,
// selects lots for sale under the IRS-sanctioned accounting methods (FIFO,
// LIFO, average cost, specific identification), detects wash sales and shifts
// disallowed losses onto replacement lots, classifies realized gains by
// holding period, and aggregates tax-year summaries for capital-gains
// reporting.
//
// The engine is a pure library: every mutating operation is a deterministic,
// side-effect-free function from one Portfolio value to the next. It performs
// no I/O and owns no file format; persistence, form generation, and display
// are the concern of callers such as the `cgt` command-line tool built on
// top of it.
package capgains
