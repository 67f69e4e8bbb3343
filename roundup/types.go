/*
Package roundup implements the round-up micro-investment pipeline.

PURPOSE:
  Given dated expenses, the engine computes each expense's "investable
  remainder" (the gap to the next multiple of 100), screens records
  against structural rules (duplicates, negative amounts) and three
  families of date-range rules, then projects the accumulated
  remainders with compound growth under a named investment profile.

PIPELINE:
  raw expenses
    -> Enrich      (ceiling / remanent per expense, aggregate totals)
    -> Validate    (valid / invalid partition, input order preserved)
    -> Classify    (quiet override, boost addition, window membership)
    -> Project     (compound growth + tax benefit per window)

DESIGN PRINCIPLES:
  1. Value semantics: every stage returns fresh values; nothing is
     shared between requests and nothing outlives a request.
  2. Precision: monetary math uses decimal.Decimal end to end; floats
     appear only at the JSON boundary, after rounding.
  3. Total functions: Enrich and Project never produce per-record
     errors; only Validate and Classify route records to invalid.

KEY CONCEPTS IN THIS FILE (types.go):
  - RawExpense / Transaction: input row and its enriched form
  - QuietPeriod / BoostPeriod / Window: the three rule families,
    sharing the Period date-range shape
  - ValidationResult / FilterResult / ReturnsResult: stage outputs

SEE ALSO:
  - enrich.go: ceiling and remainder computation
  - validate.go: duplicate / negative screening
  - rules.go: temporal rule engine
  - project.go: compound-growth projection
*/
package roundup

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// EXPENSES AND TRANSACTIONS
// =============================================================================

// RawExpense is a single dated expense as received from the client.
// Amount may carry any sign; validity is a downstream concern.
type RawExpense struct {
	Timestamp Timestamp
	Amount    decimal.Decimal
}

// Transaction is an enriched expense.
//
// Invariants (for non-negative amounts):
//   Ceiling  = 100 * ceil(Amount / 100)
//   Remanent = Ceiling - Amount   (>= 0)
//
// A Transaction is created once by Enrich and never mutated; the rule
// engine derives adjusted copies instead of editing in place.
type Transaction struct {
	Date     Timestamp
	Amount   decimal.Decimal
	Ceiling  decimal.Decimal
	Remanent decimal.Decimal
}

// InvalidTransaction is a rejected record plus the reason it was rejected.
type InvalidTransaction struct {
	Transaction Transaction
	Message     string
}

// FilteredTransaction is a surviving transaction tagged with whether it
// falls inside at least one accumulation window.
type FilteredTransaction struct {
	Transaction
	InKPeriod bool
}

// =============================================================================
// RULE FAMILIES - shared date-range shape, different effects
// =============================================================================

// Period is an inclusive [Start, End] date range at timestamp precision.
type Period struct {
	Start Timestamp
	End   Timestamp
}

// Contains returns true if ts lies within [Start, End] inclusive.
func (p Period) Contains(ts Timestamp) bool {
	return ts.AfterOrEqual(p.Start) && ts.BeforeOrEqual(p.End)
}

// Valid reports whether the bounds are ordered.
func (p Period) Valid() bool { return p.Start.BeforeOrEqual(p.End) }

func (p Period) String() string { return "[" + p.Start.String() + ", " + p.End.String() + "]" }

// QuietPeriod overrides the remainder of contained transactions with
// Fixed. A zero Fixed suppresses the transaction entirely.
type QuietPeriod struct {
	Period
	Fixed decimal.Decimal
}

// BoostPeriod adds Extra to the remainder of contained transactions.
// Overlapping boost periods stack: every matching Extra is added.
type BoostPeriod struct {
	Period
	Extra decimal.Decimal
}

// Window is an accumulation window: the remainders of contained,
// surviving transactions are summed and projected. Windows may overlap;
// a transaction contributes independently to every window it falls in.
type Window struct {
	Period
}

// =============================================================================
// STAGE OUTPUTS
// =============================================================================

// ParseResult is the output of Enrich.
type ParseResult struct {
	Transactions  []Transaction
	TotalExpense  decimal.Decimal
	TotalCeiling  decimal.Decimal
	TotalRemanent decimal.Decimal
}

// ValidationResult partitions transactions into valid and invalid,
// both in input order.
type ValidationResult struct {
	Valid   []Transaction
	Invalid []InvalidTransaction
}

// ClassifyResult is the output of the temporal rule engine.
// WindowTotals is index-aligned with the window slice passed to Classify.
type ClassifyResult struct {
	Valid        []FilteredTransaction
	WindowTotals []decimal.Decimal
}

// FilterResult is the filter endpoint's partition: surviving
// transactions (window-tagged, remainders adjusted) and structural
// rejects with messages.
type FilterResult struct {
	Valid   []FilteredTransaction
	Invalid []InvalidTransaction
}

// WindowSavings is one projected accumulation window.
type WindowSavings struct {
	Start      Timestamp
	End        Timestamp
	Amount     decimal.Decimal
	Profit     decimal.Decimal
	TaxBenefit decimal.Decimal
}

// ReturnsResult is the output of Project: batch totals plus one
// WindowSavings per accumulation window, in rule order.
type ReturnsResult struct {
	TotalTransactionAmount decimal.Decimal
	TotalCeiling           decimal.Decimal
	Savings                []WindowSavings
}
