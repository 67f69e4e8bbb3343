/*
rules.go - Temporal rule engine

PURPOSE:
  Classifies validated transactions against the three rule families and
  produces adjusted remainders plus per-window aggregates.

ORDER OF APPLICATION (per transaction):
  1. Quiet override: of the quiet periods containing the date, the one
     with the latest start (ties broken by latest end) wins; its Fixed
     value replaces the remainder. Fixed == 0 suppresses the
     transaction entirely - it appears in no downstream output.
  2. Boost addition: every containing boost period's Extra is added.
     Overlaps stack.
  3. Window tagging: InKPeriod is true when the date falls in at least
     one accumulation window.
  4. Window aggregation: the adjusted remainder is added to the total
     of EVERY window containing the date.

FAILURE SEMANTICS:
  Malformed bounds (start after end) abort the request with a
  PeriodBoundsError. Per-record problems never originate here; the
  structural validator runs first.
*/
package roundup

import "github.com/shopspring/decimal"

// RuleSet bundles the three rule families of one request.
type RuleSet struct {
	Quiet   []QuietPeriod
	Boost   []BoostPeriod
	Windows []Window
}

// Validate checks every rule's bounds. Kind tags in the returned error
// match the wire names (q/p/k).
func (rs RuleSet) Validate() error {
	for i, q := range rs.Quiet {
		if !q.Period.Valid() {
			return &PeriodBoundsError{Kind: "q", Index: i, Start: q.Start, End: q.End}
		}
	}
	for i, p := range rs.Boost {
		if !p.Period.Valid() {
			return &PeriodBoundsError{Kind: "p", Index: i, Start: p.Start, End: p.End}
		}
	}
	for i, k := range rs.Windows {
		if !k.Period.Valid() {
			return &PeriodBoundsError{Kind: "k", Index: i, Start: k.Start, End: k.End}
		}
	}
	return nil
}

// bestQuiet returns the containing quiet period with the latest start,
// breaking ties by latest end, or nil when none contains ts.
// Linear scan: rule sets are small.
func bestQuiet(ts Timestamp, rules []QuietPeriod) *QuietPeriod {
	var best *QuietPeriod
	for i := range rules {
		r := &rules[i]
		if !r.Contains(ts) {
			continue
		}
		if best == nil ||
			r.Start.After(best.Start) ||
			(r.Start.Equal(best.Start) && r.End.After(best.End)) {
			best = r
		}
	}
	return best
}

// boostExtra sums the Extra of every boost period containing ts.
func boostExtra(ts Timestamp, rules []BoostPeriod) decimal.Decimal {
	extra := decimal.Zero
	for _, r := range rules {
		if r.Contains(ts) {
			extra = extra.Add(r.Extra)
		}
	}
	return extra
}

// Classify applies the rule set to already-validated transactions.
//
// The returned WindowTotals slice is index-aligned with rs.Windows.
// Suppressed transactions (quiet period with zero Fixed) are absent
// from Valid and contribute to no window.
func Classify(transactions []Transaction, rs RuleSet) (ClassifyResult, error) {
	if err := rs.Validate(); err != nil {
		return ClassifyResult{}, err
	}

	result := ClassifyResult{
		Valid:        make([]FilteredTransaction, 0, len(transactions)),
		WindowTotals: make([]decimal.Decimal, len(rs.Windows)),
	}
	for i := range result.WindowTotals {
		result.WindowTotals[i] = decimal.Zero
	}

	for _, txn := range transactions {
		remanent := txn.Remanent

		if q := bestQuiet(txn.Date, rs.Quiet); q != nil {
			if q.Fixed.IsZero() {
				continue // suppressed entirely
			}
			remanent = q.Fixed
		}

		remanent = remanent.Add(boostExtra(txn.Date, rs.Boost))

		adjusted := Transaction{
			Date:     txn.Date,
			Amount:   txn.Amount,
			Ceiling:  txn.Ceiling,
			Remanent: remanent,
		}

		inAny := false
		for i, w := range rs.Windows {
			if w.Contains(txn.Date) {
				inAny = true
				result.WindowTotals[i] = result.WindowTotals[i].Add(remanent)
			}
		}

		result.Valid = append(result.Valid, FilteredTransaction{
			Transaction: adjusted,
			InKPeriod:   inAny,
		})
	}
	return result, nil
}

// Filter is the full filter pipeline: enrich bare {date, amount} rows,
// screen them structurally, then classify against the rule set.
// Structural rejects keep their messages; quiet-suppressed records are
// dropped from both partitions.
func Filter(wage decimal.Decimal, expenses []RawExpense, rs RuleSet) (FilterResult, error) {
	if len(rs.Windows) == 0 {
		return FilterResult{}, ErrNoWindows
	}

	enriched := Enrich(expenses)
	validated := Validate(wage, enriched.Transactions)

	classified, err := Classify(validated.Valid, rs)
	if err != nil {
		return FilterResult{}, err
	}

	return FilterResult{
		Valid:   classified.Valid,
		Invalid: validated.Invalid,
	}, nil
}
