/*
enrich.go - Remainder calculator

PURPOSE:
  Pure enrichment of raw expenses: ceiling (next multiple of 100) and
  remanent (ceiling - amount), plus aggregate sums over the batch.
  No rule knowledge, no failure modes beyond what the caller already
  validated (timestamps parse at the transport boundary).

NUMERIC CONTRACT:
  Internal arithmetic is unrounded decimal; rounding to two places
  happens only at serialization so aggregation never compounds
  rounding error.
*/
package roundup

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// EnrichExpense computes the ceiling and remainder for one expense.
//
//	EnrichExpense({_, 250}).Ceiling  == 300
//	EnrichExpense({_, 250}).Remanent == 50
//
// Amounts that are exact multiples of 100 yield a zero remainder.
// Negative amounts produce an undefined enrichment; the validator
// rejects such records before anything downstream sees them.
func EnrichExpense(e RawExpense) Transaction {
	ceiling := e.Amount.Div(hundred).Ceil().Mul(hundred)
	return Transaction{
		Date:     e.Timestamp,
		Amount:   e.Amount,
		Ceiling:  ceiling,
		Remanent: ceiling.Sub(e.Amount),
	}
}

// Enrich enriches a batch and aggregates its totals.
func Enrich(expenses []RawExpense) ParseResult {
	result := ParseResult{
		Transactions:  make([]Transaction, 0, len(expenses)),
		TotalExpense:  decimal.Zero,
		TotalCeiling:  decimal.Zero,
		TotalRemanent: decimal.Zero,
	}
	for _, e := range expenses {
		txn := EnrichExpense(e)
		result.Transactions = append(result.Transactions, txn)
		result.TotalExpense = result.TotalExpense.Add(txn.Amount)
		result.TotalCeiling = result.TotalCeiling.Add(txn.Ceiling)
		result.TotalRemanent = result.TotalRemanent.Add(txn.Remanent)
	}
	return result
}

// Aggregate re-sums an already-enriched batch. Plain sums, independent
// of any temporal rule.
func Aggregate(transactions []Transaction) (totalExpense, totalCeiling, totalRemanent decimal.Decimal) {
	totalExpense, totalCeiling, totalRemanent = decimal.Zero, decimal.Zero, decimal.Zero
	for _, txn := range transactions {
		totalExpense = totalExpense.Add(txn.Amount)
		totalCeiling = totalCeiling.Add(txn.Ceiling)
		totalRemanent = totalRemanent.Add(txn.Remanent)
	}
	return totalExpense, totalCeiling, totalRemanent
}
