package roundup

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(ts string, amount float64) RawExpense {
	return RawExpense{
		Timestamp: MustTimestamp(ts),
		Amount:    decimal.NewFromFloat(amount),
	}
}

func TestEnrichExpense_CeilingProperties(t *testing.T) {
	// For any amount: ceiling is a multiple of 100, ceiling >= amount,
	// remanent == ceiling - amount.
	amounts := []float64{0.01, 1, 99.99, 100, 150.75, 250, 375, 620, 480, 999.5, 10000}

	for _, a := range amounts {
		txn := EnrichExpense(expense("2023-10-12 20:15:30", a))

		assert.True(t, txn.Ceiling.Mod(hundred).IsZero(),
			"ceiling %s of amount %v must be a multiple of 100", txn.Ceiling, a)
		assert.True(t, txn.Ceiling.GreaterThanOrEqual(txn.Amount),
			"ceiling %s must be >= amount %v", txn.Ceiling, a)
		assert.True(t, txn.Remanent.Equal(txn.Ceiling.Sub(txn.Amount)),
			"remanent must equal ceiling - amount for %v", a)
		assert.False(t, txn.Remanent.IsNegative())
	}
}

func TestEnrichExpense_ExactMultiplesHaveZeroRemainder(t *testing.T) {
	for _, a := range []float64{100, 200, 700, 10000} {
		txn := EnrichExpense(expense("2023-01-01 00:00:00", a))
		assert.True(t, txn.Ceiling.Equal(txn.Amount), "amount %v", a)
		assert.True(t, txn.Remanent.IsZero(), "amount %v", a)
	}
}

func TestEnrichExpense_Idempotent(t *testing.T) {
	// Re-enriching an enriched transaction's amount yields the same
	// ceiling and remanent.
	first := EnrichExpense(expense("2023-02-28 15:49:20", 375))
	second := EnrichExpense(RawExpense{Timestamp: first.Date, Amount: first.Amount})

	assert.True(t, first.Ceiling.Equal(second.Ceiling))
	assert.True(t, first.Remanent.Equal(second.Remanent))
}

func TestEnrich_FixtureTotals(t *testing.T) {
	// GIVEN: the two reference expenses
	expenses := []RawExpense{
		expense("2023-10-12 20:15:30", 250),
		expense("2023-02-28 15:49:20", 375),
	}

	// WHEN: enriching the batch
	result := Enrich(expenses)

	// THEN: ceilings 300/400, remanents 50/25, totals 625/700/75
	require.Len(t, result.Transactions, 2)
	assert.True(t, result.Transactions[0].Ceiling.Equal(decimal.NewFromInt(300)))
	assert.True(t, result.Transactions[0].Remanent.Equal(decimal.NewFromInt(50)))
	assert.True(t, result.Transactions[1].Ceiling.Equal(decimal.NewFromInt(400)))
	assert.True(t, result.Transactions[1].Remanent.Equal(decimal.NewFromInt(25)))

	assert.True(t, result.TotalExpense.Equal(decimal.NewFromInt(625)), "totalExpense = %s", result.TotalExpense)
	assert.True(t, result.TotalCeiling.Equal(decimal.NewFromInt(700)), "totalCeiling = %s", result.TotalCeiling)
	assert.True(t, result.TotalRemanent.Equal(decimal.NewFromInt(75)), "totalRemanent = %s", result.TotalRemanent)
}

func TestAggregate_MatchesEnrichTotals(t *testing.T) {
	expenses := []RawExpense{
		expense("2023-10-12 20:15:30", 250),
		expense("2023-02-28 15:49:20", 375),
		expense("2023-12-17 08:09:45", 480),
	}
	result := Enrich(expenses)

	totalExpense, totalCeiling, totalRemanent := Aggregate(result.Transactions)
	assert.True(t, totalExpense.Equal(result.TotalExpense))
	assert.True(t, totalCeiling.Equal(result.TotalCeiling))
	assert.True(t, totalRemanent.Equal(result.TotalRemanent))
}

func TestEnrich_EmptyBatch(t *testing.T) {
	result := Enrich(nil)
	assert.Empty(t, result.Transactions)
	assert.True(t, result.TotalExpense.IsZero())
	assert.True(t, result.TotalCeiling.IsZero())
	assert.True(t, result.TotalRemanent.IsZero())
}
