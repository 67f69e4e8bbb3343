package roundup

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func period(start, end string) Period {
	return Period{Start: MustTimestamp(start), End: MustTimestamp(end)}
}

func quiet(start, end string, fixed float64) QuietPeriod {
	return QuietPeriod{Period: period(start, end), Fixed: decimal.NewFromFloat(fixed)}
}

func boost(start, end string, extra float64) BoostPeriod {
	return BoostPeriod{Period: period(start, end), Extra: decimal.NewFromFloat(extra)}
}

func window(start, end string) Window {
	return Window{Period: period(start, end)}
}

func TestClassify_BoostAdditivity(t *testing.T) {
	// GIVEN: one transaction with base remainder 50 inside one boost period
	txns := []Transaction{enriched("2023-10-12 20:15:30", 250)} // remanent 50
	rs := RuleSet{
		Boost:   []BoostPeriod{boost("2023-10-01 08:00:00", "2023-12-31 19:59:59", 25)},
		Windows: []Window{window("2023-01-01 00:00:00", "2023-12-31 23:59:59")},
	}

	// WHEN: classifying
	result, err := Classify(txns, rs)
	require.NoError(t, err)

	// THEN: adjusted remainder is 50 + 25
	require.Len(t, result.Valid, 1)
	assert.True(t, result.Valid[0].Remanent.Equal(decimal.NewFromInt(75)))
	assert.True(t, result.WindowTotals[0].Equal(decimal.NewFromInt(75)))
}

func TestClassify_OverlappingBoostsStack(t *testing.T) {
	txns := []Transaction{enriched("2023-10-12 20:15:30", 250)} // remanent 50
	rs := RuleSet{
		Boost: []BoostPeriod{
			boost("2023-10-01 00:00:00", "2023-10-31 23:59:59", 10),
			boost("2023-10-12 00:00:00", "2023-10-12 23:59:59", 5),
		},
		Windows: []Window{window("2023-01-01 00:00:00", "2023-12-31 23:59:59")},
	}

	result, err := Classify(txns, rs)
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	assert.True(t, result.Valid[0].Remanent.Equal(decimal.NewFromInt(65)),
		"both extras should be added, got %s", result.Valid[0].Remanent)
}

func TestClassify_QuietZeroFixedSuppressesEntirely(t *testing.T) {
	// GIVEN: a transaction inside a quiet period with fixed = 0
	txns := []Transaction{
		enriched("2023-07-01 21:59:00", 620),
		enriched("2023-02-28 15:49:20", 375),
	}
	rs := RuleSet{
		Quiet:   []QuietPeriod{quiet("2023-07-01 00:00:00", "2023-07-31 23:59:59", 0)},
		Windows: []Window{window("2023-01-01 00:00:00", "2023-12-31 23:59:59")},
	}

	// WHEN: classifying
	result, err := Classify(txns, rs)
	require.NoError(t, err)

	// THEN: the July transaction is absent from every output
	require.Len(t, result.Valid, 1)
	assert.Equal(t, "2023-02-28 15:49:20", result.Valid[0].Date.String())
	assert.True(t, result.WindowTotals[0].Equal(decimal.NewFromInt(25)))
}

func TestClassify_QuietNonZeroFixedOverridesRemainder(t *testing.T) {
	// A non-zero fixed value replaces the remainder; the transaction
	// survives and boosts still apply on top.
	txns := []Transaction{enriched("2023-07-15 12:00:00", 250)} // remanent 50
	rs := RuleSet{
		Quiet:   []QuietPeriod{quiet("2023-07-01 00:00:00", "2023-07-31 23:59:59", 10)},
		Boost:   []BoostPeriod{boost("2023-07-01 00:00:00", "2023-07-31 23:59:59", 5)},
		Windows: []Window{window("2023-01-01 00:00:00", "2023-12-31 23:59:59")},
	}

	result, err := Classify(txns, rs)
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	assert.True(t, result.Valid[0].Remanent.Equal(decimal.NewFromInt(15)),
		"expected fixed 10 + extra 5, got %s", result.Valid[0].Remanent)
}

func TestClassify_OverlappingQuietPicksLatestStart(t *testing.T) {
	// Two quiet periods contain the date; the one starting later wins.
	txns := []Transaction{enriched("2023-07-15 12:00:00", 250)}
	rs := RuleSet{
		Quiet: []QuietPeriod{
			quiet("2023-07-01 00:00:00", "2023-07-31 23:59:59", 10),
			quiet("2023-07-10 00:00:00", "2023-07-20 23:59:59", 40),
		},
		Windows: []Window{window("2023-01-01 00:00:00", "2023-12-31 23:59:59")},
	}

	result, err := Classify(txns, rs)
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	assert.True(t, result.Valid[0].Remanent.Equal(decimal.NewFromInt(40)))
}

func TestClassify_QuietTieBrokenByLatestEnd(t *testing.T) {
	txns := []Transaction{enriched("2023-07-15 12:00:00", 250)}
	rs := RuleSet{
		Quiet: []QuietPeriod{
			quiet("2023-07-10 00:00:00", "2023-07-20 23:59:59", 10),
			quiet("2023-07-10 00:00:00", "2023-07-25 23:59:59", 40),
		},
		Windows: []Window{window("2023-01-01 00:00:00", "2023-12-31 23:59:59")},
	}

	result, err := Classify(txns, rs)
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	assert.True(t, result.Valid[0].Remanent.Equal(decimal.NewFromInt(40)))
}

func TestClassify_WindowIndependence(t *testing.T) {
	// A transaction inside two overlapping windows contributes its full
	// adjusted remainder to both.
	txns := []Transaction{enriched("2023-06-15 12:00:00", 250)} // remanent 50
	rs := RuleSet{
		Windows: []Window{
			window("2023-01-01 00:00:00", "2023-12-31 23:59:59"),
			window("2023-06-01 00:00:00", "2023-06-30 23:59:59"),
		},
	}

	result, err := Classify(txns, rs)
	require.NoError(t, err)

	assert.True(t, result.WindowTotals[0].Equal(decimal.NewFromInt(50)))
	assert.True(t, result.WindowTotals[1].Equal(decimal.NewFromInt(50)))
}

func TestClassify_InKPeriodFlag(t *testing.T) {
	txns := []Transaction{
		enriched("2023-06-15 12:00:00", 250),
		enriched("2024-06-15 12:00:00", 250), // outside every window
	}
	rs := RuleSet{
		Windows: []Window{window("2023-01-01 00:00:00", "2023-12-31 23:59:59")},
	}

	result, err := Classify(txns, rs)
	require.NoError(t, err)

	require.Len(t, result.Valid, 2)
	assert.True(t, result.Valid[0].InKPeriod)
	assert.False(t, result.Valid[1].InKPeriod)
	assert.True(t, result.WindowTotals[0].Equal(decimal.NewFromInt(50)),
		"out-of-window transaction must not contribute")
}

func TestClassify_MalformedBoundsRejected(t *testing.T) {
	txns := []Transaction{enriched("2023-06-15 12:00:00", 250)}
	rs := RuleSet{
		Windows: []Window{window("2023-12-31 23:59:59", "2023-01-01 00:00:00")},
	}

	_, err := Classify(txns, rs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPeriod))
	assert.True(t, IsClientError(err))

	var bounds *PeriodBoundsError
	require.True(t, errors.As(err, &bounds))
	assert.Equal(t, "k", bounds.Kind)
	assert.Equal(t, 0, bounds.Index)
}

func TestFilter_EndToEndFixture(t *testing.T) {
	// GIVEN: the reference rule set and expenses
	//   k: [2023-01-01 .. 2023-12-31], [2023-03-01 .. 2023-11-31]
	//   q: [2023-07-01 .. 2023-07-31] fixed 0
	//   p: [2023-10-01 08:00 .. 2023-12-31 19:59] extra 25
	expenses := []RawExpense{
		expense("2023-02-28 15:49:20", 375),
		expense("2023-07-01 21:59:00", 620),
		expense("2023-10-12 20:15:30", 250),
		expense("2023-12-17 08:09:45", 480),
	}
	rs := RuleSet{
		Quiet: []QuietPeriod{quiet("2023-07-01 00:00:00", "2023-07-31 23:59:59", 0)},
		Boost: []BoostPeriod{boost("2023-10-01 08:00:00", "2023-12-31 19:59:59", 25)},
		Windows: []Window{
			window("2023-01-01 00:00:00", "2023-12-31 23:59:59"),
			window("2023-03-01 00:00:00", "2023-11-31 23:59:59"),
		},
	}

	// WHEN: running the filter pipeline
	result, err := Filter(testWage, expenses, rs)
	require.NoError(t, err)

	// THEN: the July expense is suppressed, the rest survive with
	// boost-adjusted remainders
	require.Len(t, result.Valid, 3)
	assert.Empty(t, result.Invalid)

	byDate := map[string]FilteredTransaction{}
	for _, ft := range result.Valid {
		byDate[ft.Date.String()] = ft
	}
	assert.True(t, byDate["2023-02-28 15:49:20"].Remanent.Equal(decimal.NewFromInt(25)))
	assert.True(t, byDate["2023-10-12 20:15:30"].Remanent.Equal(decimal.NewFromInt(75)))
	assert.True(t, byDate["2023-12-17 08:09:45"].Remanent.Equal(decimal.NewFromInt(45)))

	assert.True(t, byDate["2023-02-28 15:49:20"].InKPeriod)
	assert.True(t, byDate["2023-10-12 20:15:30"].InKPeriod)
	assert.True(t, byDate["2023-12-17 08:09:45"].InKPeriod)
}

func TestFilter_WindowAggregatesFixture(t *testing.T) {
	// Same fixture as above; window sums must be 145 and 75.
	expenses := []RawExpense{
		expense("2023-02-28 15:49:20", 375),
		expense("2023-07-01 21:59:00", 620),
		expense("2023-10-12 20:15:30", 250),
		expense("2023-12-17 08:09:45", 480),
	}
	rs := RuleSet{
		Quiet: []QuietPeriod{quiet("2023-07-01 00:00:00", "2023-07-31 23:59:59", 0)},
		Boost: []BoostPeriod{boost("2023-10-01 08:00:00", "2023-12-31 19:59:59", 25)},
		Windows: []Window{
			window("2023-01-01 00:00:00", "2023-12-31 23:59:59"),
			window("2023-03-01 00:00:00", "2023-11-31 23:59:59"),
		},
	}

	enrichedBatch := Enrich(expenses)
	validated := Validate(testWage, enrichedBatch.Transactions)
	classified, err := Classify(validated.Valid, rs)
	require.NoError(t, err)

	require.Len(t, classified.WindowTotals, 2)
	assert.True(t, classified.WindowTotals[0].Equal(decimal.NewFromInt(145)),
		"window 1 total = %s", classified.WindowTotals[0])
	assert.True(t, classified.WindowTotals[1].Equal(decimal.NewFromInt(75)),
		"window 2 total = %s", classified.WindowTotals[1])
}

func TestFilter_RequiresAtLeastOneWindow(t *testing.T) {
	_, err := Filter(testWage, []RawExpense{expense("2023-06-15 12:00:00", 250)}, RuleSet{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoWindows))
	assert.True(t, IsClientError(err))
}

func TestFilter_StructuralRejectsKeepMessages(t *testing.T) {
	expenses := []RawExpense{
		expense("2023-12-17 08:09:45", 480),
		expense("2023-12-17 08:09:45", -10),
	}
	rs := RuleSet{
		Windows: []Window{window("2023-01-01 00:00:00", "2023-12-31 23:59:59")},
	}

	result, err := Filter(testWage, expenses, rs)
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	require.Len(t, result.Invalid, 1)
	assert.Equal(t, MsgNegativeAmount, result.Invalid[0].Message)
}
