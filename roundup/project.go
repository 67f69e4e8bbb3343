/*
project.go - Compound-growth projector

PURPOSE:
  Runs the full pipeline (enrich -> validate -> classify) and projects
  each accumulation window's principal forward with compound growth
  under one of two investment profiles.

PROFILES:
  pension (NPS) : 7.11% p.a., tax benefit via TaxPolicy
  index fund    : 14.49% p.a., tax benefit always 0.00

HORIZON:
  One scalar per request: max(60 - age, 5) years. Every window in a
  request grows for the same number of years.

INFLATION:
  Accepted on the input and threaded through, but only applied when
  the projector opts in (AdjustForInflation). The observable contract
  reports nominal profit.

SEE ALSO:
  - tax.go: TaxPolicy and the default slab schedule
  - rules.go: the classification the projection is built on
*/
package roundup

import "github.com/shopspring/decimal"

// Profile selects the investment vehicle and its fixed annual rate.
type Profile string

const (
	ProfilePension Profile = "nps"
	ProfileIndex   Profile = "index"
)

const (
	retirementAge   = 60
	minHorizonYears = 5
)

var (
	one         = decimal.NewFromInt(1)
	pensionRate = decimal.NewFromFloat(0.0711)
	indexRate   = decimal.NewFromFloat(0.1449)
)

// AnnualRate returns the fixed annual growth rate for the profile.
func (p Profile) AnnualRate() decimal.Decimal {
	if p == ProfilePension {
		return pensionRate
	}
	return indexRate
}

// HorizonYears derives the projection horizon from the subject's age.
func HorizonYears(age int) int {
	years := retirementAge - age
	if years < minHorizonYears {
		return minHorizonYears
	}
	return years
}

// ProjectionInput carries everything one projection request needs.
type ProjectionInput struct {
	Profile   Profile
	Age       int
	Wage      decimal.Decimal
	Inflation decimal.Decimal
	Rules     RuleSet
	Expenses  []RawExpense
}

// Projector computes compound-growth returns. The zero value is ready
// to use: nominal profits and the default slab tax policy.
type Projector struct {
	// TaxPolicy overrides the pension profile's tax computation.
	// nil selects SlabTaxPolicy.
	TaxPolicy TaxPolicy

	// AdjustForInflation deflates future values by (1+inflation)^years
	// before reporting profit. Off by default.
	AdjustForInflation bool
}

// Project runs the pipeline and returns one WindowSavings per
// accumulation window, in rule order. Structurally invalid and
// quiet-suppressed transactions never reach a window's principal.
func (p *Projector) Project(in ProjectionInput) (ReturnsResult, error) {
	if len(in.Rules.Windows) == 0 {
		return ReturnsResult{}, ErrNoWindows
	}

	enriched := Enrich(in.Expenses)
	validated := Validate(in.Wage, enriched.Transactions)

	classified, err := Classify(validated.Valid, in.Rules)
	if err != nil {
		return ReturnsResult{}, err
	}

	rate := in.Profile.AnnualRate()
	years := HorizonYears(in.Age)
	taxPolicy := p.TaxPolicy
	if taxPolicy == nil {
		taxPolicy = SlabTaxPolicy
	}

	savings := make([]WindowSavings, len(in.Rules.Windows))
	for i, w := range in.Rules.Windows {
		principal := classified.WindowTotals[i]

		value := compoundGrow(principal, rate, years)
		if p.AdjustForInflation {
			value = deflate(value, in.Inflation, years)
		}
		profit := value.Sub(principal).Round(2)

		taxBenefit := decimal.Zero
		if in.Profile == ProfilePension && principal.IsPositive() {
			taxBenefit = taxPolicy(in.Wage, principal).Round(2)
		}

		savings[i] = WindowSavings{
			Start:      w.Start,
			End:        w.End,
			Amount:     principal,
			Profit:     profit,
			TaxBenefit: taxBenefit,
		}
	}

	return ReturnsResult{
		TotalTransactionAmount: enriched.TotalExpense,
		TotalCeiling:           enriched.TotalCeiling,
		Savings:                savings,
	}, nil
}

// compoundGrow returns principal * (1+rate)^years.
func compoundGrow(principal, rate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return principal
	}
	return principal.Mul(one.Add(rate).Pow(decimal.NewFromInt(int64(years))))
}

// deflate returns nominal / (1+inflation)^years.
func deflate(nominal, inflation decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return nominal
	}
	return nominal.Div(one.Add(inflation).Pow(decimal.NewFromInt(int64(years))))
}
