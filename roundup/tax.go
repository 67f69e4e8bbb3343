/*
tax.go - Tax benefit policy

PURPOSE:
  Computes the income-tax saving from investing a window's principal
  under the pension profile. The policy is pluggable so bracket
  schedules can be swapped without touching the projector.

DEFAULT SCHEDULE (new-regime slabs, FY 2024-25):
  0 - 7L   :  0 %
  7 - 10L  : 10 %
  10 - 12L : 15 %
  12 - 15L : 20 %
  15L +    : 30 %

DEDUCTION:
  deduction  = min(invested, 10% of wage, 200000)
  taxBenefit = tax(wage) - tax(wage - deduction)
*/
package roundup

import "github.com/shopspring/decimal"

// TaxPolicy computes the tax saved by investing `invested` out of an
// annual `wage`. Implementations must be pure.
type TaxPolicy func(wage, invested decimal.Decimal) decimal.Decimal

var (
	pensionWageFraction = decimal.NewFromFloat(0.10)
	pensionMaxDeduction = decimal.NewFromInt(200000)

	slab7L  = decimal.NewFromInt(700000)
	slab10L = decimal.NewFromInt(1000000)
	slab12L = decimal.NewFromInt(1200000)
	slab15L = decimal.NewFromInt(1500000)

	rate10 = decimal.NewFromFloat(0.10)
	rate15 = decimal.NewFromFloat(0.15)
	rate20 = decimal.NewFromFloat(0.20)
	rate30 = decimal.NewFromFloat(0.30)
)

// SlabTaxPolicy is the default TaxPolicy: marginal slab tax on the
// wage, minus the same tax after the pension deduction.
func SlabTaxPolicy(wage, invested decimal.Decimal) decimal.Decimal {
	deduction := pensionDeduction(invested, wage)
	return slabTax(wage).Sub(slabTax(wage.Sub(deduction)))
}

// ZeroTaxPolicy reports no benefit regardless of inputs.
func ZeroTaxPolicy(wage, invested decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// pensionDeduction = min(invested, 10% of wage, 200000).
func pensionDeduction(invested, wage decimal.Decimal) decimal.Decimal {
	deduction := invested
	if wageCap := wage.Mul(pensionWageFraction); wageCap.LessThan(deduction) {
		deduction = wageCap
	}
	if pensionMaxDeduction.LessThan(deduction) {
		deduction = pensionMaxDeduction
	}
	return deduction
}

// slabTax computes marginal tax over the slab schedule, rounded to two
// decimal places.
func slabTax(income decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}

	tax := decimal.Zero
	if income.GreaterThan(slab7L) {
		band := decimal.Min(income, slab10L).Sub(slab7L)
		tax = tax.Add(band.Mul(rate10))
	}
	if income.GreaterThan(slab10L) {
		band := decimal.Min(income, slab12L).Sub(slab10L)
		tax = tax.Add(band.Mul(rate15))
	}
	if income.GreaterThan(slab12L) {
		band := decimal.Min(income, slab15L).Sub(slab12L)
		tax = tax.Add(band.Mul(rate20))
	}
	if income.GreaterThan(slab15L) {
		band := income.Sub(slab15L)
		tax = tax.Add(band.Mul(rate30))
	}
	return tax.Round(2)
}
