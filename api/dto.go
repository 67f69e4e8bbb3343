/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for the wire contract and their
  conversion to/from the roundup domain types. Decimals cross this
  boundary as JSON numbers rounded to two places; internally all math
  stays decimal.

NAMING CONVENTION:
  - *Request: request body types from clients
  - *Response: response wrappers returned to clients
  - lowercase DTOs: row-level shapes shared between both

REQUIRED FIELDS:
  Request DTOs use pointers so a missing field is distinguishable from
  a zero value; the parse helpers return the contract's error messages.

SEE ALSO:
  - handlers.go: uses these types
  - roundup/types.go: the domain shapes these mirror
*/
package api

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/roundup-engine/roundup"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// rawExpenseDTO is one row of the parse endpoint's body.
type rawExpenseDTO struct {
	Timestamp *string  `json:"timestamp"`
	Amount    *float64 `json:"amount"`
}

// datedExpenseDTO is one row of the filter/returns bodies.
type datedExpenseDTO struct {
	Date   *string  `json:"date"`
	Amount *float64 `json:"amount"`
}

// enrichedRowDTO is one pre-enriched row of the validator body.
type enrichedRowDTO struct {
	Date     *string  `json:"date"`
	Amount   *float64 `json:"amount"`
	Ceiling  *float64 `json:"ceiling"`
	Remanent *float64 `json:"remanent"`
}

type quietRuleDTO struct {
	Fixed *float64 `json:"fixed"`
	Start *string  `json:"start"`
	End   *string  `json:"end"`
}

type boostRuleDTO struct {
	Extra *float64 `json:"extra"`
	Start *string  `json:"start"`
	End   *string  `json:"end"`
}

type windowDTO struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type validateRequest struct {
	Wage         *float64         `json:"wage"`
	Transactions []enrichedRowDTO `json:"transactions"`
}

type filterRequest struct {
	Q            []quietRuleDTO    `json:"q"`
	P            []boostRuleDTO    `json:"p"`
	K            []windowDTO       `json:"k"`
	Wage         *float64          `json:"wage"`
	Transactions []datedExpenseDTO `json:"transactions"`
}

type returnsRequest struct {
	Age          *int              `json:"age"`
	Wage         *float64          `json:"wage"`
	Inflation    *float64          `json:"inflation"`
	Q            []quietRuleDTO    `json:"q"`
	P            []boostRuleDTO    `json:"p"`
	K            []windowDTO       `json:"k"`
	Transactions []datedExpenseDTO `json:"transactions"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type transactionDTO struct {
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Ceiling  float64 `json:"ceiling"`
	Remanent float64 `json:"remanent"`
}

type invalidTransactionDTO struct {
	transactionDTO
	Message string `json:"message"`
}

type filteredTransactionDTO struct {
	transactionDTO
	InKPeriod bool `json:"inKPeriod"`
}

type parseResponse struct {
	Transactions  []transactionDTO `json:"transactions"`
	TotalExpense  float64          `json:"totalExpense"`
	TotalCeiling  float64          `json:"totalCeiling"`
	TotalRemanent float64          `json:"totalRemanent"`
}

type validateResponse struct {
	Valid   []transactionDTO        `json:"valid"`
	Invalid []invalidTransactionDTO `json:"invalid"`
}

type filterResponse struct {
	Valid   []filteredTransactionDTO `json:"valid"`
	Invalid []invalidTransactionDTO  `json:"invalid"`
}

type savingsDTO struct {
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Amount     float64 `json:"amount"`
	Profit     float64 `json:"profit"`
	TaxBenefit float64 `json:"taxBenefit"`
}

type returnsResponse struct {
	TotalTransactionAmount float64      `json:"totalTransactionAmount"`
	TotalCeiling           float64      `json:"totalCeiling"`
	SavingsByDates         []savingsDTO `json:"savingsByDates"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS - wire -> domain
// =============================================================================

func parseRawExpense(i int, dto rawExpenseDTO) (roundup.RawExpense, error) {
	if dto.Timestamp == nil {
		return roundup.RawExpense{}, fmt.Errorf("expense #%d: missing 'timestamp' field", i)
	}
	if dto.Amount == nil {
		return roundup.RawExpense{}, fmt.Errorf("expense #%d: missing 'amount' field", i)
	}
	ts, err := roundup.ParseTimestamp(*dto.Timestamp)
	if err != nil {
		return roundup.RawExpense{}, fmt.Errorf("expense #%d: %w", i, err)
	}
	return roundup.RawExpense{Timestamp: ts, Amount: decimal.NewFromFloat(*dto.Amount)}, nil
}

func parseDatedExpense(i int, dto datedExpenseDTO) (roundup.RawExpense, error) {
	if dto.Date == nil {
		return roundup.RawExpense{}, fmt.Errorf("transaction #%d: missing 'date' field", i)
	}
	if dto.Amount == nil {
		return roundup.RawExpense{}, fmt.Errorf("transaction #%d: missing 'amount' field", i)
	}
	ts, err := roundup.ParseTimestamp(*dto.Date)
	if err != nil {
		return roundup.RawExpense{}, fmt.Errorf("transaction #%d: %w", i, err)
	}
	return roundup.RawExpense{Timestamp: ts, Amount: decimal.NewFromFloat(*dto.Amount)}, nil
}

func parseEnrichedRow(i int, dto enrichedRowDTO) (roundup.Transaction, error) {
	if dto.Date == nil {
		return roundup.Transaction{}, fmt.Errorf("transaction #%d: missing 'date' field", i)
	}
	if dto.Amount == nil {
		return roundup.Transaction{}, fmt.Errorf("transaction #%d: missing 'amount' field", i)
	}
	if dto.Ceiling == nil {
		return roundup.Transaction{}, fmt.Errorf("transaction #%d: missing 'ceiling' field", i)
	}
	if dto.Remanent == nil {
		return roundup.Transaction{}, fmt.Errorf("transaction #%d: missing 'remanent' field", i)
	}
	ts, err := roundup.ParseTimestamp(*dto.Date)
	if err != nil {
		return roundup.Transaction{}, fmt.Errorf("transaction #%d: %w", i, err)
	}
	return roundup.Transaction{
		Date:     ts,
		Amount:   decimal.NewFromFloat(*dto.Amount),
		Ceiling:  decimal.NewFromFloat(*dto.Ceiling),
		Remanent: decimal.NewFromFloat(*dto.Remanent),
	}, nil
}

func parseRuleSet(q []quietRuleDTO, p []boostRuleDTO, k []windowDTO) (roundup.RuleSet, error) {
	rs := roundup.RuleSet{}

	for i, dto := range q {
		if dto.Fixed == nil {
			return rs, fmt.Errorf("q rule #%d: missing 'fixed' field", i)
		}
		period, err := parsePeriod("q", i, dto.Start, dto.End)
		if err != nil {
			return rs, err
		}
		rs.Quiet = append(rs.Quiet, roundup.QuietPeriod{
			Period: period,
			Fixed:  decimal.NewFromFloat(*dto.Fixed),
		})
	}
	for i, dto := range p {
		if dto.Extra == nil {
			return rs, fmt.Errorf("p rule #%d: missing 'extra' field", i)
		}
		period, err := parsePeriod("p", i, dto.Start, dto.End)
		if err != nil {
			return rs, err
		}
		rs.Boost = append(rs.Boost, roundup.BoostPeriod{
			Period: period,
			Extra:  decimal.NewFromFloat(*dto.Extra),
		})
	}
	for i, dto := range k {
		period, err := parsePeriod("k", i, dto.Start, dto.End)
		if err != nil {
			return rs, err
		}
		rs.Windows = append(rs.Windows, roundup.Window{Period: period})
	}
	return rs, nil
}

func parsePeriod(kind string, i int, start, end *string) (roundup.Period, error) {
	if start == nil {
		return roundup.Period{}, fmt.Errorf("%s rule #%d: missing 'start' field", kind, i)
	}
	if end == nil {
		return roundup.Period{}, fmt.Errorf("%s rule #%d: missing 'end' field", kind, i)
	}
	startTS, err := roundup.ParseTimestamp(*start)
	if err != nil {
		return roundup.Period{}, fmt.Errorf("%s rule #%d: %w", kind, i, err)
	}
	endTS, err := roundup.ParseTimestamp(*end)
	if err != nil {
		return roundup.Period{}, fmt.Errorf("%s rule #%d: %w", kind, i, err)
	}
	return roundup.Period{Start: startTS, End: endTS}, nil
}

// =============================================================================
// CONVERSION HELPERS - domain -> wire
// =============================================================================

// round2 renders a decimal as a two-place JSON number.
func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func toTransactionDTO(txn roundup.Transaction) transactionDTO {
	return transactionDTO{
		Date:     txn.Date.String(),
		Amount:   round2(txn.Amount),
		Ceiling:  round2(txn.Ceiling),
		Remanent: round2(txn.Remanent),
	}
}

func toTransactionDTOs(txns []roundup.Transaction) []transactionDTO {
	dtos := make([]transactionDTO, len(txns))
	for i, txn := range txns {
		dtos[i] = toTransactionDTO(txn)
	}
	return dtos
}

func toInvalidDTOs(invalid []roundup.InvalidTransaction) []invalidTransactionDTO {
	dtos := make([]invalidTransactionDTO, len(invalid))
	for i, rec := range invalid {
		dtos[i] = invalidTransactionDTO{
			transactionDTO: toTransactionDTO(rec.Transaction),
			Message:        rec.Message,
		}
	}
	return dtos
}

func toFilteredDTOs(valid []roundup.FilteredTransaction) []filteredTransactionDTO {
	dtos := make([]filteredTransactionDTO, len(valid))
	for i, ft := range valid {
		dtos[i] = filteredTransactionDTO{
			transactionDTO: toTransactionDTO(ft.Transaction),
			InKPeriod:      ft.InKPeriod,
		}
	}
	return dtos
}

func toReturnsResponse(result roundup.ReturnsResult) returnsResponse {
	savings := make([]savingsDTO, len(result.Savings))
	for i, s := range result.Savings {
		savings[i] = savingsDTO{
			Start:      s.Start.String(),
			End:        s.End.String(),
			Amount:     round2(s.Amount),
			Profit:     round2(s.Profit),
			TaxBenefit: round2(s.TaxBenefit),
		}
	}
	return returnsResponse{
		TotalTransactionAmount: round2(result.TotalTransactionAmount),
		TotalCeiling:           round2(result.TotalCeiling),
		SavingsByDates:         savings,
	}
}
