/*
validate.go - Structural validator

PURPOSE:
  Screens an enriched batch for records that must never reach
  aggregation: negative amounts and duplicate timestamps. Rejection is
  per-record; the rest of the batch continues.

DUPLICATE RULE:
  Detection is an explicit fold over the input sequence carrying a set
  of seen timestamp strings. A record is a duplicate when its exact
  date string was seen earlier in the same input, regardless of the
  earlier record's own validity. The first occurrence always survives.

PRECEDENCE:
  A record that is both negative and a duplicate reports the negative
  message.
*/
package roundup

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MsgNegativeAmount is the rejection message for negative amounts.
const MsgNegativeAmount = "Negative amounts are not allowed"

func msgDuplicate(ts Timestamp) string {
	return fmt.Sprintf("Duplicate timestamp: '%s'.", ts)
}

// Validate partitions transactions into valid and invalid, preserving
// input order in both partitions.
//
// wage is accepted for contract compatibility but currently has no
// observable effect; it is reserved for wage-conditioned eligibility
// rules.
func Validate(wage decimal.Decimal, transactions []Transaction) ValidationResult {
	_ = wage

	result := ValidationResult{
		Valid:   make([]Transaction, 0, len(transactions)),
		Invalid: []InvalidTransaction{},
	}
	seen := make(map[string]struct{}, len(transactions))

	for _, txn := range transactions {
		key := txn.Date.String()
		_, dup := seen[key]
		seen[key] = struct{}{}

		switch {
		case txn.Amount.IsNegative():
			result.Invalid = append(result.Invalid, InvalidTransaction{
				Transaction: txn,
				Message:     MsgNegativeAmount,
			})
		case dup:
			result.Invalid = append(result.Invalid, InvalidTransaction{
				Transaction: txn,
				Message:     msgDuplicate(txn.Date),
			})
		default:
			result.Valid = append(result.Valid, txn)
		}
	}
	return result
}
