/*
timestamp.go - Naive second-precision timestamps

PURPOSE:
  All dates in the engine are "YYYY-MM-DD HH:MM:SS" strings with no
  timezone. The wire contract compares them lexically, which for this
  fixed-width format is the same as chronological order.

WHY NOT time.Time:
  Rule bounds in the wild use convenient-but-nonexistent calendar dates
  (e.g. "2023-11-31 23:59:59" as "end of November"). time.Parse rejects
  those, and normalizing them would silently move a rule boundary.
  A validated string preserves the contract exactly: field ranges are
  checked, calendar validity is not.

SEE ALSO:
  - rules.go: Period containment built on Timestamp comparison
  - types.go: Transaction and rule types carrying Timestamps
*/
package roundup

import (
	"fmt"
	"strings"
)

// TimestampLayout documents the expected wire format.
const TimestampLayout = "YYYY-MM-DD HH:MM:SS"

// Timestamp is a validated "YYYY-MM-DD HH:MM:SS" string.
// The zero value is not a valid timestamp.
type Timestamp struct {
	s string
}

// ParseTimestamp validates the shape and field ranges of a raw
// timestamp string. Day-of-month is range-checked (01-31) but not
// checked against the calendar; see the file header for why.
func ParseTimestamp(raw string) (Timestamp, error) {
	if !validTimestamp(raw) {
		return Timestamp{}, fmt.Errorf("%w: %q (expected format %s)", ErrBadTimestamp, raw, TimestampLayout)
	}
	return Timestamp{s: raw}, nil
}

// MustTimestamp is a test/fixture helper; it panics on invalid input.
func MustTimestamp(raw string) Timestamp {
	ts, err := ParseTimestamp(raw)
	if err != nil {
		panic(err)
	}
	return ts
}

func validTimestamp(raw string) bool {
	// Positions: 0123456789012345678
	//            YYYY-MM-DD HH:MM:SS
	if len(raw) != 19 {
		return false
	}
	for i, c := range []byte(raw) {
		switch i {
		case 4, 7:
			if c != '-' {
				return false
			}
		case 10:
			if c != ' ' {
				return false
			}
		case 13, 16:
			if c != ':' {
				return false
			}
		default:
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	month := twoDigits(raw, 5)
	day := twoDigits(raw, 8)
	hour := twoDigits(raw, 11)
	minute := twoDigits(raw, 14)
	second := twoDigits(raw, 17)
	return month >= 1 && month <= 12 &&
		day >= 1 && day <= 31 &&
		hour <= 23 && minute <= 59 && second <= 59
}

func twoDigits(s string, i int) int {
	return int(s[i]-'0')*10 + int(s[i+1]-'0')
}

// Comparison. Lexical order of the fixed-width format is chronological.
func (t Timestamp) Compare(o Timestamp) int     { return strings.Compare(t.s, o.s) }
func (t Timestamp) Before(o Timestamp) bool     { return t.s < o.s }
func (t Timestamp) After(o Timestamp) bool      { return t.s > o.s }
func (t Timestamp) Equal(o Timestamp) bool      { return t.s == o.s }
func (t Timestamp) BeforeOrEqual(o Timestamp) bool { return t.s <= o.s }
func (t Timestamp) AfterOrEqual(o Timestamp) bool  { return t.s >= o.s }

func (t Timestamp) IsZero() bool { return t.s == "" }

// String returns the timestamp exactly as it appeared on the wire.
func (t Timestamp) String() string { return t.s }
