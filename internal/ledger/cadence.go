// Package ledger holds the policy-lifecycle core: payment cadence
// arithmetic, policy/claim numbering and status transitions. Everything here
// is pure computation; persistence lives in internal/store.
package ledger

import (
	"time"

	"sankalp/pkg/types"
)

var cadenceMonths = map[types.PaymentFrequency]int{
	types.FrequencyMonthly:    1,
	types.FrequencyQuarterly:  3,
	types.FrequencyHalfYearly: 6,
	types.FrequencyYearly:     12,
}

// ParseFrequency validates a client-supplied payment frequency against the
// closed Monthly/Quarterly/Half-Yearly/Yearly set. Anything else is rejected
// rather than silently treated as "no advancement".
func ParseFrequency(s string) (types.PaymentFrequency, error) {
	f := types.PaymentFrequency(s)
	if _, ok := cadenceMonths[f]; !ok {
		return "", types.ErrInvalidFrequency
	}
	return f, nil
}

// ValidateDateRange enforces start strictly before end.
func ValidateDateRange(start, end time.Time) error {
	if !start.Before(end) {
		return types.ErrInvalidDateRange
	}
	return nil
}

// NextPremiumDate returns the first premium due date for a policy starting
// at start: one cadence unit later, with month-end clamping (Jan 31 plus one
// month is the last day of February, never March).
func NextPremiumDate(start time.Time, freq types.PaymentFrequency) (time.Time, error) {
	months, ok := cadenceMonths[freq]
	if !ok {
		return time.Time{}, types.ErrInvalidFrequency
	}
	return addMonthsClamped(start, months), nil
}

// AdvanceCadence moves an existing due date forward by one cadence unit.
func AdvanceCadence(due time.Time, freq types.PaymentFrequency) (time.Time, error) {
	return NextPremiumDate(due, freq)
}

// addMonthsClamped adds calendar months keeping the day of month, clamped to
// the last day of the target month. time.Time.AddDate normalizes overflow
// (Jan 31 + 1 month = Mar 2/3), which is the wrong semantics here.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}
