package ledger

import (
	"errors"
	"testing"
	"time"

	"sankalp/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseFrequency(t *testing.T) {
	for _, valid := range []string{"Monthly", "Quarterly", "Half-Yearly", "Yearly"} {
		f, err := ParseFrequency(valid)
		if err != nil || string(f) != valid {
			t.Fatalf("ParseFrequency(%q) = (%q, %v), want (%q, nil)", valid, f, err, valid)
		}
	}

	for _, invalid := range []string{"", "monthly", "Weekly", "Biannual"} {
		if _, err := ParseFrequency(invalid); !errors.Is(err, types.ErrInvalidFrequency) {
			t.Fatalf("ParseFrequency(%q) error = %v, want ErrInvalidFrequency", invalid, err)
		}
	}
}

func TestValidateDateRange(t *testing.T) {
	if err := ValidateDateRange(date(2024, 1, 1), date(2025, 1, 1)); err != nil {
		t.Fatalf("ValidateDateRange valid range error = %v", err)
	}
	if err := ValidateDateRange(date(2024, 1, 1), date(2024, 1, 1)); !errors.Is(err, types.ErrInvalidDateRange) {
		t.Fatalf("ValidateDateRange equal dates error = %v, want ErrInvalidDateRange", err)
	}
	if err := ValidateDateRange(date(2024, 6, 1), date(2024, 1, 1)); !errors.Is(err, types.ErrInvalidDateRange) {
		t.Fatalf("ValidateDateRange inverted range error = %v, want ErrInvalidDateRange", err)
	}
}

func TestNextPremiumDate(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		freq  types.PaymentFrequency
		want  time.Time
	}{
		{"monthly plain", date(2024, 3, 15), types.FrequencyMonthly, date(2024, 4, 15)},
		{"monthly clamp leap feb", date(2024, 1, 31), types.FrequencyMonthly, date(2024, 2, 29)},
		{"monthly clamp non-leap feb", date(2023, 1, 31), types.FrequencyMonthly, date(2023, 2, 28)},
		{"monthly clamp 30-day month", date(2024, 5, 31), types.FrequencyMonthly, date(2024, 6, 30)},
		{"monthly year rollover", date(2024, 12, 10), types.FrequencyMonthly, date(2025, 1, 10)},
		{"quarterly", date(2024, 1, 15), types.FrequencyQuarterly, date(2024, 4, 15)},
		{"quarterly clamp", date(2024, 11, 30), types.FrequencyQuarterly, date(2025, 2, 28)},
		{"half-yearly", date(2024, 2, 29), types.FrequencyHalfYearly, date(2024, 8, 29)},
		{"half-yearly clamp", date(2024, 8, 31), types.FrequencyHalfYearly, date(2025, 2, 28)},
		{"yearly", date(2024, 3, 1), types.FrequencyYearly, date(2025, 3, 1)},
		{"yearly clamp feb 29", date(2024, 2, 29), types.FrequencyYearly, date(2025, 2, 28)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextPremiumDate(tc.start, tc.freq)
			if err != nil {
				t.Fatalf("NextPremiumDate error = %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("NextPremiumDate(%s, %s) = %s, want %s",
					tc.start.Format("2006-01-02"), tc.freq, got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
			}
		})
	}

	if _, err := NextPremiumDate(date(2024, 1, 1), types.PaymentFrequency("Weekly")); !errors.Is(err, types.ErrInvalidFrequency) {
		t.Fatalf("NextPremiumDate unknown frequency error = %v, want ErrInvalidFrequency", err)
	}
}

func TestAdvanceCadence(t *testing.T) {
	// Advancing twice from Jan 31 monthly: Feb 29 then Mar 29, the clamp does
	// not restore the original day of month.
	due, err := AdvanceCadence(date(2024, 1, 31), types.FrequencyMonthly)
	if err != nil {
		t.Fatalf("AdvanceCadence error = %v", err)
	}
	due, err = AdvanceCadence(due, types.FrequencyMonthly)
	if err != nil {
		t.Fatalf("AdvanceCadence error = %v", err)
	}
	if want := date(2024, 3, 29); !due.Equal(want) {
		t.Fatalf("AdvanceCadence twice = %s, want %s", due.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}
