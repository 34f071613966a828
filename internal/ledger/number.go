package ledger

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Human-facing identifiers combine the low-order digits of the creation
// instant in milliseconds with a random suffix, e.g. POL-123456-042. They are
// not guaranteed unique; callers retry against the uniqueness constraint.

func PolicyNumber(now time.Time) string {
	return fmt.Sprintf("POL-%06d-%03d", now.UnixMilli()%1_000_000, rand.IntN(1000))
}

func ClaimNumber(now time.Time) string {
	return fmt.Sprintf("CLM-%08d-%04d", now.UnixMilli()%100_000_000, rand.IntN(10000))
}

func TicketNumber(now time.Time) string {
	return fmt.Sprintf("TKT-%d-%d", now.UnixMilli(), rand.IntN(1000))
}
