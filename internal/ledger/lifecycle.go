package ledger

import (
	"fmt"
	"time"

	"sankalp/pkg/types"
)

var policyTransitions = map[types.PolicyStatus][]types.PolicyStatus{
	types.PolicyStatusActive: {types.PolicyStatusExpired, types.PolicyStatusCancelled},
}

var claimTransitions = map[types.ClaimStatus][]types.ClaimStatus{
	types.ClaimStatusPending:  {types.ClaimStatusApproved, types.ClaimStatusRejected},
	types.ClaimStatusApproved: {types.ClaimStatusPaid},
}

// TransitionPolicy validates a policy status change against the lifecycle:
// Active may expire or be cancelled, terminal states admit nothing.
func TransitionPolicy(from, to types.PolicyStatus) (types.PolicyStatus, error) {
	for _, allowed := range policyTransitions[from] {
		if to == allowed {
			return to, nil
		}
	}
	return from, fmt.Errorf("policy %s -> %s: %w", from, to, types.ErrInvalidTransition)
}

// TransitionClaim validates a claim status change: Pending may be approved or
// rejected, Approved may be paid.
func TransitionClaim(from, to types.ClaimStatus) (types.ClaimStatus, error) {
	for _, allowed := range claimTransitions[from] {
		if to == allowed {
			return to, nil
		}
	}
	return from, fmt.Errorf("claim %s -> %s: %w", from, to, types.ErrInvalidTransition)
}

// EffectivePolicyStatus evaluates time-driven expiry lazily: an Active entry
// whose end date has passed reads as Expired. Callers persist the change.
func EffectivePolicyStatus(p *types.UserPolicy, now time.Time) types.PolicyStatus {
	if p.Status == types.PolicyStatusActive && p.EndDate.Before(truncateToDay(now)) {
		return types.PolicyStatusExpired
	}
	return p.Status
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
