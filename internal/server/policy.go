package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sankalp/internal/ledger"
	"sankalp/pkg/types"
)

const dateLayout = "2006-01-02"

func (s *Service) handlePurchasePolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("user id not found in context")
		s.internalServerError(w)
		return
	}

	var input types.PurchasePolicyInput
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	startDate, err := time.Parse(dateLayout, input.StartDate)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid start date")
		return
	}
	endDate, err := time.Parse(dateLayout, input.EndDate)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid end date")
		return
	}

	if err := ledger.ValidateDateRange(startDate, endDate); err != nil {
		s.respondError(w, http.StatusBadRequest, "End date must be after start date")
		return
	}

	frequency, err := ledger.ParseFrequency(input.PaymentFrequency)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Unrecognized payment frequency")
		return
	}

	if _, err := s.catalog.PolicyByID(ctx, input.PolicyID); err != nil {
		if errors.Is(err, types.ErrPolicyNotFound) {
			s.respondError(w, http.StatusNotFound, "Policy not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch catalog policy for purchase")
		s.internalServerError(w)
		return
	}

	nextPremium, err := ledger.NextPremiumDate(startDate, frequency)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Unrecognized payment frequency")
		return
	}

	entry := &types.UserPolicy{
		UserID:           userID,
		PolicyID:         input.PolicyID,
		StartDate:        startDate,
		EndDate:          endDate,
		PremiumAmount:    input.PremiumAmount,
		PaymentFrequency: frequency,
		NextPremiumDate:  nextPremium,
	}

	if err := s.policies.PurchasePolicy(ctx, entry); err != nil {
		if errors.Is(err, types.ErrDuplicateIdentifier) {
			s.respondError(w, http.StatusConflict, "Could not allocate a policy number, please retry")
			return
		}
		s.logger.WithError(err).Error("failed to purchase policy")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"message":       "Policy purchased successfully",
		"policy_number": entry.PolicyNumber,
		"id":            entry.ID,
	})
}

func (s *Service) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("user id not found in context")
		s.internalServerError(w)
		return
	}

	policies, err := s.policies.PoliciesByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch user policies")
		s.internalServerError(w)
		return
	}

	now := time.Now()
	for _, detail := range policies {
		s.applyLazyExpiry(ctx, &detail.UserPolicy, now)
	}

	s.respondJSON(w, http.StatusOK, policies)
}

func (s *Service) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("user id not found in context")
		s.internalServerError(w)
		return
	}

	entry, err := s.ownedPolicy(ctx, r.PathValue("id"), userID)
	if err != nil {
		s.respondPolicyError(w, err)
		return
	}

	s.applyLazyExpiry(ctx, entry, time.Now())
	s.respondJSON(w, http.StatusOK, entry)
}

func (s *Service) handleCancelPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("user id not found in context")
		s.internalServerError(w)
		return
	}

	entry, err := s.ownedPolicy(ctx, r.PathValue("id"), userID)
	if err != nil {
		s.respondPolicyError(w, err)
		return
	}

	// Expiry wins over cancellation when the end date has already passed.
	s.applyLazyExpiry(ctx, entry, time.Now())

	next, err := ledger.TransitionPolicy(entry.Status, types.PolicyStatusCancelled)
	if err != nil {
		s.respondError(w, http.StatusConflict, "Policy cannot be cancelled in its current state")
		return
	}

	if err := s.policies.UpdateStatus(ctx, entry.ID, next); err != nil {
		s.logger.WithError(err).WithField("policy_id", entry.ID).Error("failed to cancel policy")
		s.internalServerError(w)
		return
	}

	entry.Status = next
	s.respondJSON(w, http.StatusOK, map[string]any{
		"message": "Policy cancelled",
		"status":  entry.Status,
	})
}

// ownedPolicy loads a ledger entry and enforces ownership.
func (s *Service) ownedPolicy(ctx context.Context, entryID, userID string) (*types.UserPolicy, error) {
	entry, err := s.policies.PolicyByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if entry.UserID != userID {
		return nil, types.ErrOwnershipViolation
	}

	return entry, nil
}

// respondPolicyError maps ownedPolicy failures to HTTP statuses.
func (s *Service) respondPolicyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrPolicyNotFound):
		s.respondError(w, http.StatusNotFound, "Policy not found")
	case errors.Is(err, types.ErrOwnershipViolation):
		s.respondError(w, http.StatusForbidden, "Access denied to this policy")
	default:
		s.logger.WithError(err).Error("failed to fetch policy")
		s.internalServerError(w)
	}
}

// applyLazyExpiry persists the Active -> Expired transition the first time an
// entry is read past its end date. The persisted write is best effort; the
// response always reflects the effective status.
func (s *Service) applyLazyExpiry(ctx context.Context, entry *types.UserPolicy, now time.Time) {
	effective := ledger.EffectivePolicyStatus(entry, now)
	if effective == entry.Status {
		return
	}

	if err := s.policies.UpdateStatus(ctx, entry.ID, effective); err != nil {
		s.logger.WithError(err).WithField("policy_id", entry.ID).Warn("failed to persist policy expiry")
	}
	entry.Status = effective
}
