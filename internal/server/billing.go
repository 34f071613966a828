package server

import (
	"net/http"
	"time"

	"sankalp/internal/ledger"
	"sankalp/pkg/types"
)

// handlePayPremium collects the next premium for an Active ledger entry.
// The payment intent is created first; the due date only advances once the
// provider accepted the charge request.
func (s *Service) handlePayPremium(w http.ResponseWriter, r *http.Request) {
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
	if entry.Status != types.PolicyStatusActive {
		s.respondError(w, http.StatusConflict, "Premiums can only be paid on active policies")
		return
	}

	clientSecret, err := s.payments.CreatePremiumPayment(ctx, entry.PremiumAmount, s.config.PaymentCurrency, entry.PolicyNumber)
	if err != nil {
		s.logger.WithError(err).WithField("policy_id", entry.ID).Error("failed to create premium payment")
		s.internalServerError(w)
		return
	}

	next, err := ledger.AdvanceCadence(entry.NextPremiumDate, entry.PaymentFrequency)
	if err != nil {
		s.logger.WithError(err).WithField("policy_id", entry.ID).Error("stored payment frequency is invalid")
		s.internalServerError(w)
		return
	}

	if err := s.policies.AdvanceNextPremium(ctx, entry.ID, next); err != nil {
		s.logger.WithError(err).WithField("policy_id", entry.ID).Error("failed to advance next premium date")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"message":           "Premium payment initiated",
		"client_secret":     clientSecret,
		"next_premium_date": next.Format(dateLayout),
	})
}
