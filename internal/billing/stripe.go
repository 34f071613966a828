// Package billing wraps the Stripe client for premium collection.
package billing

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"
)

type StripePayments struct{}

// NewStripePayments configures the package-level Stripe key and returns the
// payment client.
func NewStripePayments(secretKey string) *StripePayments {
	stripe.Key = secretKey
	return &StripePayments{}
}

// CreatePremiumPayment opens a payment intent for one premium installment and
// returns its client secret for the caller to complete.
func (p *StripePayments) CreatePremiumPayment(ctx context.Context, amount int64, currency, policyNumber string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(currency),
		Description: stripe.String(fmt.Sprintf("Premium for policy %s", policyNumber)),
	}
	params.Context = ctx
	params.AddMetadata("policy_number", policyNumber)

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	return intent.ClientSecret, nil
}
