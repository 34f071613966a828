package types

import "time"

type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "Active"
	PolicyStatusExpired   PolicyStatus = "Expired"
	PolicyStatusCancelled PolicyStatus = "Cancelled"
)

type PaymentFrequency string

const (
	FrequencyMonthly    PaymentFrequency = "Monthly"
	FrequencyQuarterly  PaymentFrequency = "Quarterly"
	FrequencyHalfYearly PaymentFrequency = "Half-Yearly"
	FrequencyYearly     PaymentFrequency = "Yearly"
)

// UserPolicy is a ledger entry: one purchased instance of a catalog policy,
// owned by exactly one user.
type UserPolicy struct {
	ID               string           `db:"id" json:"id"`
	UserID           string           `db:"user_id" json:"user_id"`
	PolicyID         string           `db:"policy_id" json:"policy_id"`
	PolicyNumber     string           `db:"policy_number" json:"policy_number"`
	StartDate        time.Time        `db:"start_date" json:"start_date"`
	EndDate          time.Time        `db:"end_date" json:"end_date"`
	PremiumAmount    int64            `db:"premium_amount" json:"premium_amount"`
	PaymentFrequency PaymentFrequency `db:"payment_frequency" json:"payment_frequency"`
	NextPremiumDate  time.Time        `db:"next_premium_date" json:"next_premium_date"`
	Status           PolicyStatus     `db:"status" json:"status"`
	PurchasedAt      time.Time        `db:"purchased_at" json:"purchased_at"`
}

// UserPolicyDetail joins the ledger entry with its catalog fields for
// user-facing listings.
type UserPolicyDetail struct {
	UserPolicy
	PolicyName     string  `db:"policy_name" json:"policy_name"`
	ProviderName   string  `db:"provider_name" json:"provider_name"`
	CoverageAmount int64   `db:"coverage_amount" json:"coverage_amount"`
	Details        *string `db:"details" json:"details"`
	TypeName       string  `db:"type_name" json:"type_name"`
	Category       string  `db:"category" json:"category"`
	Icon           *string `db:"icon" json:"icon"`
}

// PurchasePolicyInput is the purchase request payload.
type PurchasePolicyInput struct {
	PolicyID         string `json:"policy_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	PremiumAmount    int64  `json:"premium_amount"`
	PaymentFrequency string `json:"payment_frequency"`
}
