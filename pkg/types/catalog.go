package types

import "time"

// InsuranceType is a top-level product category (health, motor, term life...).
type InsuranceType struct {
	ID          string    `db:"id" json:"id"`
	TypeName    string    `db:"type_name" json:"type_name"`
	Category    string    `db:"category" json:"category"`
	Description *string   `db:"description" json:"description"`
	Icon        *string   `db:"icon" json:"icon"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// InsuranceTypeWithCount is the products listing row: a type plus how many
// active catalog policies it currently offers.
type InsuranceTypeWithCount struct {
	InsuranceType
	PolicyCount int `db:"policy_count" json:"policy_count"`
}

// CatalogPolicy is one purchasable product under an insurance type.
type CatalogPolicy struct {
	ID              string    `db:"id" json:"id"`
	InsuranceTypeID string    `db:"insurance_type_id" json:"insurance_type_id"`
	PolicyName      string    `db:"policy_name" json:"policy_name"`
	ProviderName    string    `db:"provider_name" json:"provider_name"`
	CoverageAmount  int64     `db:"coverage_amount" json:"coverage_amount"`
	AnnualPremium   int64     `db:"annual_premium" json:"annual_premium"`
	Details         *string   `db:"details" json:"details"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
