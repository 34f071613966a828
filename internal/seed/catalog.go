package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sankalp/internal/store"
	"sankalp/internal/utils"
	"sankalp/pkg/types"
)

type insuranceTypeSeed struct {
	ID          string
	TypeName    string
	Category    string
	Description string
	Icon        string
}

type catalogPolicySeed struct {
	ID             string
	TypeID         string
	PolicyName     string
	ProviderName   string
	CoverageAmount int64
	AnnualPremium  int64
	Details        string
}

var insuranceTypes = []insuranceTypeSeed{
	{ID: "it-health-0000000000000000000001", TypeName: "Health Insurance", Category: "Health", Description: "Hospitalization and medical expense cover", Icon: "heart-pulse"},
	{ID: "it-life-00000000000000000000002", TypeName: "Term Life Insurance", Category: "Life", Description: "Fixed-term life cover for dependents", Icon: "shield"},
	{ID: "it-motor-0000000000000000000003", TypeName: "Motor Insurance", Category: "Vehicle", Description: "Comprehensive and third-party vehicle cover", Icon: "car"},
	{ID: "it-travel-000000000000000000004", TypeName: "Travel Insurance", Category: "Travel", Description: "Trip cancellation, baggage and medical cover abroad", Icon: "plane"},
	{ID: "it-home-00000000000000000000005", TypeName: "Home Insurance", Category: "Property", Description: "Structure and contents cover", Icon: "home"},
}

var catalogPolicies = []catalogPolicySeed{
	{ID: "cp-0000000000000000000000000001", TypeID: "it-health-0000000000000000000001", PolicyName: "Family Health Shield", ProviderName: "Sankalp General", CoverageAmount: 500_000, AnnualPremium: 12_000, Details: "Covers a family of four with cashless hospitalization"},
	{ID: "cp-0000000000000000000000000002", TypeID: "it-health-0000000000000000000001", PolicyName: "Individual Health Plus", ProviderName: "Sankalp General", CoverageAmount: 300_000, AnnualPremium: 7_500, Details: "Single-member plan with annual health checkup"},
	{ID: "cp-0000000000000000000000000003", TypeID: "it-life-00000000000000000000002", PolicyName: "Secure Term 20", ProviderName: "Sankalp Life", CoverageAmount: 5_000_000, AnnualPremium: 15_000, Details: "20-year level term cover"},
	{ID: "cp-0000000000000000000000000004", TypeID: "it-motor-0000000000000000000003", PolicyName: "Comprehensive Car Cover", ProviderName: "Sankalp General", CoverageAmount: 800_000, AnnualPremium: 9_000, Details: "Own damage plus third-party liability"},
	{ID: "cp-0000000000000000000000000005", TypeID: "it-travel-000000000000000000004", PolicyName: "Global Traveller", ProviderName: "Sankalp Assist", CoverageAmount: 2_000_000, AnnualPremium: 4_500, Details: "Worldwide single-trip cover up to 60 days"},
	{ID: "cp-0000000000000000000000000006", TypeID: "it-home-00000000000000000000005", PolicyName: "Home Secure", ProviderName: "Sankalp General", CoverageAmount: 3_000_000, AnnualPremium: 6_000, Details: "Structure and contents against fire, theft and flood"},
}

// SeedCatalog inserts the insurance types and catalog policies, skipping
// rows that already exist.
func SeedCatalog(ctx context.Context, catalogRepo *store.CatalogRepository) error {
	now := time.Now()

	for _, seedType := range insuranceTypes {
		_, err := catalogRepo.TypeByID(ctx, seedType.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("failed to check insurance type %s: %w", seedType.ID, err)
		}

		it := &types.InsuranceType{
			ID:          seedType.ID,
			TypeName:    seedType.TypeName,
			Category:    seedType.Category,
			Description: utils.StringPtr(seedType.Description),
			Icon:        utils.StringPtr(seedType.Icon),
			IsActive:    true,
			CreatedAt:   now,
		}
		if err := catalogRepo.CreateInsuranceType(ctx, it); err != nil {
			return fmt.Errorf("failed to seed insurance type %s: %w", seedType.TypeName, err)
		}
	}

	for _, seedPolicy := range catalogPolicies {
		_, err := catalogRepo.PolicyByID(ctx, seedPolicy.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrPolicyNotFound) {
			return fmt.Errorf("failed to check catalog policy %s: %w", seedPolicy.ID, err)
		}

		p := &types.CatalogPolicy{
			ID:              seedPolicy.ID,
			InsuranceTypeID: seedPolicy.TypeID,
			PolicyName:      seedPolicy.PolicyName,
			ProviderName:    seedPolicy.ProviderName,
			CoverageAmount:  seedPolicy.CoverageAmount,
			AnnualPremium:   seedPolicy.AnnualPremium,
			Details:         utils.StringPtr(seedPolicy.Details),
			IsActive:        true,
			CreatedAt:       now,
		}
		if err := catalogRepo.CreateCatalogPolicy(ctx, p); err != nil {
			return fmt.Errorf("failed to seed catalog policy %s: %w", seedPolicy.PolicyName, err)
		}
	}

	return nil
}
