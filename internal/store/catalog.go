package store

import (
	"context"
	"fmt"

	"sankalp/internal/utils"
	"sankalp/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	insuranceTypeTableName = "sankalp.insurance_types"
	catalogPolicyTableName = "sankalp.policies"
)

var (
	insuranceTypeColumns = utils.StructTagValues(types.InsuranceType{})
	catalogPolicyColumns = utils.StructTagValues(types.CatalogPolicy{})
)

// CatalogRepository reads the insurance product catalog. The catalog is
// read-only from the application's perspective; rows are maintained by seeds.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ActiveTypes lists active insurance types with the count of active catalog
// policies each one offers.
func (r *CatalogRepository) ActiveTypes(ctx context.Context) ([]*types.InsuranceTypeWithCount, error) {

	columns := append(
		utils.PrefixSliceOfStrings("it", insuranceTypeColumns),
		"COUNT(p.id) AS policy_count",
	)

	query, args, err := psql().
		Select(columns...).
		From(insuranceTypeTableName + " it").
		LeftJoin(catalogPolicyTableName + " p ON it.id = p.insurance_type_id AND p.is_active = true").
		Where(sq.Eq{"it.is_active": true}).
		GroupBy("it.id").
		OrderBy("it.type_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insurance types query: %w", err)
	}

	var products = make([]*types.InsuranceTypeWithCount, 0)
	err = pgxscan.Select(ctx, r.pool, &products, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch insurance types: %w", err)
	}

	return products, nil
}

// PoliciesByType lists active catalog policies under an insurance type,
// cheapest annual premium first.
func (r *CatalogRepository) PoliciesByType(ctx context.Context, typeID string) ([]*types.CatalogPolicy, error) {
	query, args, err := psql().
		Select(catalogPolicyColumns...).
		From(catalogPolicyTableName).
		Where(sq.Eq{"insurance_type_id": typeID, "is_active": true}).
		OrderBy("annual_premium ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate policies-by-type query: %w", err)
	}

	var policies = make([]*types.CatalogPolicy, 0)
	err = pgxscan.Select(ctx, r.pool, &policies, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch policies by type: %w", err)
	}

	return policies, nil
}

func (r *CatalogRepository) PolicyByID(ctx context.Context, policyID string) (*types.CatalogPolicy, error) {
	query, args, err := psql().
		Select(catalogPolicyColumns...).
		From(catalogPolicyTableName).
		Where(sq.Eq{"id": policyID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate catalog policy query: %w", err)
	}

	var policy types.CatalogPolicy
	err = pgxscan.Get(ctx, r.pool, &policy, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to fetch catalog policy: %w", err)
	}

	return &policy, nil
}

func (r *CatalogRepository) TypeByID(ctx context.Context, typeID string) (*types.InsuranceType, error) {
	query, args, err := psql().
		Select(insuranceTypeColumns...).
		From(insuranceTypeTableName).
		Where(sq.Eq{"id": typeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insurance type query: %w", err)
	}

	var it types.InsuranceType
	err = pgxscan.Get(ctx, r.pool, &it, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch insurance type: %w", err)
	}

	return &it, nil
}

// CreateInsuranceType and CreateCatalogPolicy exist for the seed command.

func (r *CatalogRepository) CreateInsuranceType(ctx context.Context, it *types.InsuranceType) error {
	query, args, err := psql().Insert(insuranceTypeTableName).SetMap(utils.StructToMap(it)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert insurance type query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create insurance type")
}

func (r *CatalogRepository) CreateCatalogPolicy(ctx context.Context, p *types.CatalogPolicy) error {
	query, args, err := psql().Insert(catalogPolicyTableName).SetMap(utils.StructToMap(p)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert catalog policy query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create catalog policy")
}
