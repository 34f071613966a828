package store

import (
	"context"
	"fmt"
	"time"

	"sankalp/internal/ledger"
	"sankalp/internal/utils"
	"sankalp/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userPolicyTableName = "sankalp.user_policies"

var userPolicyColumns = utils.StructTagValues(types.UserPolicy{})

// PolicyLedgerRepository persists purchased policy instances.
type PolicyLedgerRepository struct {
	pool *pgxpool.Pool
}

func NewPolicyLedgerRepository(pool *pgxpool.Pool) *PolicyLedgerRepository {
	return &PolicyLedgerRepository{pool: pool}
}

// PurchasePolicy inserts a new ledger entry. The policy number is generated
// here and regenerated on a uniqueness collision before the insert is
// declared failed.
func (r *PolicyLedgerRepository) PurchasePolicy(ctx context.Context, entry *types.UserPolicy) error {

	entry.ID = utils.NanoID()
	entry.Status = types.PolicyStatusActive
	entry.PurchasedAt = time.Now()

	for attempt := 0; ; attempt++ {
		entry.PolicyNumber = ledger.PolicyNumber(time.Now())

		query, args, err := psql().Insert(userPolicyTableName).SetMap(utils.StructToMap(entry)).ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate insert user policy query: %w", err)
		}

		_, err = r.pool.Exec(ctx, query, args...)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("failed to create user policy: %w", err)
		}
		if attempt >= numberRetries {
			return types.ErrDuplicateIdentifier
		}
	}
}

// PoliciesByUser lists a user's ledger entries joined with catalog fields,
// most recently purchased first.
func (r *PolicyLedgerRepository) PoliciesByUser(ctx context.Context, userID string) ([]*types.UserPolicyDetail, error) {

	query, args, err := psql().
		Select(userPolicyDetailColumns()...).
		From(userPolicyTableName + " up").
		Join(catalogPolicyTableName + " p ON up.policy_id = p.id").
		Join(insuranceTypeTableName + " it ON p.insurance_type_id = it.id").
		Where(sq.Eq{"up.user_id": userID}).
		OrderBy("up.purchased_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user policies query: %w", err)
	}

	var policies = make([]*types.UserPolicyDetail, 0)
	err = pgxscan.Select(ctx, r.pool, &policies, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user policies: %w", err)
	}

	return policies, nil
}

func (r *PolicyLedgerRepository) PolicyByID(ctx context.Context, entryID string) (*types.UserPolicy, error) {
	query, args, err := psql().
		Select(userPolicyColumns...).
		From(userPolicyTableName).
		Where(sq.Eq{"id": entryID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user policy query: %w", err)
	}

	var entry types.UserPolicy
	err = pgxscan.Get(ctx, r.pool, &entry, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to fetch user policy: %w", err)
	}

	return &entry, nil
}

// UpdateStatus persists a lifecycle transition already validated by the
// caller.
func (r *PolicyLedgerRepository) UpdateStatus(ctx context.Context, entryID string, status types.PolicyStatus) error {
	query, args, err := psql().
		Update(userPolicyTableName).
		Set("status", status).
		Where(sq.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate status update query for policy %s: %w", entryID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to update policy status")
}

// AdvanceNextPremium moves the next-premium-due date forward after a premium
// payment.
func (r *PolicyLedgerRepository) AdvanceNextPremium(ctx context.Context, entryID string, next time.Time) error {
	query, args, err := psql().
		Update(userPolicyTableName).
		Set("next_premium_date", next).
		Where(sq.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate premium advance query for policy %s: %w", entryID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to advance next premium date")
}

func userPolicyDetailColumns() []string {
	return append(
		utils.PrefixSliceOfStrings("up", userPolicyColumns),
		"p.policy_name", "p.provider_name", "p.coverage_amount", "p.details",
		"it.type_name", "it.category", "it.icon",
	)
}
