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

const (
	claimTableName         = "sankalp.claims"
	claimDocumentTableName = "sankalp.claim_documents"
)

var (
	claimColumns         = utils.StructTagValues(types.Claim{})
	claimDocumentColumns = utils.StructTagValues(types.ClaimDocument{})
)

type ClaimRepository struct {
	pool *pgxpool.Pool
}

func NewClaimRepository(pool *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

// FileClaim inserts a claim and its document rows in one transaction. The
// filing date is server-assigned and the claim starts Pending. A claim-number
// collision restarts the transaction with a fresh number; a document insert
// failure rolls everything back.
func (r *ClaimRepository) FileClaim(ctx context.Context, claim *types.Claim, docs []*types.ClaimDocument) error {

	claim.ID = utils.NanoID()
	claim.Status = types.ClaimStatusPending
	claim.FilingDate = time.Now()

	for attempt := 0; ; attempt++ {
		claim.ClaimNumber = ledger.ClaimNumber(time.Now())

		err := r.fileClaimOnce(ctx, claim, docs)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		if attempt >= numberRetries {
			return types.ErrDuplicateIdentifier
		}
	}
}

func (r *ClaimRepository) fileClaimOnce(ctx context.Context, claim *types.Claim, docs []*types.ClaimDocument) error {

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql().Insert(claimTableName).SetMap(utils.StructToMap(claim)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert claim query: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create claim: %w", err)
	}

	if len(docs) > 0 {
		builder := psql().Insert(claimDocumentTableName).Columns(claimDocumentColumns...)

		now := time.Now()
		for _, doc := range docs {
			doc.ID = utils.NanoID()
			doc.ClaimID = claim.ID
			doc.UploadedAt = now

			builder = builder.Values(
				doc.ID,
				doc.ClaimID,
				doc.DocumentName,
				doc.DocumentType,
				doc.StorageKey,
				doc.FileSizeBytes,
				doc.MimeType,
				doc.UploadedAt,
			)
		}

		query, args, err = builder.ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate insert claim documents query: %w", err)
		}

		if _, err = tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to create claim documents: %w", types.ErrPartialWriteFailure)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit claim transaction: %w", types.ErrPartialWriteFailure)
	}

	return nil
}

// ClaimsByUser lists claims against any of the user's ledger entries,
// most recently filed first.
func (r *ClaimRepository) ClaimsByUser(ctx context.Context, userID string) ([]*types.ClaimDetail, error) {

	columns := append(
		utils.PrefixSliceOfStrings("c", claimColumns),
		"up.policy_number", "p.policy_name", "it.type_name",
	)

	query, args, err := psql().
		Select(columns...).
		From(claimTableName + " c").
		Join(userPolicyTableName + " up ON c.user_policy_id = up.id").
		Join(catalogPolicyTableName + " p ON up.policy_id = p.id").
		Join(insuranceTypeTableName + " it ON p.insurance_type_id = it.id").
		Where(sq.Eq{"up.user_id": userID}).
		OrderBy("c.filing_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user claims query: %w", err)
	}

	var claims = make([]*types.ClaimDetail, 0)
	err = pgxscan.Select(ctx, r.pool, &claims, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user claims: %w", err)
	}

	return claims, nil
}

// DocumentsByClaimID lists the attachments recorded for a claim.
func (r *ClaimRepository) DocumentsByClaimID(ctx context.Context, claimID string) ([]*types.ClaimDocument, error) {
	query, args, err := psql().
		Select(claimDocumentColumns...).
		From(claimDocumentTableName).
		Where(sq.Eq{"claim_id": claimID}).
		OrderBy("uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate claim documents query: %w", err)
	}

	var docs = make([]*types.ClaimDocument, 0)
	err = pgxscan.Select(ctx, r.pool, &docs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch claim documents: %w", err)
	}

	return docs, nil
}
