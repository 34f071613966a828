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

const supportTicketTableName = "sankalp.support_tickets"

var supportTicketColumns = utils.StructTagValues(types.SupportTicket{})

type SupportRepository struct {
	pool *pgxpool.Pool
}

func NewSupportRepository(pool *pgxpool.Pool) *SupportRepository {
	return &SupportRepository{pool: pool}
}

// CreateTicket inserts a new support ticket with a generated ticket number,
// regenerated on collision.
func (r *SupportRepository) CreateTicket(ctx context.Context, ticket *types.SupportTicket) error {

	now := time.Now()
	ticket.ID = utils.NanoID()
	ticket.Status = types.TicketStatusOpen
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	for attempt := 0; ; attempt++ {
		ticket.TicketNumber = ledger.TicketNumber(time.Now())

		query, args, err := psql().Insert(supportTicketTableName).SetMap(utils.StructToMap(ticket)).ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate insert ticket query: %w", err)
		}

		_, err = r.pool.Exec(ctx, query, args...)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("failed to create support ticket: %w", err)
		}
		if attempt >= numberRetries {
			return types.ErrDuplicateIdentifier
		}
	}
}

// TicketsByUser lists the user's tickets newest first.
func (r *SupportRepository) TicketsByUser(ctx context.Context, userID string) ([]*types.SupportTicket, error) {
	query, args, err := psql().
		Select(supportTicketColumns...).
		From(supportTicketTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tickets query: %w", err)
	}

	var tickets = make([]*types.SupportTicket, 0)
	err = pgxscan.Select(ctx, r.pool, &tickets, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch support tickets: %w", err)
	}

	return tickets, nil
}
