package store

import (
	"context"
	"fmt"
	"time"

	"sankalp/internal/utils"
	"sankalp/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationTableName = "sankalp.notifications"

var notificationColumns = utils.StructTagValues(types.Notification{})

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// NotificationsByUser returns the user's latest 50 notifications.
func (r *NotificationRepository) NotificationsByUser(ctx context.Context, userID string) ([]*types.Notification, error) {
	query, args, err := psql().
		Select(notificationColumns...).
		From(notificationTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(50).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate notifications query: %w", err)
	}

	var notifications = make([]*types.Notification, 0)
	err = pgxscan.Select(ctx, r.pool, &notifications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead flags a notification as read, scoped to its owner so one user
// cannot touch another's rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	query, args, err := psql().
		Update(notificationTableName).
		Set("is_read", true).
		Where(sq.Eq{"id": notificationID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate mark-read query for notification %s: %w", notificationID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to mark notification read")
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n *types.Notification) error {

	n.ID = utils.NanoID()
	n.CreatedAt = time.Now()

	query, args, err := psql().Insert(notificationTableName).SetMap(utils.StructToMap(n)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert notification query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create notification")
}
