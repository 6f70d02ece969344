package postgres

import (
	"context"
	"fmt"
	"time"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/repository"
)

const (
	insertNotification = `INSERT INTO notifications (user_id, type, message, is_read, created_at)
	                      VALUES ($1, $2, $3, false, $4) RETURNING id`

	countNotifications = `SELECT count(*) FROM notifications WHERE user_id = $1 AND deleted_at IS NULL`

	selectNotifications = `SELECT id, user_id, type, message, is_read, created_at FROM notifications
	                       WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	markNotificationRead = `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
)

type notificationRepository struct {
	db repository.DBTX
}

func NewNotificationRepository(db repository.DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	n.CreatedAt = time.Now()
	return r.db.QueryRowContext(ctx, insertNotification, n.UserID, n.Type, n.Message, n.CreatedAt).Scan(&n.ID)
}

func (r *notificationRepository) List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, countNotifications, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	rows, err := r.db.QueryContext(ctx, selectNotifications, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var list []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, n)
	}
	return list, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	res, err := r.db.ExecContext(ctx, markNotificationRead, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, "Notification not found")
}
