// Package repository provides PostgreSQL persistence for broadcast
// notifications.
package repository

import (
	"context"
	"time"

	"leadhub_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opList   = "notifications.Repository.List"
	opCreate = "notifications.Repository.Create"
	opDelete = "notifications.Repository.Delete"
)

// NotificationsPageSize is the fixed page size for notification listings.
const NotificationsPageSize = 20

// Notification is the persistence model for a broadcast notification.
type Notification struct {
	ID             int64
	Title          string
	Message        string
	CreatedByEmail string
	CreatedAt      time.Time
}

// Repository handles notification persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const notificationColumns = `id, title, message, created_by_email_id, created_at`

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	if err := row.Scan(&n.ID, &n.Title, &n.Message, &n.CreatedByEmail, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns one page of notifications with the total count, newest first.
// Broadcasts are globally readable, no scope predicate applies.
func (r *Repository) List(ctx context.Context, page int) ([]Notification, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM broadcast_notifications`).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "count notifications", err).WithOp(opList)
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * NotificationsPageSize

	rows, err := r.pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM broadcast_notifications ORDER BY id DESC LIMIT $1 OFFSET $2`,
		NotificationsPageSize, offset)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list notifications", err).WithOp(opList)
	}
	defer rows.Close()

	notifications := []Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, apperr.Wrap(apperr.KindInternal, "scan notification", err).WithOp(opList)
		}
		notifications = append(notifications, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "iterate notifications", err).WithOp(opList)
	}
	return notifications, total, nil
}

// Create inserts a notification and returns it with generated fields.
func (r *Repository) Create(ctx context.Context, n *Notification) (*Notification, error) {
	query := `
		INSERT INTO broadcast_notifications (title, message, created_by_email_id)
		VALUES ($1, $2, $3)
		RETURNING ` + notificationColumns

	created, err := scanNotification(r.pool.QueryRow(ctx, query, n.Title, n.Message, n.CreatedByEmail))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "create notification", err).WithOp(opCreate)
	}
	return created, nil
}

// Delete removes a notification permanently.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM broadcast_notifications WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete notification", err).WithOp(opDelete)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found").WithOp(opDelete)
	}
	return nil
}
