// Package repository provides aggregate count queries for the insights
// dashboard. Each context is one round trip using COUNT(*) FILTER.
package repository

import (
	"context"
	"strings"

	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opAllLeads       = "insights.Repository.AllLeadCounters"
	opMyLeads        = "insights.Repository.MyLeadCounters"
	opScheduledLeads = "insights.Repository.ScheduledLeadCounters"
	opUsers          = "insights.Repository.UserCounters"
	opOverview       = "insights.Repository.OverviewCounters"
)

// Quad is a context's four counters in display order.
type Quad struct {
	Metric1 int64
	Metric2 int64
	Metric3 int64
	Metric4 int64
}

// Overview carries the cross-entity totals.
type Overview struct {
	AllComments   int64
	MyComments    int64
	Companies     int64
	Notifications int64
}

// Repository computes scoped aggregates.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// AllLeadCounters returns total, created today, In Conversation, and PO
// counts over the scoped lead set.
func (r *Repository) AllLeadCounters(ctx context.Context, pred scope.Predicate) (Quad, error) {
	conds := []string{"is_deleted = FALSE"}
	args := []any{}
	if _, ok := pred.Apply(&conds, &args, 1, "created_by_email_id", "assigned_to_email_id"); !ok {
		return Quad{}, nil
	}

	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE created_time >= CURRENT_DATE),
			COUNT(*) FILTER (WHERE status = 'In Conversation'),
			COUNT(*) FILTER (WHERE status = 'PO')
		FROM leads WHERE ` + strings.Join(conds, " AND ")

	var q Quad
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&q.Metric1, &q.Metric2, &q.Metric3, &q.Metric4); err != nil {
		return Quad{}, apperr.Wrap(apperr.KindInternal, "all-lead counters", err).WithOp(opAllLeads)
	}
	return q, nil
}

// MyLeadCounters returns the actor's own total, Scheduled-today,
// In Conversation, and PO counts.
func (r *Repository) MyLeadCounters(ctx context.Context, actorEmail string) (Quad, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Scheduled' AND schedule_time >= CURRENT_DATE AND schedule_time < CURRENT_DATE + INTERVAL '1 day'),
			COUNT(*) FILTER (WHERE status = 'In Conversation'),
			COUNT(*) FILTER (WHERE status = 'PO')
		FROM leads WHERE is_deleted = FALSE AND created_by_email_id = $1`

	var q Quad
	if err := r.pool.QueryRow(ctx, query, actorEmail).Scan(&q.Metric1, &q.Metric2, &q.Metric3, &q.Metric4); err != nil {
		return Quad{}, apperr.Wrap(apperr.KindInternal, "my-lead counters", err).WithOp(opMyLeads)
	}
	return q, nil
}

// ScheduledLeadCounters returns total Scheduled, scheduled today, overdue,
// and upcoming counts over the scoped lead set.
func (r *Repository) ScheduledLeadCounters(ctx context.Context, pred scope.Predicate) (Quad, error) {
	conds := []string{"is_deleted = FALSE", "status = 'Scheduled'"}
	args := []any{}
	if _, ok := pred.Apply(&conds, &args, 1, "created_by_email_id", "assigned_to_email_id"); !ok {
		return Quad{}, nil
	}

	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE schedule_time >= CURRENT_DATE AND schedule_time < CURRENT_DATE + INTERVAL '1 day'),
			COUNT(*) FILTER (WHERE schedule_time < NOW()),
			COUNT(*) FILTER (WHERE schedule_time > NOW())
		FROM leads WHERE ` + strings.Join(conds, " AND ")

	var q Quad
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&q.Metric1, &q.Metric2, &q.Metric3, &q.Metric4); err != nil {
		return Quad{}, apperr.Wrap(apperr.KindInternal, "scheduled-lead counters", err).WithOp(opScheduledLeads)
	}
	return q, nil
}

// UserCounters returns total, admin, user, and created-in-last-30-days
// counts over the scoped profile set.
func (r *Repository) UserCounters(ctx context.Context, pred scope.Predicate) (Quad, error) {
	conds := []string{}
	args := []any{}
	if _, ok := pred.ApplyCompany(&conds, &args, 1, "company_id"); !ok {
		return Quad{}, nil
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE role_id = 1),
			COUNT(*) FILTER (WHERE role_id = 0),
			COUNT(*) FILTER (WHERE created_time >= NOW() - INTERVAL '30 days')
		FROM profiles` + where

	var q Quad
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&q.Metric1, &q.Metric2, &q.Metric3, &q.Metric4); err != nil {
		return Quad{}, apperr.Wrap(apperr.KindInternal, "user counters", err).WithOp(opUsers)
	}
	return q, nil
}

// OverviewCounters returns scoped comment totals plus global company and
// notification totals.
func (r *Repository) OverviewCounters(ctx context.Context, pred scope.Predicate, actorEmail string) (Overview, error) {
	var o Overview

	conds := []string{"is_deleted = FALSE"}
	args := []any{}
	if _, ok := pred.Apply(&conds, &args, 1, "created_by_email_id", "created_by_email_id"); ok {
		query := `SELECT COUNT(*) FROM comments WHERE ` + strings.Join(conds, " AND ")
		if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.AllComments); err != nil {
			return Overview{}, apperr.Wrap(apperr.KindInternal, "comment total", err).WithOp(opOverview)
		}
	}

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE is_deleted = FALSE AND created_by_email_id = $1`,
		actorEmail).Scan(&o.MyComments)
	if err != nil {
		return Overview{}, apperr.Wrap(apperr.KindInternal, "my comment total", err).WithOp(opOverview)
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM company`).Scan(&o.Companies); err != nil {
		return Overview{}, apperr.Wrap(apperr.KindInternal, "company total", err).WithOp(opOverview)
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM broadcast_notifications`).Scan(&o.Notifications); err != nil {
		return Overview{}, apperr.Wrap(apperr.KindInternal, "notification total", err).WithOp(opOverview)
	}
	return o, nil
}
