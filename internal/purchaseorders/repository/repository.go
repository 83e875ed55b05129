// Package repository provides PostgreSQL persistence for purchase orders.
package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opList   = "purchaseorders.Repository.List"
	opCreate = "purchaseorders.Repository.Create"
)

// PurchaseOrdersPageSize is the fixed page size for PO listings.
const PurchaseOrdersPageSize = 50

// PurchaseOrder is the persistence model for a purchase order.
type PurchaseOrder struct {
	ID              int64
	LeadID          int64
	AmountReceived  float64
	AmountRemaining float64
	ReleaseDate     *time.Time
	Note            *string
	CreatedByEmail  string
	CompanyID       *int64
	CreatedAt       time.Time
}

// ListParams carries the composed filters for a PO listing.
type ListParams struct {
	Predicate scope.Predicate
	Query     string
	Page      int
}

// Repository handles purchase order persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const poColumns = `id, lead_id, amount_received, amount_remaining, release_date, note, created_by_email_id, company_id, created_at`

func scanPurchaseOrder(row pgx.Row) (*PurchaseOrder, error) {
	var po PurchaseOrder
	err := row.Scan(&po.ID, &po.LeadID, &po.AmountReceived, &po.AmountRemaining,
		&po.ReleaseDate, &po.Note, &po.CreatedByEmail, &po.CompanyID, &po.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// List returns a scoped page of purchase orders with the total count,
// newest first. Purchase orders have no assignee column, so the creator
// column serves both predicate slots.
func (r *Repository) List(ctx context.Context, params ListParams) ([]PurchaseOrder, int64, error) {
	conds := []string{}
	args := []any{}
	argPos := 1

	argPos, ok := params.Predicate.Apply(&conds, &args, argPos, "created_by_email_id", "created_by_email_id")
	if !ok {
		return []PurchaseOrder{}, 0, nil
	}

	if q := strings.TrimSpace(params.Query); q != "" {
		if id, err := strconv.ParseInt(q, 10, 64); err == nil {
			conds = append(conds, fmt.Sprintf("(id = $%d OR lead_id = $%d)", argPos, argPos+1))
			args = append(args, id, id)
			argPos += 2
		} else {
			conds = append(conds, fmt.Sprintf("(note ILIKE $%d OR created_by_email_id ILIKE $%d)", argPos, argPos+1))
			pattern := "%" + q + "%"
			args = append(args, pattern, pattern)
			argPos += 2
		}
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM po_data`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "count purchase orders", err).WithOp(opList)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PurchaseOrdersPageSize

	query := fmt.Sprintf(`SELECT `+poColumns+` FROM po_data%s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
		where, argPos, argPos+1)
	args = append(args, PurchaseOrdersPageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list purchase orders", err).WithOp(opList)
	}
	defer rows.Close()

	orders := []PurchaseOrder{}
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, 0, apperr.Wrap(apperr.KindInternal, "scan purchase order", err).WithOp(opList)
		}
		orders = append(orders, *po)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "iterate purchase orders", err).WithOp(opList)
	}
	return orders, total, nil
}

// Create inserts a purchase order and returns it with generated fields.
func (r *Repository) Create(ctx context.Context, po *PurchaseOrder) (*PurchaseOrder, error) {
	query := `
		INSERT INTO po_data (lead_id, amount_received, amount_remaining, release_date, note, created_by_email_id, company_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + poColumns

	created, err := scanPurchaseOrder(r.pool.QueryRow(ctx, query,
		po.LeadID, po.AmountReceived, po.AmountRemaining, po.ReleaseDate, po.Note, po.CreatedByEmail, po.CompanyID))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "create purchase order", err).WithOp(opCreate)
	}
	return created, nil
}
