// Package repository provides PostgreSQL persistence for companies.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"leadhub_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opGet    = "companies.Repository.Get"
	opList   = "companies.Repository.List"
	opCreate = "companies.Repository.Create"
	opUpdate = "companies.Repository.Update"
	opDelete = "companies.Repository.Delete"
)

// CompaniesPageSize is the fixed page size for company listings.
const CompaniesPageSize = 10

// Company is the persistence model for a company.
type Company struct {
	ID             int64
	CompanyName    string
	CompanyEmail   *string
	CompanyPhone   *string
	CompanyDetails *string
	CreatedAt      time.Time
}

// Repository handles company persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const companyColumns = `id, companyname, companyemail, companyphone, companydetails, created_at`

func scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.CompanyName, &c.CompanyEmail, &c.CompanyPhone, &c.CompanyDetails, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Get fetches one company by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Company, error) {
	company, err := scanCompany(r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM company WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("company not found").WithOp(opGet)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "get company", err).WithOp(opGet)
	}
	return company, nil
}

// List returns one page of companies with the total count, newest first.
func (r *Repository) List(ctx context.Context, query string, page int) ([]Company, int64, error) {
	conds := []string{}
	args := []any{}
	argPos := 1

	if q := strings.TrimSpace(query); q != "" {
		if id, err := strconv.ParseInt(q, 10, 64); err == nil {
			conds = append(conds, fmt.Sprintf("id = $%d", argPos))
			args = append(args, id)
			argPos++
		} else {
			conds = append(conds, fmt.Sprintf("(companyname ILIKE $%d OR companyemail ILIKE $%d)", argPos, argPos+1))
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
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM company`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "count companies", err).WithOp(opList)
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * CompaniesPageSize

	sql := fmt.Sprintf(`SELECT `+companyColumns+` FROM company%s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
		where, argPos, argPos+1)
	args = append(args, CompaniesPageSize, offset)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list companies", err).WithOp(opList)
	}
	defer rows.Close()

	companies := []Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, 0, apperr.Wrap(apperr.KindInternal, "scan company", err).WithOp(opList)
		}
		companies = append(companies, *company)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "iterate companies", err).WithOp(opList)
	}
	return companies, total, nil
}

// Create inserts a company and returns it with generated fields.
func (r *Repository) Create(ctx context.Context, c *Company) (*Company, error) {
	query := `
		INSERT INTO company (companyname, companyemail, companyphone, companydetails)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + companyColumns

	created, err := scanCompany(r.pool.QueryRow(ctx, query,
		c.CompanyName, c.CompanyEmail, c.CompanyPhone, c.CompanyDetails))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("a company with this name already exists").WithOp(opCreate)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "create company", err).WithOp(opCreate)
	}
	return created, nil
}

// Update applies non-nil field changes to a company.
func (r *Repository) Update(ctx context.Context, id int64, name, email, phone, details *string) (*Company, error) {
	sets := []string{}
	args := []any{}
	argPos := 1

	set := func(column string, value *string) {
		if value == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, *value)
		argPos++
	}
	set("companyname", name)
	set("companyemail", email)
	set("companyphone", phone)
	set("companydetails", details)

	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE company SET %s WHERE id = $%d RETURNING `+companyColumns,
		strings.Join(sets, ", "), argPos)
	args = append(args, id)

	updated, err := scanCompany(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("company not found").WithOp(opUpdate)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "update company", err).WithOp(opUpdate)
	}
	return updated, nil
}

// Delete removes a company permanently.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM company WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete company", err).WithOp(opDelete)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("company not found").WithOp(opDelete)
	}
	return nil
}
