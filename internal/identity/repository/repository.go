// Package repository provides PostgreSQL persistence for profiles.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operation names for error context
const (
	opGetByID      = "identity.Repository.GetByID"
	opGetByEmail   = "identity.Repository.GetByEmail"
	opMemberEmails = "identity.Repository.MemberEmails"
	opList         = "identity.Repository.List"
	opCreate       = "identity.Repository.Create"
	opDelete       = "identity.Repository.Delete"
)

// UsersPageSize is the fixed page size for user listings.
const UsersPageSize = 10

// Profile is the persistence model for a user profile.
type Profile struct {
	ID            int64
	Name          string
	Email         string
	Phone         *string
	Address       *string
	Gender        *string
	RoleID        int
	CompanyID     *int64
	CustomMessage *string
	PasswordHash  string
	CreatedTime   time.Time
}

// ListParams carries the composed filters for a profile listing.
type ListParams struct {
	Predicate scope.Predicate
	Role      *scope.Role
	Query     string
	Page      int
}

// Repository handles profile persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const profileColumns = `id, name, email, phone, address, gender, role_id, company_id, custom_message, password_hash, created_time`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address, &p.Gender,
		&p.RoleID, &p.CompanyID, &p.CustomMessage, &p.PasswordHash, &p.CreatedTime)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID fetches one profile by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("profile not found").WithOp(opGetByID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "get profile", err).WithOp(opGetByID)
	}
	return profile, nil
}

// GetByEmail fetches one profile by email address.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(email) = lower($1)`

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("profile not found").WithOp(opGetByEmail)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "get profile by email", err).WithOp(opGetByEmail)
	}
	return profile, nil
}

// MemberEmails returns the email addresses of every profile in a company.
// Satisfies scope.MemberEmailResolver.
func (r *Repository) MemberEmails(ctx context.Context, companyID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT email FROM profiles WHERE company_id = $1`, companyID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list member emails", err).WithOp(opMemberEmails)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan member email", err).WithOp(opMemberEmails)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "iterate member emails", err).WithOp(opMemberEmails)
	}
	return emails, nil
}

// AllEmails returns the email addresses of every profile. Serves broadcast
// fan-out.
func (r *Repository) AllEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT email FROM profiles ORDER BY id`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list all emails", err).WithOp(opMemberEmails)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan email", err).WithOp(opMemberEmails)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "iterate emails", err).WithOp(opMemberEmails)
	}
	return emails, nil
}

// List returns a scoped, filtered page of profiles with the total count.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Profile, int64, error) {
	conds := []string{}
	args := []any{}
	argPos := 1

	argPos, ok := params.Predicate.ApplyCompany(&conds, &args, argPos, "company_id")
	if !ok {
		return []Profile{}, 0, nil
	}

	if params.Role != nil {
		conds = append(conds, fmt.Sprintf("role_id = $%d", argPos))
		args = append(args, int(*params.Role))
		argPos++
	}

	if q := strings.TrimSpace(params.Query); q != "" {
		if id, err := strconv.ParseInt(q, 10, 64); err == nil {
			conds = append(conds, fmt.Sprintf("id = $%d", argPos))
			args = append(args, id)
			argPos++
		} else {
			conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argPos, argPos+1))
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
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "count profiles", err).WithOp(opList)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * UsersPageSize

	query := fmt.Sprintf(`SELECT `+profileColumns+` FROM profiles%s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
		where, argPos, argPos+1)
	args = append(args, UsersPageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list profiles", err).WithOp(opList)
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, apperr.Wrap(apperr.KindInternal, "scan profile", err).WithOp(opList)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "iterate profiles", err).WithOp(opList)
	}
	return profiles, total, nil
}

// Create inserts a new profile and returns it with generated fields.
func (r *Repository) Create(ctx context.Context, p *Profile) (*Profile, error) {
	query := `
		INSERT INTO profiles (name, email, phone, address, gender, role_id, company_id, custom_message, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + profileColumns

	created, err := scanProfile(r.pool.QueryRow(ctx, query,
		p.Name, p.Email, p.Phone, p.Address, p.Gender, p.RoleID, p.CompanyID, p.CustomMessage, p.PasswordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("a profile with this email already exists").WithOp(opCreate)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "create profile", err).WithOp(opCreate)
	}
	return created, nil
}

// Delete removes a profile permanently.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete profile", err).WithOp(opDelete)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("profile not found").WithOp(opDelete)
	}
	return nil
}
