// Package repository provides PostgreSQL persistence for leads and their
// comment activity log.
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
	opGet             = "leads.Repository.Get"
	opList            = "leads.Repository.List"
	opCreate          = "leads.Repository.Create"
	opUpdate          = "leads.Repository.Update"
	opSoftDelete      = "leads.Repository.SoftDelete"
	opApplyStatus     = "leads.Repository.ApplyStatus"
	opScheduledWindow = "leads.Repository.ScheduledWindow"
)

// LeadsPageSize is the fixed page size for lead listings.
const LeadsPageSize = 50

// Lead statuses. StatusNew is the creation default and the revert target when
// a lead's last status comment is deleted.
const (
	StatusNew            = "New"
	StatusContacted      = "Contacted"
	StatusInConversation = "In Conversation"
	StatusScheduled      = "Scheduled"
	StatusPO             = "PO"
	StatusNotInterested  = "Not Interested"
	StatusClosed         = "Closed"
)

// KnownStatuses enumerates every accepted lead status.
var KnownStatuses = map[string]bool{
	StatusNew:            true,
	StatusContacted:      true,
	StatusInConversation: true,
	StatusScheduled:      true,
	StatusPO:             true,
	StatusNotInterested:  true,
	StatusClosed:         true,
}

// Date-shortcut filter keywords accepted by listings.
const (
	FilterNewToday = "new_today"
	FilterToday    = "today"
	FilterOverdue  = "overdue"
	FilterUpcoming = "upcoming"
)

// Lead is the persistence model for a lead.
type Lead struct {
	ID             int64
	LeadName       string
	Phone          *string
	SecondaryPhone *string
	Email          *string
	Location       *string
	Note           *string
	Status         string
	ScheduleTime   *time.Time
	CreatedByEmail string
	AssignedEmail  *string
	CreatedTime    time.Time
	LastEditedTime time.Time
	IsDeleted      bool
}

// ListParams carries the composed filters for a lead listing.
type ListParams struct {
	Predicate scope.Predicate
	Status    string
	Shortcut  string
	Query     string
	Page      int
}

// UpdateFields carries the nullable-field updates for a lead edit. Nil means
// leave the column untouched. Status and ScheduleTime are applied together so
// the schedule invariant holds.
type UpdateFields struct {
	LeadName       *string
	Phone          *string
	SecondaryPhone *string
	Email          *string
	Location       *string
	Note           *string
	Status         *string
	ScheduleTime   *time.Time
	AssignedEmail  *string
}

// Repository handles lead and comment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, lead_name, phone, secondary_phone, email, location, note, status,
	schedule_time, created_by_email_id, assigned_to_email_id, created_time, last_edited_time, is_deleted`

func scanLead(row pgx.Row) (*Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.LeadName, &l.Phone, &l.SecondaryPhone, &l.Email, &l.Location,
		&l.Note, &l.Status, &l.ScheduleTime, &l.CreatedByEmail, &l.AssignedEmail,
		&l.CreatedTime, &l.LastEditedTime, &l.IsDeleted)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Get fetches one visible lead by ID, intersected with the scope predicate.
// A lead outside the actor's scope reads as not found.
func (r *Repository) Get(ctx context.Context, id int64, pred scope.Predicate) (*Lead, error) {
	conds := []string{"id = $1", "is_deleted = FALSE"}
	args := []any{id}

	_, ok := pred.Apply(&conds, &args, 2, "created_by_email_id", "assigned_to_email_id")
	if !ok {
		return nil, apperr.NotFound("lead not found").WithOp(opGet)
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + strings.Join(conds, " AND ")
	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("lead not found").WithOp(opGet)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "get lead", err).WithOp(opGet)
	}
	return lead, nil
}

// buildLeadListWhere composes the WHERE clause for a lead listing from the
// scope predicate and caller filters. Returns ok=false when the predicate
// rejects all rows.
func buildLeadListWhere(params ListParams) (where string, args []any, nextArg int, ok bool) {
	conds := []string{"is_deleted = FALSE"}
	args = []any{}
	argPos := 1

	argPos, ok = params.Predicate.Apply(&conds, &args, argPos, "created_by_email_id", "assigned_to_email_id")
	if !ok {
		return "", nil, argPos, false
	}

	if params.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", argPos))
		args = append(args, params.Status)
		argPos++
	}

	switch params.Shortcut {
	case FilterNewToday:
		conds = append(conds, "created_time >= CURRENT_DATE")
	case FilterToday:
		conds = append(conds, "schedule_time >= CURRENT_DATE", "schedule_time < CURRENT_DATE + INTERVAL '1 day'")
	case FilterOverdue:
		conds = append(conds, "schedule_time < NOW()")
	case FilterUpcoming:
		conds = append(conds, "schedule_time > NOW()")
	}

	if q := strings.TrimSpace(params.Query); q != "" {
		pattern := "%" + q + "%"
		// A numeric term may be an id or a phone fragment, so id equality
		// joins the text match rather than replacing it.
		if id, err := strconv.ParseInt(q, 10, 64); err == nil {
			conds = append(conds, fmt.Sprintf(
				"(id = $%d OR lead_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR status ILIKE $%d)",
				argPos, argPos+1, argPos+2, argPos+3, argPos+4))
			args = append(args, id, pattern, pattern, pattern, pattern)
			argPos += 5
		} else {
			conds = append(conds, fmt.Sprintf(
				"(lead_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR status ILIKE $%d)",
				argPos, argPos+1, argPos+2, argPos+3))
			args = append(args, pattern, pattern, pattern, pattern)
			argPos += 4
		}
	}

	return " WHERE " + strings.Join(conds, " AND "), args, argPos, true
}

// List returns a scoped, filtered page of leads with the total count.
// Default ordering is newest-id-first; the Scheduled status view orders by
// ascending schedule time instead.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int64, error) {
	where, args, argPos, ok := buildLeadListWhere(params)
	if !ok {
		return []Lead{}, 0, nil
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "count leads", err).WithOp(opList)
	}

	orderBy := "id DESC"
	if params.Status == StatusScheduled {
		orderBy = "schedule_time ASC"
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * LeadsPageSize

	query := fmt.Sprintf(`SELECT `+leadColumns+` FROM leads%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, orderBy, argPos, argPos+1)
	args = append(args, LeadsPageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list leads", err).WithOp(opList)
	}
	defer rows.Close()

	leads := []Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, apperr.Wrap(apperr.KindInternal, "scan lead", err).WithOp(opList)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "iterate leads", err).WithOp(opList)
	}
	return leads, total, nil
}

// Create inserts a new lead and returns it with generated fields.
func (r *Repository) Create(ctx context.Context, l *Lead) (*Lead, error) {
	query := `
		INSERT INTO leads (lead_name, phone, secondary_phone, email, location, note, status,
			schedule_time, created_by_email_id, assigned_to_email_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + leadColumns

	created, err := scanLead(r.pool.QueryRow(ctx, query,
		l.LeadName, l.Phone, l.SecondaryPhone, l.Email, l.Location, l.Note, l.Status,
		l.ScheduleTime, l.CreatedByEmail, l.AssignedEmail))
	if err != nil {
		if remapped := remapUniqueViolation(err); remapped != nil {
			return nil, remapped.WithOp(opCreate)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "create lead", err).WithOp(opCreate)
	}
	return created, nil
}

// Update applies the given field changes and refreshes last_edited_time.
func (r *Repository) Update(ctx context.Context, id int64, fields UpdateFields) (*Lead, error) {
	sets := []string{"last_edited_time = NOW()"}
	args := []any{}
	argPos := 1

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if fields.LeadName != nil {
		set("lead_name", *fields.LeadName)
	}
	if fields.Phone != nil {
		set("phone", nullable(*fields.Phone))
	}
	if fields.SecondaryPhone != nil {
		set("secondary_phone", nullable(*fields.SecondaryPhone))
	}
	if fields.Email != nil {
		set("email", nullable(*fields.Email))
	}
	if fields.Location != nil {
		set("location", nullable(*fields.Location))
	}
	if fields.Note != nil {
		set("note", nullable(*fields.Note))
	}
	if fields.AssignedEmail != nil {
		set("assigned_to_email_id", nullable(*fields.AssignedEmail))
	}
	if fields.Status != nil {
		set("status", *fields.Status)
		// schedule_time always moves with status so the invariant holds
		sets = append(sets, fmt.Sprintf("schedule_time = $%d", argPos))
		args = append(args, fields.ScheduleTime)
		argPos++
	}

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d AND is_deleted = FALSE RETURNING `+leadColumns,
		strings.Join(sets, ", "), argPos)
	args = append(args, id)

	updated, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("lead not found").WithOp(opUpdate)
	}
	if err != nil {
		if remapped := remapUniqueViolation(err); remapped != nil {
			return nil, remapped.WithOp(opUpdate)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "update lead", err).WithOp(opUpdate)
	}
	return updated, nil
}

// ApplyStatus sets a lead's status and schedule time together, refreshing
// last_edited_time. scheduleTime must be nil unless status is Scheduled.
func (r *Repository) ApplyStatus(ctx context.Context, id int64, status string, scheduleTime *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET status = $1, schedule_time = $2, last_edited_time = NOW() WHERE id = $3 AND is_deleted = FALSE`,
		status, scheduleTime, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "apply lead status", err).WithOp(opApplyStatus)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found").WithOp(opApplyStatus)
	}
	return nil
}

// MarkPurchaseOrder forces a lead's status to PO after a purchase order is
// recorded against it.
func (r *Repository) MarkPurchaseOrder(ctx context.Context, id int64) error {
	return r.ApplyStatus(ctx, id, StatusPO, nil)
}

// SoftDelete marks a lead deleted without removing the row.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET is_deleted = TRUE, last_edited_time = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "soft delete lead", err).WithOp(opSoftDelete)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found").WithOp(opSoftDelete)
	}
	return nil
}

// ScheduledWindow returns scoped Scheduled leads whose schedule time falls in
// [from, to], soonest first. Serves the alert watcher poll.
func (r *Repository) ScheduledWindow(ctx context.Context, pred scope.Predicate, from, to time.Time) ([]Lead, error) {
	conds := []string{"is_deleted = FALSE", "status = $1", "schedule_time >= $2", "schedule_time <= $3"}
	args := []any{StatusScheduled, from, to}

	_, ok := pred.Apply(&conds, &args, 4, "created_by_email_id", "assigned_to_email_id")
	if !ok {
		return []Lead{}, nil
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY schedule_time ASC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "scheduled window", err).WithOp(opScheduledWindow)
	}
	defer rows.Close()

	leads := []Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan scheduled lead", err).WithOp(opScheduledWindow)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "iterate scheduled leads", err).WithOp(opScheduledWindow)
	}
	return leads, nil
}

// remapUniqueViolation turns a 23505 on the phone or email unique index into
// a field-specific conflict message. Returns nil for any other error.
func remapUniqueViolation(err error) *apperr.Error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	constraint := strings.ToLower(pgErr.ConstraintName)
	switch {
	case strings.Contains(constraint, "phone"):
		return apperr.Conflict("a lead with this phone number already exists")
	case strings.Contains(constraint, "email"):
		return apperr.Conflict("a lead with this email already exists")
	}
	return apperr.Conflict("lead already exists")
}

func nullable(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
