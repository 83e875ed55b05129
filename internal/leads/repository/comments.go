package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
)

const (
	opCommentGet    = "leads.Repository.GetComment"
	opCommentList   = "leads.Repository.ListComments"
	opCommentInsert = "leads.Repository.InsertComment"
	opCommentDelete = "leads.Repository.SoftDeleteComment"
	opCommentLatest = "leads.Repository.LatestStatusComment"
	opCommentScoped = "leads.Repository.ListAllComments"
)

// CommentsPageSize is the fixed page size for comment listings.
const CommentsPageSize = 20

// Comment is the persistence model for an activity-log entry on a lead.
type Comment struct {
	ID             int64
	LeadID         int64
	CommentText    string
	Status         *string
	CreatedByEmail string
	CreatedTime    time.Time
	IsDeleted      bool
}

const commentColumns = `id, lead_id, comment_text, status, created_by_email_id, created_time, is_deleted`

func scanComment(row pgx.Row) (*Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.LeadID, &c.CommentText, &c.Status, &c.CreatedByEmail, &c.CreatedTime, &c.IsDeleted)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetComment fetches one non-deleted comment by ID.
func (r *Repository) GetComment(ctx context.Context, id int64) (*Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1 AND is_deleted = FALSE`

	comment, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("comment not found").WithOp(opCommentGet)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "get comment", err).WithOp(opCommentGet)
	}
	return comment, nil
}

// ListComments returns one page of a lead's comment log, newest first, with
// the total count. Lead visibility is checked by the caller.
func (r *Repository) ListComments(ctx context.Context, leadID int64, page int) ([]Comment, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE lead_id = $1 AND is_deleted = FALSE`, leadID).Scan(&total)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "count comments", err).WithOp(opCommentList)
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * CommentsPageSize

	rows, err := r.pool.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE lead_id = $1 AND is_deleted = FALSE ORDER BY id DESC LIMIT $2 OFFSET $3`,
		leadID, CommentsPageSize, offset)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list comments", err).WithOp(opCommentList)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, apperr.Wrap(apperr.KindInternal, "scan comment", err).WithOp(opCommentList)
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "iterate comments", err).WithOp(opCommentList)
	}
	return comments, total, nil
}

// ListAllComments returns a scoped page over the whole comment log, for the
// cross-lead activity view. Scope applies to the comment author column.
func (r *Repository) ListAllComments(ctx context.Context, pred scope.Predicate, page int) ([]Comment, int64, error) {
	conds := []string{"is_deleted = FALSE"}
	args := []any{}

	argPos, ok := pred.Apply(&conds, &args, 1, "created_by_email_id", "created_by_email_id")
	if !ok {
		return []Comment{}, 0, nil
	}

	where := " WHERE " + strings.Join(conds, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "count all comments", err).WithOp(opCommentScoped)
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * CommentsPageSize

	query := fmt.Sprintf(`SELECT `+commentColumns+` FROM comments%s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
		where, argPos, argPos+1)
	args = append(args, CommentsPageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list all comments", err).WithOp(opCommentScoped)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, apperr.Wrap(apperr.KindInternal, "scan comment", err).WithOp(opCommentScoped)
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "iterate all comments", err).WithOp(opCommentScoped)
	}
	return comments, total, nil
}

// InsertComment appends a comment to a lead's log.
func (r *Repository) InsertComment(ctx context.Context, c *Comment) (*Comment, error) {
	query := `
		INSERT INTO comments (lead_id, comment_text, status, created_by_email_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + commentColumns

	created, err := scanComment(r.pool.QueryRow(ctx, query, c.LeadID, c.CommentText, c.Status, c.CreatedByEmail))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "insert comment", err).WithOp(opCommentInsert)
	}
	return created, nil
}

// SoftDeleteComment marks a comment deleted without removing the row.
func (r *Repository) SoftDeleteComment(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE comments SET is_deleted = TRUE WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "soft delete comment", err).WithOp(opCommentDelete)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("comment not found").WithOp(opCommentDelete)
	}
	return nil
}

// LatestStatusComment returns the most recent non-deleted status-bearing
// comment for a lead, or nil when none remains.
func (r *Repository) LatestStatusComment(ctx context.Context, leadID int64) (*Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE lead_id = $1 AND is_deleted = FALSE AND status IS NOT NULL
		ORDER BY created_time DESC, id DESC LIMIT 1`

	comment, err := scanComment(r.pool.QueryRow(ctx, query, leadID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "latest status comment", err).WithOp(opCommentLatest)
	}
	return comment, nil
}
