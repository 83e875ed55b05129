package service

import (
	"context"
	"strings"

	"leadhub_backend/internal/events"
	"leadhub_backend/internal/leads/repository"
	"leadhub_backend/internal/leads/transport"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"
)

const (
	opAddComment     = "leads.Service.AddComment"
	opListComments   = "leads.Service.ListComments"
	opDeleteComment  = "leads.Service.DeleteComment"
	opRecomputeState = "leads.Service.recomputeLeadState"
)

// AddComment appends a comment to a lead the actor can see. A status-bearing
// comment drives the lead's status and schedule time; the schedule label is a
// cosmetic text suffix and never feeds the canonical schedule_time column.
//
// The insert-then-update sequence is not transactional; concurrent status
// comments on the same lead can race. Accepted for an activity log.
func (s *Service) AddComment(ctx context.Context, actor scope.Actor, leadID int64, req transport.AddCommentRequest) (*transport.CommentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Validation(err.Error()).WithOp(opAddComment)
	}

	pred, err := s.policies.ForRecords(ctx, actor, scope.Filter{})
	if err != nil {
		return nil, err
	}
	lead, err := s.leads.Get(ctx, leadID, pred)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.CommentText)
	status := strings.TrimSpace(req.Status)

	var commentStatus *string
	if status != "" {
		scheduleTime, verr := normalizeSchedule(status, req.ScheduleTime)
		if verr != nil {
			return nil, verr.WithOp(opAddComment)
		}
		commentStatus = &status

		if scheduleTime != nil {
			if label := strings.TrimSpace(req.ScheduleLabel); label != "" {
				text = text + " " + label
			} else {
				text = text + " (Scheduled)"
			}
		}

		if err := s.leads.ApplyStatus(ctx, leadID, status, scheduleTime); err != nil {
			return nil, err
		}
		s.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent:    events.NewBaseEvent(),
			LeadID:       leadID,
			OldStatus:    lead.Status,
			NewStatus:    status,
			ScheduleTime: scheduleTime,
			ActorEmail:   actor.Email,
		})
	}

	created, err := s.comments.InsertComment(ctx, &repository.Comment{
		LeadID:         leadID,
		CommentText:    text,
		Status:         commentStatus,
		CreatedByEmail: actor.Email,
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.CommentAdded{
		BaseEvent:  events.NewBaseEvent(),
		CommentID:  created.ID,
		LeadID:     leadID,
		Status:     commentStatus,
		ActorEmail: actor.Email,
	})

	resp := toCommentResponse(created)
	return &resp, nil
}

// ListComments returns one page of a visible lead's comment log. Store
// failures degrade to an empty page, logged server-side.
func (s *Service) ListComments(ctx context.Context, actor scope.Actor, leadID int64, page int) (*transport.ListCommentsResponse, error) {
	pred, err := s.policies.ForRecords(ctx, actor, scope.Filter{})
	if err != nil {
		return nil, err
	}
	if _, err := s.leads.Get(ctx, leadID, pred); err != nil {
		return nil, err
	}

	rows, total, err := s.comments.ListComments(ctx, leadID, page)
	if err != nil {
		s.log.DatabaseError(opListComments, err)
		return &transport.ListCommentsResponse{Items: []transport.CommentResponse{}, Count: 0}, nil
	}
	return commentPage(rows, total), nil
}

// ListAllComments returns a scoped page over every lead's comments, newest
// first, for the activity overview.
func (s *Service) ListAllComments(ctx context.Context, actor scope.Actor, page int, mineOnly bool) (*transport.ListCommentsResponse, error) {
	pred, err := s.policies.ForRecords(ctx, actor, scope.Filter{MineOnly: mineOnly})
	if err != nil {
		return nil, err
	}

	rows, total, err := s.comments.ListAllComments(ctx, pred, page)
	if err != nil {
		s.log.DatabaseError(opListComments, err)
		return &transport.ListCommentsResponse{Items: []transport.CommentResponse{}, Count: 0}, nil
	}
	return commentPage(rows, total), nil
}

// DeleteComment soft-deletes a comment and recomputes the owning lead's
// derived state from the latest remaining status comment. Users may only
// delete their own comments.
func (s *Service) DeleteComment(ctx context.Context, actor scope.Actor, commentID int64) error {
	comment, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return err
	}

	if actor.Role == scope.RoleUser && !strings.EqualFold(comment.CreatedByEmail, actor.Email) {
		return apperr.Forbidden("you can only delete comments created by you").WithOp(opDeleteComment)
	}

	pred, err := s.policies.ForRecords(ctx, actor, scope.Filter{})
	if err != nil {
		return err
	}
	if _, err := s.leads.Get(ctx, comment.LeadID, pred); err != nil {
		return err
	}

	if err := s.comments.SoftDeleteComment(ctx, commentID); err != nil {
		return err
	}

	reverted, err := s.recomputeLeadState(ctx, comment.LeadID)
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.CommentDeleted{
		BaseEvent:      events.NewBaseEvent(),
		CommentID:      commentID,
		LeadID:         comment.LeadID,
		RevertedStatus: reverted,
		ActorEmail:     actor.Email,
	})
	return nil
}

// recomputeLeadState restores a lead's status from its latest remaining
// status comment, or New when none remains. Any status other than Scheduled
// forces schedule_time to null. When the recomputed status is Scheduled the
// original schedule time is not recoverable from comment text, so the lead's
// current schedule_time is kept as-is and a warning is logged if it is null.
func (s *Service) recomputeLeadState(ctx context.Context, leadID int64) (string, error) {
	latest, err := s.comments.LatestStatusComment(ctx, leadID)
	if err != nil {
		return "", err
	}

	status := repository.StatusNew
	if latest != nil && latest.Status != nil {
		status = *latest.Status
	}

	if status != repository.StatusScheduled {
		if err := s.leads.ApplyStatus(ctx, leadID, status, nil); err != nil {
			return "", err
		}
		return status, nil
	}

	lead, err := s.leads.Get(ctx, leadID, scope.Predicate{Unrestricted: true})
	if err != nil {
		return "", err
	}
	if lead.ScheduleTime == nil {
		s.log.Warn("comment_revert_schedule_unrecoverable", "lead_id", leadID, "op", opRecomputeState)
	}
	if err := s.leads.ApplyStatus(ctx, leadID, status, lead.ScheduleTime); err != nil {
		return "", err
	}
	return status, nil
}

func commentPage(rows []repository.Comment, total int64) *transport.ListCommentsResponse {
	items := make([]transport.CommentResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toCommentResponse(&rows[i]))
	}
	return &transport.ListCommentsResponse{Items: items, Count: total}
}

func toCommentResponse(c *repository.Comment) transport.CommentResponse {
	return transport.CommentResponse{
		ID:             c.ID,
		LeadID:         c.LeadID,
		CommentText:    c.CommentText,
		Status:         c.Status,
		CreatedByEmail: c.CreatedByEmail,
		CreatedTime:    c.CreatedTime,
	}
}
