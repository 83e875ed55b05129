// Package service implements lead business logic: validated writes, scoped
// listings, and the comment-driven status synchronization.
package service

import (
	"context"
	"strings"
	"time"

	"leadhub_backend/internal/events"
	"leadhub_backend/internal/leads/repository"
	"leadhub_backend/internal/leads/transport"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/phone"
	"leadhub_backend/platform/validator"
)

const (
	opList      = "leads.Service.List"
	opGet       = "leads.Service.Get"
	opCreate    = "leads.Service.Create"
	opUpdate    = "leads.Service.Update"
	opDelete    = "leads.Service.Delete"
	opScheduled = "leads.Service.ScheduledAlerts"
)

// alertWindowPast and alertWindowFuture bound the scheduled-alert poll window
// around now.
const (
	alertWindowPast   = 5 * time.Minute
	alertWindowFuture = 25 * time.Hour
)

// LeadRepository defines the lead persistence operations the service needs.
type LeadRepository interface {
	Get(ctx context.Context, id int64, pred scope.Predicate) (*repository.Lead, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Lead, int64, error)
	Create(ctx context.Context, l *repository.Lead) (*repository.Lead, error)
	Update(ctx context.Context, id int64, fields repository.UpdateFields) (*repository.Lead, error)
	ApplyStatus(ctx context.Context, id int64, status string, scheduleTime *time.Time) error
	SoftDelete(ctx context.Context, id int64) error
	ScheduledWindow(ctx context.Context, pred scope.Predicate, from, to time.Time) ([]repository.Lead, error)
}

// CommentRepository defines the comment persistence operations the service needs.
type CommentRepository interface {
	GetComment(ctx context.Context, id int64) (*repository.Comment, error)
	ListComments(ctx context.Context, leadID int64, page int) ([]repository.Comment, int64, error)
	ListAllComments(ctx context.Context, pred scope.Predicate, page int) ([]repository.Comment, int64, error)
	InsertComment(ctx context.Context, c *repository.Comment) (*repository.Comment, error)
	SoftDeleteComment(ctx context.Context, id int64) error
	LatestStatusComment(ctx context.Context, leadID int64) (*repository.Comment, error)
}

// Service implements lead and comment use cases.
type Service struct {
	leads     LeadRepository
	comments  CommentRepository
	policies  *scope.Engine
	bus       events.Bus
	log       *logger.Logger
	validator *validator.Validator
}

func New(leads LeadRepository, comments CommentRepository, policies *scope.Engine, bus events.Bus, log *logger.Logger, v *validator.Validator) *Service {
	return &Service{leads: leads, comments: comments, policies: policies, bus: bus, log: log, validator: v}
}

// List returns a scoped, filtered page of leads. Store failures degrade to an
// empty page, logged server-side.
func (s *Service) List(ctx context.Context, actor scope.Actor, q transport.ListLeadsQuery) (*transport.ListLeadsResponse, error) {
	pred, err := s.policies.ForRecords(ctx, actor, scope.Filter{
		Scope:        q.Scope,
		MineOnly:     q.MineOnly,
		AssignedOnly: q.AssignedOnly,
		CompanyID:    q.CompanyID,
	})
	if err != nil {
		return nil, err
	}

	rows, total, err := s.leads.List(ctx, repository.ListParams{
		Predicate: pred,
		Status:    strings.TrimSpace(q.Status),
		Shortcut:  strings.TrimSpace(q.Filter),
		Query:     q.Query,
		Page:      q.Page,
	})
	if err != nil {
		s.log.DatabaseError(opList, err)
		return &transport.ListLeadsResponse{Items: []transport.LeadResponse{}, Count: 0}, nil
	}

	items := make([]transport.LeadResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toLeadResponse(&rows[i]))
	}
	return &transport.ListLeadsResponse{Items: items, Count: total}, nil
}

// Get returns one lead visible to the actor.
func (s *Service) Get(ctx context.Context, actor scope.Actor, id int64) (*transport.LeadResponse, error) {
	pred, err := s.policies.ForRecords(ctx, actor, scope.Filter{})
	if err != nil {
		return nil, err
	}
	lead, err := s.leads.Get(ctx, id, pred)
	if err != nil {
		return nil, err
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}

// Create validates and inserts a new lead. Assignment defaults to the actor
// unless an elevated role assigns someone else.
func (s *Service) Create(ctx context.Context, actor scope.Actor, req transport.CreateLeadRequest) (*transport.LeadResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Validation(err.Error()).WithOp(opCreate)
	}
	if err := validateContact(req.Phone, req.SecondaryPhone, req.Email); err != nil {
		return nil, err.WithOp(opCreate)
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = repository.StatusNew
	}
	scheduleTime, verr := normalizeSchedule(status, req.ScheduleTime)
	if verr != nil {
		return nil, verr.WithOp(opCreate)
	}

	assigned := actor.Email
	if req.AssignedEmail != "" && actor.Role != scope.RoleUser {
		assigned = req.AssignedEmail
	}

	lead := &repository.Lead{
		LeadName:       strings.TrimSpace(req.LeadName),
		Phone:          optional(req.Phone),
		SecondaryPhone: optional(req.SecondaryPhone),
		Email:          optional(req.Email),
		Location:       optional(req.Location),
		Note:           optional(req.Note),
		Status:         status,
		ScheduleTime:   scheduleTime,
		CreatedByEmail: actor.Email,
		AssignedEmail:  &assigned,
	}

	created, err := s.leads.Create(ctx, lead)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         created.ID,
		LeadName:       created.LeadName,
		CreatedByEmail: created.CreatedByEmail,
		AssignedEmail:  assigned,
		Status:         created.Status,
	})

	resp := toLeadResponse(created)
	return &resp, nil
}

// Update applies the lead-edit form. A submitted status other than Scheduled
// forces schedule_time to null regardless of what else was sent.
func (s *Service) Update(ctx context.Context, actor scope.Actor, id int64, req transport.UpdateLeadRequest) (*transport.LeadResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Validation(err.Error()).WithOp(opUpdate)
	}

	pred, err := s.policies.ForRecords(ctx, actor, scope.Filter{})
	if err != nil {
		return nil, err
	}
	current, err := s.leads.Get(ctx, id, pred)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" && !phone.IsTenDigits(*req.Phone) {
		return nil, apperr.Validation("phone must be exactly 10 digits").WithOp(opUpdate)
	}
	if req.SecondaryPhone != nil && strings.TrimSpace(*req.SecondaryPhone) != "" && !phone.IsTenDigits(*req.SecondaryPhone) {
		return nil, apperr.Validation("secondary phone must be exactly 10 digits").WithOp(opUpdate)
	}

	fields := repository.UpdateFields{
		LeadName:       req.LeadName,
		Phone:          req.Phone,
		SecondaryPhone: req.SecondaryPhone,
		Email:          req.Email,
		Location:       req.Location,
		Note:           req.Note,
		AssignedEmail:  req.AssignedEmail,
	}

	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		scheduleTime, err := normalizeSchedule(status, req.ScheduleTime)
		if err != nil {
			return nil, err.WithOp(opUpdate)
		}
		fields.Status = &status
		fields.ScheduleTime = scheduleTime
	}

	updated, err := s.leads.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && updated.Status != current.Status {
		s.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent:    events.NewBaseEvent(),
			LeadID:       updated.ID,
			OldStatus:    current.Status,
			NewStatus:    updated.Status,
			ScheduleTime: updated.ScheduleTime,
			ActorEmail:   actor.Email,
		})
	}

	resp := toLeadResponse(updated)
	return &resp, nil
}

// Delete soft-deletes a lead. Users may only delete leads they created.
func (s *Service) Delete(ctx context.Context, actor scope.Actor, id int64) error {
	pred, err := s.policies.ForRecords(ctx, actor, scope.Filter{})
	if err != nil {
		return err
	}
	lead, err := s.leads.Get(ctx, id, pred)
	if err != nil {
		return err
	}

	if actor.Role == scope.RoleUser && !strings.EqualFold(lead.CreatedByEmail, actor.Email) {
		return apperr.Forbidden("you can only delete leads created by you").WithOp(opDelete)
	}

	return s.leads.SoftDelete(ctx, id)
}

// ScheduledAlerts serves the alert watcher poll: scoped Scheduled leads with
// a schedule time inside the alert window. Superadmins are excluded from
// alerts and always receive an empty list.
func (s *Service) ScheduledAlerts(ctx context.Context, actor scope.Actor) ([]transport.ScheduledLeadResponse, error) {
	if actor.Role == scope.RoleSuperadmin {
		return []transport.ScheduledLeadResponse{}, nil
	}

	filter := scope.Filter{}
	if actor.Role == scope.RoleUser {
		filter.Scope = scope.ScopeMineOrAssigned
	}
	pred, err := s.policies.ForRecords(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rows, err := s.leads.ScheduledWindow(ctx, pred, now.Add(-alertWindowPast), now.Add(alertWindowFuture))
	if err != nil {
		s.log.DatabaseError(opScheduled, err)
		return []transport.ScheduledLeadResponse{}, nil
	}

	items := make([]transport.ScheduledLeadResponse, 0, len(rows))
	for _, lead := range rows {
		if lead.ScheduleTime == nil {
			continue
		}
		items = append(items, transport.ScheduledLeadResponse{
			ID:           lead.ID,
			LeadName:     lead.LeadName,
			Phone:        lead.Phone,
			ScheduleTime: *lead.ScheduleTime,
		})
	}
	return items, nil
}

// validateContact enforces the lead contact invariants: at least one contact
// method, phones exactly 10 numeric digits.
func validateContact(phoneNumber, secondaryPhone, email string) *apperr.Error {
	if strings.TrimSpace(phoneNumber) == "" && strings.TrimSpace(secondaryPhone) == "" && strings.TrimSpace(email) == "" {
		return apperr.Validation("at least one of phone, secondary phone, or email is required")
	}
	if strings.TrimSpace(phoneNumber) != "" && !phone.IsTenDigits(phoneNumber) {
		return apperr.Validation("phone must be exactly 10 digits")
	}
	if strings.TrimSpace(secondaryPhone) != "" && !phone.IsTenDigits(secondaryPhone) {
		return apperr.Validation("secondary phone must be exactly 10 digits")
	}
	return nil
}

// normalizeSchedule enforces the schedule invariant: schedule_time is set
// iff the status is Scheduled.
func normalizeSchedule(status string, scheduleTime *time.Time) (*time.Time, *apperr.Error) {
	if !repository.KnownStatuses[status] {
		return nil, apperr.Validation("unknown lead status: " + status)
	}
	if status != repository.StatusScheduled {
		return nil, nil
	}
	if scheduleTime == nil {
		return nil, apperr.Validation("scheduleTime is required when status is Scheduled")
	}
	return scheduleTime, nil
}

func toLeadResponse(l *repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:             l.ID,
		LeadName:       l.LeadName,
		Phone:          l.Phone,
		SecondaryPhone: l.SecondaryPhone,
		Email:          l.Email,
		Location:       l.Location,
		Note:           l.Note,
		Status:         l.Status,
		ScheduleTime:   l.ScheduleTime,
		CreatedByEmail: l.CreatedByEmail,
		AssignedEmail:  l.AssignedEmail,
		CreatedTime:    l.CreatedTime,
		LastEditedTime: l.LastEditedTime,
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
