// Package service implements broadcast notification business logic.
package service

import (
	"context"
	"strings"

	"leadhub_backend/internal/events"
	"leadhub_backend/internal/notifications/repository"
	"leadhub_backend/internal/notifications/transport"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/validator"
)

const (
	opList   = "notifications.Service.List"
	opCreate = "notifications.Service.Create"
	opDelete = "notifications.Service.Delete"
)

// NotificationRepository defines the persistence operations the service needs.
type NotificationRepository interface {
	List(ctx context.Context, page int) ([]repository.Notification, int64, error)
	Create(ctx context.Context, n *repository.Notification) (*repository.Notification, error)
	Delete(ctx context.Context, id int64) error
}

// Service implements notification use cases.
type Service struct {
	repo      NotificationRepository
	bus       events.Bus
	log       *logger.Logger
	validator *validator.Validator
}

func New(repo NotificationRepository, bus events.Bus, log *logger.Logger, v *validator.Validator) *Service {
	return &Service{repo: repo, bus: bus, log: log, validator: v}
}

// List returns one page of broadcasts, readable by any authenticated caller.
// Store failures degrade to an empty page, logged server-side.
func (s *Service) List(ctx context.Context, page int) (*transport.ListNotificationsResponse, error) {
	rows, total, err := s.repo.List(ctx, page)
	if err != nil {
		s.log.DatabaseError(opList, err)
		return &transport.ListNotificationsResponse{Items: []transport.NotificationResponse{}, Count: 0}, nil
	}

	items := make([]transport.NotificationResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toResponse(&rows[i]))
	}
	return &transport.ListNotificationsResponse{Items: items, Count: total}, nil
}

// Create publishes a broadcast. Superadmin only; the route group gates the
// role claim and this check holds against the freshly resolved actor.
func (s *Service) Create(ctx context.Context, actor scope.Actor, req transport.CreateNotificationRequest) (*transport.NotificationResponse, error) {
	if actor.Role != scope.RoleSuperadmin {
		return nil, apperr.Forbidden("only superadmins can publish broadcasts").WithOp(opCreate)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Validation(err.Error()).WithOp(opCreate)
	}

	created, err := s.repo.Create(ctx, &repository.Notification{
		Title:          strings.TrimSpace(req.Title),
		Message:        strings.TrimSpace(req.Message),
		CreatedByEmail: actor.Email,
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.BroadcastPublished{
		BaseEvent:      events.NewBaseEvent(),
		NotificationID: created.ID,
		Title:          created.Title,
		Message:        created.Message,
		ActorEmail:     actor.Email,
	})

	resp := toResponse(created)
	return &resp, nil
}

// Delete removes a broadcast. Superadmin only.
func (s *Service) Delete(ctx context.Context, actor scope.Actor, id int64) error {
	if actor.Role != scope.RoleSuperadmin {
		return apperr.Forbidden("only superadmins can delete broadcasts").WithOp(opDelete)
	}
	return s.repo.Delete(ctx, id)
}

func toResponse(n *repository.Notification) transport.NotificationResponse {
	return transport.NotificationResponse{
		ID:             n.ID,
		Title:          n.Title,
		Message:        n.Message,
		CreatedByEmail: n.CreatedByEmail,
		CreatedAt:      n.CreatedAt,
	}
}
