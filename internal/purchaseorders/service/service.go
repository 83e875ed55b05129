// Package service implements purchase order business logic, including the
// lead status side effect on creation.
package service

import (
	"context"
	"strings"

	"leadhub_backend/internal/events"
	"leadhub_backend/internal/purchaseorders/repository"
	"leadhub_backend/internal/purchaseorders/transport"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/validator"
)

const (
	opList   = "purchaseorders.Service.List"
	opCreate = "purchaseorders.Service.Create"
)

// PurchaseOrderRepository defines the persistence operations the service needs.
type PurchaseOrderRepository interface {
	List(ctx context.Context, params repository.ListParams) ([]repository.PurchaseOrder, int64, error)
	Create(ctx context.Context, po *repository.PurchaseOrder) (*repository.PurchaseOrder, error)
}

// LeadGateway exposes the lead operations the PO flow needs: existence and
// visibility checks, and forcing the lead's status to PO after insertion.
// Satisfied by an adapter over the leads repository.
type LeadGateway interface {
	EnsureVisible(ctx context.Context, leadID int64, pred scope.Predicate) error
	MarkPurchaseOrder(ctx context.Context, leadID int64) error
}

// Service implements purchase order use cases.
type Service struct {
	repo      PurchaseOrderRepository
	leads     LeadGateway
	policies  *scope.Engine
	bus       events.Bus
	log       *logger.Logger
	validator *validator.Validator
}

func New(repo PurchaseOrderRepository, leads LeadGateway, policies *scope.Engine, bus events.Bus, log *logger.Logger, v *validator.Validator) *Service {
	return &Service{repo: repo, leads: leads, policies: policies, bus: bus, log: log, validator: v}
}

// List returns a scoped page of purchase orders. Store failures degrade to an
// empty page, logged server-side.
func (s *Service) List(ctx context.Context, actor scope.Actor, q transport.ListPurchaseOrdersQuery) (*transport.ListPurchaseOrdersResponse, error) {
	pred, err := s.policies.ForRecords(ctx, actor, scope.Filter{MineOnly: q.MineOnly, CompanyID: q.CompanyID})
	if err != nil {
		return nil, err
	}

	rows, total, err := s.repo.List(ctx, repository.ListParams{Predicate: pred, Query: q.Query, Page: q.Page})
	if err != nil {
		s.log.DatabaseError(opList, err)
		return &transport.ListPurchaseOrdersResponse{Items: []transport.PurchaseOrderResponse{}, Count: 0}, nil
	}

	items := make([]transport.PurchaseOrderResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toResponse(&rows[i]))
	}
	return &transport.ListPurchaseOrdersResponse{Items: items, Count: total}, nil
}

// Create records a purchase order against a visible lead and then forces the
// lead's status to PO. The insert and the status update are two store calls;
// if the status update fails the PO remains and the failure is surfaced.
func (s *Service) Create(ctx context.Context, actor scope.Actor, req transport.CreatePurchaseOrderRequest) (*transport.PurchaseOrderResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Validation(err.Error()).WithOp(opCreate)
	}

	pred, err := s.policies.ForRecords(ctx, actor, scope.Filter{})
	if err != nil {
		return nil, err
	}
	if err := s.leads.EnsureVisible(ctx, req.LeadID, pred); err != nil {
		return nil, err
	}

	po := &repository.PurchaseOrder{
		LeadID:          req.LeadID,
		AmountReceived:  req.AmountReceived,
		AmountRemaining: req.AmountRemaining,
		ReleaseDate:     req.ReleaseDate,
		Note:            optional(req.Note),
		CreatedByEmail:  actor.Email,
		CompanyID:       actor.CompanyID,
	}

	created, err := s.repo.Create(ctx, po)
	if err != nil {
		return nil, err
	}

	if err := s.leads.MarkPurchaseOrder(ctx, req.LeadID); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.PurchaseOrderCreated{
		BaseEvent:       events.NewBaseEvent(),
		PurchaseOrderID: created.ID,
		LeadID:          created.LeadID,
		ActorEmail:      actor.Email,
	})

	resp := toResponse(created)
	return &resp, nil
}

func toResponse(po *repository.PurchaseOrder) transport.PurchaseOrderResponse {
	return transport.PurchaseOrderResponse{
		ID:              po.ID,
		LeadID:          po.LeadID,
		AmountReceived:  po.AmountReceived,
		AmountRemaining: po.AmountRemaining,
		ReleaseDate:     po.ReleaseDate,
		Note:            po.Note,
		CreatedByEmail:  po.CreatedByEmail,
		CompanyID:       po.CompanyID,
		CreatedAt:       po.CreatedAt,
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
