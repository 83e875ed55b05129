// Package service implements the insights dashboard: four scoped counters
// per context, built on the same scope predicates as the listings.
package service

import (
	"context"

	"leadhub_backend/internal/insights/repository"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"
	"leadhub_backend/platform/logger"
)

const (
	opContext  = "insights.Service.ContextCounters"
	opOverview = "insights.Service.Overview"
)

// Insight contexts.
const (
	ContextAllLeads       = "all_leads"
	ContextMyLeads        = "my_leads"
	ContextScheduledLeads = "scheduled_leads"
	ContextUsers          = "users"
)

// Counter is one labeled metric.
type Counter struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// ContextCounters is the result for one insight context.
type ContextCounters struct {
	Context  string    `json:"context"`
	Counters []Counter `json:"counters"`
}

// OverviewCounters is the cross-entity totals result.
type OverviewCounters struct {
	AllComments   int64 `json:"allComments"`
	MyComments    int64 `json:"myComments"`
	Companies     int64 `json:"companies"`
	Notifications int64 `json:"notifications"`
}

// InsightsRepository defines the aggregate queries the service needs.
type InsightsRepository interface {
	AllLeadCounters(ctx context.Context, pred scope.Predicate) (repository.Quad, error)
	MyLeadCounters(ctx context.Context, actorEmail string) (repository.Quad, error)
	ScheduledLeadCounters(ctx context.Context, pred scope.Predicate) (repository.Quad, error)
	UserCounters(ctx context.Context, pred scope.Predicate) (repository.Quad, error)
	OverviewCounters(ctx context.Context, pred scope.Predicate, actorEmail string) (repository.Overview, error)
}

// Service implements insight use cases.
type Service struct {
	repo     InsightsRepository
	policies *scope.Engine
	log      *logger.Logger
}

func New(repo InsightsRepository, policies *scope.Engine, log *logger.Logger) *Service {
	return &Service{repo: repo, policies: policies, log: log}
}

// ContextCounters computes the four counters for one insight context.
// Store failures degrade to zeroed counters, logged server-side.
func (s *Service) ContextCounters(ctx context.Context, actor scope.Actor, insightContext string) (*ContextCounters, error) {
	var (
		quad   repository.Quad
		labels [4]string
		err    error
	)

	switch insightContext {
	case ContextAllLeads:
		var pred scope.Predicate
		pred, err = s.policies.ForRecords(ctx, actor, scope.Filter{})
		if err == nil {
			quad, err = s.repo.AllLeadCounters(ctx, pred)
		}
		labels = [4]string{"total", "created_today", "in_conversation", "po"}

	case ContextMyLeads:
		quad, err = s.repo.MyLeadCounters(ctx, actor.Email)
		labels = [4]string{"total_mine", "scheduled_today", "in_conversation", "po"}

	case ContextScheduledLeads:
		filter := scope.Filter{}
		if actor.Role == scope.RoleUser {
			filter.Scope = scope.ScopeMineOrAssigned
		}
		var pred scope.Predicate
		pred, err = s.policies.ForRecords(ctx, actor, filter)
		if err == nil {
			quad, err = s.repo.ScheduledLeadCounters(ctx, pred)
		}
		labels = [4]string{"total_scheduled", "scheduled_today", "overdue", "upcoming"}

	case ContextUsers:
		var pred scope.Predicate
		pred, err = s.policies.ForProfiles(ctx, actor, scope.Filter{})
		if err == nil {
			quad, err = s.repo.UserCounters(ctx, pred)
		}
		labels = [4]string{"total", "admins", "users", "created_last_30d"}

	default:
		return nil, apperr.BadRequest("unknown insight context: " + insightContext).WithOp(opContext)
	}

	if err != nil {
		s.log.DatabaseError(opContext, err)
		quad = repository.Quad{}
	}

	return &ContextCounters{
		Context: insightContext,
		Counters: []Counter{
			{Label: labels[0], Value: quad.Metric1},
			{Label: labels[1], Value: quad.Metric2},
			{Label: labels[2], Value: quad.Metric3},
			{Label: labels[3], Value: quad.Metric4},
		},
	}, nil
}

// Overview computes the cross-entity totals for the dashboard header.
func (s *Service) Overview(ctx context.Context, actor scope.Actor) (*OverviewCounters, error) {
	pred, err := s.policies.ForRecords(ctx, actor, scope.Filter{})
	if err != nil {
		return nil, err
	}

	overview, err := s.repo.OverviewCounters(ctx, pred, actor.Email)
	if err != nil {
		s.log.DatabaseError(opOverview, err)
		return &OverviewCounters{}, nil
	}
	return &OverviewCounters{
		AllComments:   overview.AllComments,
		MyComments:    overview.MyComments,
		Companies:     overview.Companies,
		Notifications: overview.Notifications,
	}, nil
}
