// Package handler exposes the insights HTTP endpoints.
package handler

import (
	"context"

	"leadhub_backend/internal/insights/service"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// ActorResolver resolves the authenticated profile to a fresh actor.
type ActorResolver interface {
	Resolve(ctx context.Context, profileID int64) (scope.Actor, error)
}

// Handler handles insight HTTP requests.
type Handler struct {
	service  *service.Service
	resolver ActorResolver
}

func New(service *service.Service, resolver ActorResolver) *Handler {
	return &Handler{service: service, resolver: resolver}
}

func (h *Handler) actor(c *gin.Context) (scope.Actor, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return scope.Actor{}, false
	}
	actor, err := h.resolver.Resolve(c.Request.Context(), id.ProfileID())
	if httpkit.HandleError(c, err) {
		return scope.Actor{}, false
	}
	return actor, true
}

// ContextCounters handles GET /insights?context=all_leads.
func (h *Handler) ContextCounters(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	insightContext := c.DefaultQuery("context", service.ContextAllLeads)
	resp, err := h.service.ContextCounters(c.Request.Context(), actor, insightContext)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Overview handles GET /insights/overview.
func (h *Handler) Overview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	resp, err := h.service.Overview(c.Request.Context(), actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
