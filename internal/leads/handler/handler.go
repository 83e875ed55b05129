// Package handler exposes lead and comment HTTP endpoints.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"leadhub_backend/internal/leads/service"
	"leadhub_backend/internal/leads/transport"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// ActorResolver resolves the authenticated profile to a fresh actor.
// Satisfied by the identity service.
type ActorResolver interface {
	Resolve(ctx context.Context, profileID int64) (scope.Actor, error)
}

// Handler handles lead HTTP requests.
type Handler struct {
	service  *service.Service
	resolver ActorResolver
}

func New(service *service.Service, resolver ActorResolver) *Handler {
	return &Handler{service: service, resolver: resolver}
}

// actor authenticates the request and resolves the acting profile. Returns
// false when the response has already been written.
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

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		httpkit.Error(c, http.StatusBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return id, true
}

// List handles GET /leads.
func (h *Handler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var q transport.ListLeadsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}

	resp, err := h.service.List(c.Request.Context(), actor, q)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Get handles GET /leads/:id.
func (h *Handler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Create handles POST /leads.
func (h *Handler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

// Update handles PATCH /leads/:id.
func (h *Handler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Delete handles DELETE /leads/:id.
func (h *Handler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ScheduledAlerts handles GET /leads/scheduled-alerts.
func (h *Handler) ScheduledAlerts(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	resp, err := h.service.ScheduledAlerts(c.Request.Context(), actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
