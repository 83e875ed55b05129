// Package handler exposes broadcast notification HTTP endpoints.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"leadhub_backend/internal/notifications/service"
	"leadhub_backend/internal/notifications/transport"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// ActorResolver resolves the authenticated profile to a fresh actor.
type ActorResolver interface {
	Resolve(ctx context.Context, profileID int64) (scope.Actor, error)
}

// Handler handles notification HTTP requests.
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

// List handles GET /notifications.
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))

	resp, err := h.service.List(c.Request.Context(), page)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Create handles POST /admin/notifications.
func (h *Handler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req transport.CreateNotificationRequest
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

// Delete handles DELETE /admin/notifications/:id.
func (h *Handler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httpkit.Error(c, http.StatusBadRequest, "invalid notification id", nil)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
