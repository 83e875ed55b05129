// Package handler exposes purchase order HTTP endpoints.
package handler

import (
	"context"
	"net/http"

	"leadhub_backend/internal/purchaseorders/service"
	"leadhub_backend/internal/purchaseorders/transport"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// ActorResolver resolves the authenticated profile to a fresh actor.
type ActorResolver interface {
	Resolve(ctx context.Context, profileID int64) (scope.Actor, error)
}

// Handler handles purchase order HTTP requests.
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

// List handles GET /purchase-orders.
func (h *Handler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var q transport.ListPurchaseOrdersQuery
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

// Create handles POST /purchase-orders.
func (h *Handler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req transport.CreatePurchaseOrderRequest
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
