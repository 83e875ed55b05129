// Package handler exposes identity HTTP endpoints.
package handler

import (
	"net/http"
	"strconv"

	"leadhub_backend/internal/identity/service"
	"leadhub_backend/internal/identity/transport"
	"leadhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles identity HTTP requests.
type Handler struct {
	service *service.Service
}

func New(service *service.Service) *Handler {
	return &Handler{service: service}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Me handles GET /me.
func (h *Handler) Me(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	resp, err := h.service.Me(c.Request.Context(), id.ProfileID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	actor, err := h.service.Resolve(c.Request.Context(), id.ProfileID())
	if httpkit.HandleError(c, err) {
		return
	}

	var q transport.ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}

	resp, err := h.service.ListUsers(c.Request.Context(), actor, q)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// CreateUser handles POST /admin/users.
func (h *Handler) CreateUser(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	actor, err := h.service.Resolve(c.Request.Context(), id.ProfileID())
	if httpkit.HandleError(c, err) {
		return
	}

	var req transport.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	resp, err := h.service.CreateUser(c.Request.Context(), actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

// DeleteUser handles DELETE /admin/users/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	actor, err := h.service.Resolve(c.Request.Context(), id.ProfileID())
	if httpkit.HandleError(c, err) {
		return
	}

	profileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid profile id", nil)
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), actor, profileID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
