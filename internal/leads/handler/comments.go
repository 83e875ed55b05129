package handler

import (
	"net/http"
	"strconv"

	"leadhub_backend/internal/leads/transport"
	"leadhub_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// AddComment handles POST /leads/:id/comments.
func (h *Handler) AddComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	leadID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transport.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	resp, err := h.service.AddComment(c.Request.Context(), actor, leadID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

// ListComments handles GET /leads/:id/comments.
func (h *Handler) ListComments(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	leadID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))

	resp, err := h.service.ListComments(c.Request.Context(), actor, leadID, page)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ListAllComments handles GET /comments.
func (h *Handler) ListAllComments(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	mineOnly := c.Query("mineOnly") == "true"

	resp, err := h.service.ListAllComments(c.Request.Context(), actor, page, mineOnly)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// DeleteComment handles DELETE /comments/:id.
func (h *Handler) DeleteComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), actor, commentID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
