// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"leadhub_backend/platform/events"
	"leadhub_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID         int64  `json:"leadId"`
	LeadName       string `json:"leadName"`
	CreatedByEmail string `json:"createdByEmail"`
	AssignedEmail  string `json:"assignedEmail,omitempty"`
	Status         string `json:"status"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published when a lead's status moves, whether by a
// status-bearing comment, a direct edit, or a purchase order.
type LeadStatusChanged struct {
	BaseEvent
	LeadID       int64      `json:"leadId"`
	OldStatus    string     `json:"oldStatus"`
	NewStatus    string     `json:"newStatus"`
	ScheduleTime *time.Time `json:"scheduleTime,omitempty"`
	ActorEmail   string     `json:"actorEmail"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// CommentAdded is published when a comment lands on a lead's activity log.
type CommentAdded struct {
	BaseEvent
	CommentID  int64   `json:"commentId"`
	LeadID     int64   `json:"leadId"`
	Status     *string `json:"status,omitempty"`
	ActorEmail string  `json:"actorEmail"`
}

func (e CommentAdded) EventName() string { return "leads.comment.added" }

// CommentDeleted is published after a comment soft-delete and the resulting
// lead-state recomputation.
type CommentDeleted struct {
	BaseEvent
	CommentID      int64  `json:"commentId"`
	LeadID         int64  `json:"leadId"`
	RevertedStatus string `json:"revertedStatus"`
	ActorEmail     string `json:"actorEmail"`
}

func (e CommentDeleted) EventName() string { return "leads.comment.deleted" }

// PurchaseOrderCreated is published when a PO is recorded against a lead.
type PurchaseOrderCreated struct {
	BaseEvent
	PurchaseOrderID int64  `json:"purchaseOrderId"`
	LeadID          int64  `json:"leadId"`
	ActorEmail      string `json:"actorEmail"`
}

func (e PurchaseOrderCreated) EventName() string { return "po.created" }

// BroadcastPublished is published when a superadmin posts a broadcast
// notification; the dispatch worker fans it out by email.
type BroadcastPublished struct {
	BaseEvent
	NotificationID int64  `json:"notificationId"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	ActorEmail     string `json:"actorEmail"`
}

func (e BroadcastPublished) EventName() string { return "notifications.broadcast.published" }
