// Package transport defines request/response DTOs for the leads module,
// including the comment activity log.
package transport

import "time"

// CreateLeadRequest is the payload for creating a lead.
type CreateLeadRequest struct {
	LeadName       string     `json:"leadName" validate:"required,min=2,max=200"`
	Phone          string     `json:"phone" validate:"omitempty"`
	SecondaryPhone string     `json:"secondaryPhone" validate:"omitempty"`
	Email          string     `json:"email" validate:"omitempty,email"`
	Location       string     `json:"location" validate:"omitempty,max=500"`
	Note           string     `json:"note" validate:"omitempty,max=2000"`
	Status         string     `json:"status" validate:"omitempty"`
	ScheduleTime   *time.Time `json:"scheduleTime"`
	AssignedEmail  string     `json:"assignedToEmail" validate:"omitempty,email"`
}

// UpdateLeadRequest is the payload for the lead-edit form. Nil fields are
// left untouched.
type UpdateLeadRequest struct {
	LeadName       *string    `json:"leadName" validate:"omitempty,min=2,max=200"`
	Phone          *string    `json:"phone"`
	SecondaryPhone *string    `json:"secondaryPhone"`
	Email          *string    `json:"email" validate:"omitempty,email"`
	Location       *string    `json:"location" validate:"omitempty,max=500"`
	Note           *string    `json:"note" validate:"omitempty,max=2000"`
	Status         *string    `json:"status"`
	ScheduleTime   *time.Time `json:"scheduleTime"`
	AssignedEmail  *string    `json:"assignedToEmail" validate:"omitempty,email"`
}

// ListLeadsQuery carries the filter parameters for lead listings.
type ListLeadsQuery struct {
	Page         int    `form:"page"`
	Query        string `form:"query"`
	Status       string `form:"status"`
	Filter       string `form:"filter"`
	MineOnly     bool   `form:"mineOnly"`
	AssignedOnly bool   `form:"assignedOnly"`
	Scope        string `form:"scope"`
	CompanyID    *int64 `form:"companyId"`
}

// LeadResponse is the wire shape of a lead.
type LeadResponse struct {
	ID             int64      `json:"id"`
	LeadName       string     `json:"leadName"`
	Phone          *string    `json:"phone,omitempty"`
	SecondaryPhone *string    `json:"secondaryPhone,omitempty"`
	Email          *string    `json:"email,omitempty"`
	Location       *string    `json:"location,omitempty"`
	Note           *string    `json:"note,omitempty"`
	Status         string     `json:"status"`
	ScheduleTime   *time.Time `json:"scheduleTime,omitempty"`
	CreatedByEmail string     `json:"createdByEmail"`
	AssignedEmail  *string    `json:"assignedToEmail,omitempty"`
	CreatedTime    time.Time  `json:"createdTime"`
	LastEditedTime time.Time  `json:"lastEditedTime"`
}

// ListLeadsResponse is the paginated lead listing result.
type ListLeadsResponse struct {
	Items []LeadResponse `json:"items"`
	Count int64          `json:"count"`
}

// ScheduledLeadResponse is the trimmed shape served to the alert watcher.
type ScheduledLeadResponse struct {
	ID           int64     `json:"id"`
	LeadName     string    `json:"leadName"`
	Phone        *string   `json:"phone,omitempty"`
	ScheduleTime time.Time `json:"scheduleTime"`
}

// AddCommentRequest is the payload for posting a comment on a lead.
// A non-empty Status makes this a status-changing comment; ScheduleTime is
// honored only when Status is 'Scheduled'. ScheduleLabel is the optional
// human-readable suffix, e.g. "(Scheduled: 3 Mar 2026, 10:00)".
type AddCommentRequest struct {
	CommentText   string     `json:"commentText" validate:"required,min=1,max=2000"`
	Status        string     `json:"status" validate:"omitempty"`
	ScheduleTime  *time.Time `json:"scheduleTime"`
	ScheduleLabel string     `json:"scheduleLabel" validate:"omitempty,max=100"`
}

// CommentResponse is the wire shape of a comment.
type CommentResponse struct {
	ID             int64     `json:"id"`
	LeadID         int64     `json:"leadId"`
	CommentText    string    `json:"commentText"`
	Status         *string   `json:"status,omitempty"`
	CreatedByEmail string    `json:"createdByEmail"`
	CreatedTime    time.Time `json:"createdTime"`
}

// ListCommentsResponse is the paginated comment log result.
type ListCommentsResponse struct {
	Items []CommentResponse `json:"items"`
	Count int64             `json:"count"`
}
