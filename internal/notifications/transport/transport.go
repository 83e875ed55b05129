// Package transport defines request/response DTOs for broadcast notifications.
package transport

import "time"

// CreateNotificationRequest is the superadmin payload for a broadcast.
type CreateNotificationRequest struct {
	Title   string `json:"title" validate:"required,min=2,max=200"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

// NotificationResponse is the wire shape of a broadcast notification.
type NotificationResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	CreatedByEmail string    `json:"createdByEmail"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListNotificationsResponse is the paginated notification listing result.
type ListNotificationsResponse struct {
	Items []NotificationResponse `json:"items"`
	Count int64                  `json:"count"`
}
