// Package dispatch handles asynchronous fan-out of broadcast notifications
// through asynq-backed background tasks.
package dispatch

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TypeBroadcastEmail is the task type for emailing a broadcast to all users.
const TypeBroadcastEmail = "notifications:broadcast_email"

// BroadcastEmailPayload is the task payload for a broadcast email fan-out.
type BroadcastEmailPayload struct {
	NotificationID int64  `json:"notificationId"`
	Title          string `json:"title"`
	Message        string `json:"message"`
}

// NewBroadcastEmailTask builds the asynq task for a broadcast email fan-out.
func NewBroadcastEmailTask(payload BroadcastEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBroadcastEmail, data), nil
}
