package dispatch

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"leadhub_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
)

type testConfig struct {
	redisURL string
}

func (c testConfig) GetRedisURL() string       { return c.redisURL }
func (c testConfig) GetRedisTLSInsecure() bool { return false }
func (c testConfig) GetAsynqQueueName() string { return "notifications" }
func (c testConfig) GetAsynqConcurrency() int  { return 1 }

func TestNewClientDisabledWithoutRedis(t *testing.T) {
	client, err := NewClient(testConfig{}, logger.New("development"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != nil {
		t.Fatal("missing redis url must disable dispatch, not fail")
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(testConfig{redisURL: "not-a-url"}, logger.New("development"))
	if err == nil {
		t.Fatal("expected error for malformed redis url")
	}
}

func TestEnqueueBroadcastEmail(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testConfig{redisURL: "redis://" + srv.Addr()}, logger.New("development"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("expected an enabled client")
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = client.EnqueueBroadcastEmail(ctx, BroadcastEmailPayload{
		NotificationID: 42,
		Title:          "Maintenance window",
		Message:        "The system goes down at midnight.",
	})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
}

func TestBroadcastEmailTaskPayload(t *testing.T) {
	task, err := NewBroadcastEmailTask(BroadcastEmailPayload{NotificationID: 7, Title: "t", Message: "m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TypeBroadcastEmail {
		t.Fatalf("task type = %s", task.Type())
	}

	var decoded BroadcastEmailPayload
	if err := json.Unmarshal(task.Payload(), &decoded); err != nil {
		t.Fatalf("payload must round-trip: %v", err)
	}
	if decoded.NotificationID != 7 {
		t.Fatalf("decoded = %+v", decoded)
	}
}
