package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"leadhub_backend/platform/config"
	"leadhub_backend/platform/logger"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

// sendConcurrency bounds parallel SMTP deliveries within one broadcast task.
const sendConcurrency = 8

// RecipientSource lists the email addresses a broadcast fans out to.
// Satisfied by the identity repository.
type RecipientSource interface {
	AllEmails(ctx context.Context) ([]string, error)
}

// EmailSender delivers a single email. Satisfied by the SMTP sender.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Worker consumes dispatch tasks from the queue.
type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	recipients RecipientSource
	sender     EmailSender
	log        *logger.Logger
}

// NewWorker creates the dispatch worker.
func NewWorker(cfg config.SchedulerConfig, recipients RecipientSource, sender EmailSender, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{cfg.GetAsynqQueueName(): 1},
		Logger:      asynqLogger{log},
	})

	w := &Worker{
		server:     server,
		mux:        asynq.NewServeMux(),
		recipients: recipients,
		sender:     sender,
		log:        log,
	}
	w.mux.HandleFunc(TypeBroadcastEmail, w.handleBroadcastEmail)
	return w, nil
}

// Run starts processing tasks and blocks until Shutdown.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker gracefully.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// handleBroadcastEmail emails a broadcast to every known profile. Individual
// delivery failures are logged and skipped; the task only fails when the
// recipient list cannot be resolved.
func (w *Worker) handleBroadcastEmail(ctx context.Context, task *asynq.Task) error {
	var payload BroadcastEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal broadcast payload: %v: %w", err, asynq.SkipRetry)
	}

	emails, err := w.recipients.AllEmails(ctx)
	if err != nil {
		return fmt.Errorf("resolve broadcast recipients: %w", err)
	}

	var delivered atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(sendConcurrency)
	for _, email := range emails {
		group.Go(func() error {
			if err := w.sender.Send(groupCtx, email, payload.Title, payload.Message); err != nil {
				w.log.Error("broadcast email failed", "to", email, "notification_id", payload.NotificationID, "error", err)
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = group.Wait()

	w.log.Info("broadcast dispatched",
		"notification_id", payload.NotificationID,
		"recipients", len(emails),
		"delivered", delivered.Load(),
	)
	return nil
}

// asynqLogger adapts the structured logger to asynq's logging interface.
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Error(fmt.Sprint(args...)) }
