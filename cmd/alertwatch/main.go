// Command alertwatch polls for upcoming Scheduled leads on behalf of one
// profile and rings the terminal bell as each alert threshold is crossed.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadhub_backend/internal/alerts"
	"leadhub_backend/internal/events"
	identityrepo "leadhub_backend/internal/identity/repository"
	identityservice "leadhub_backend/internal/identity/service"
	"leadhub_backend/internal/leads"
	leadservice "leadhub_backend/internal/leads/service"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/config"
	"leadhub_backend/platform/db"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/phone"
	"leadhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting alert watcher", "env", cfg.Env, "poll_interval", cfg.AlertPollInterval)

	if cfg.AlertActorEmail == "" {
		panic("ALERT_ACTOR_EMAIL is required for the alert watcher")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	profileRepo := identityrepo.New(pool)
	policies := scope.NewEngine(profileRepo)
	identitySvc := identityservice.New(profileRepo, policies, cfg, log, validator.New())

	profile, err := profileRepo.GetByEmail(ctx, cfg.AlertActorEmail)
	if err != nil {
		log.Error("failed to resolve alert actor", "email", cfg.AlertActorEmail, "error", err)
		panic("failed to resolve alert actor: " + err.Error())
	}
	actor, err := identitySvc.Resolve(ctx, profile.ID)
	if err != nil {
		log.Error("failed to resolve alert actor", "email", cfg.AlertActorEmail, "error", err)
		panic("failed to resolve alert actor: " + err.Error())
	}
	if actor.Role == scope.RoleSuperadmin {
		panic("superadmin profiles receive no scheduled-lead alerts")
	}

	eventBus := events.NewInMemoryBus(log)
	leadsModule := leads.New(pool, policies, identitySvc, eventBus, log, validator.New())

	fetcher := &serviceFetcher{svc: leadsModule.Service, actor: actor}
	watcher := alerts.NewWatcher(fetcher, terminalBell{}, log, cfg.AlertPollInterval)

	log.Info("watching scheduled leads", "actor", actor.Email, "role", actor.Role.String())
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		panic("alert watcher stopped: " + err.Error())
	}
}

// serviceFetcher adapts the lead service's scheduled-alert listing to the
// watcher's fetcher interface.
type serviceFetcher struct {
	svc   *leadservice.Service
	actor scope.Actor
}

func (f *serviceFetcher) ScheduledLeads(ctx context.Context) ([]alerts.ScheduledLead, error) {
	rows, err := f.svc.ScheduledAlerts(ctx, f.actor)
	if err != nil {
		return nil, err
	}
	scheduled := make([]alerts.ScheduledLead, 0, len(rows))
	for _, row := range rows {
		lead := alerts.ScheduledLead{
			ID:           row.ID,
			LeadName:     row.LeadName,
			ScheduleTime: row.ScheduleTime,
		}
		if row.Phone != nil {
			lead.Phone = *row.Phone
		}
		scheduled = append(scheduled, lead)
	}
	return scheduled, nil
}

// terminalBell rings the bell and prints the alert card on stdout.
type terminalBell struct{}

func (terminalBell) Notify(_ context.Context, lead alerts.ScheduledLead, thresholdMinutes int) error {
	who := lead.LeadName
	if lead.Phone != "" {
		who = fmt.Sprintf("%s (%s)", lead.LeadName, phone.FormatDisplay(lead.Phone))
	}
	when := lead.ScheduleTime.Local().Format("2 Jan 2006, 15:04")
	if thresholdMinutes == 0 {
		fmt.Printf("\a[ALERT] %s is scheduled now (%s)\n", who, when)
		return nil
	}
	fmt.Printf("\a[ALERT] %s is scheduled in %d minutes (%s)\n", who, thresholdMinutes, when)
	return nil
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
