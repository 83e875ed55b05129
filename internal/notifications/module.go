// Package notifications wires broadcast notifications into one module.
// Publishing a broadcast emits an event; when a dispatch client is
// configured, a subscriber enqueues the email fan-out task.
package notifications

import (
	"context"

	"leadhub_backend/internal/events"
	"leadhub_backend/internal/http"
	"leadhub_backend/internal/notifications/dispatch"
	"leadhub_backend/internal/notifications/handler"
	"leadhub_backend/internal/notifications/repository"
	"leadhub_backend/internal/notifications/service"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the notifications vertical slice.
type Module struct {
	Repository *repository.Repository
	Service    *service.Service
	Handler    *handler.Handler
}

// New constructs the notifications module. dispatcher may be nil, in which
// case broadcasts are stored and listed but not emailed.
func New(pool *pgxpool.Pool, resolver handler.ActorResolver, bus events.Bus, dispatcher *dispatch.Client, log *logger.Logger, v *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log, v)

	if dispatcher != nil {
		bus.Subscribe(events.BroadcastPublished{}.EventName(), events.HandlerFunc(
			func(ctx context.Context, event events.Event) error {
				published, ok := event.(events.BroadcastPublished)
				if !ok {
					return nil
				}
				return dispatcher.EnqueueBroadcastEmail(ctx, dispatch.BroadcastEmailPayload{
					NotificationID: published.NotificationID,
					Title:          published.Title,
					Message:        published.Message,
				})
			}))
	}

	return &Module{
		Repository: repo,
		Service:    svc,
		Handler:    handler.New(svc, resolver),
	}
}

func (m *Module) Name() string { return "notifications" }

// RegisterRoutes mounts notification routes.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	ctx.Protected.GET("/notifications", m.Handler.List)

	ctx.Superadmin.POST("/notifications", m.Handler.Create)
	ctx.Superadmin.DELETE("/notifications/:id", m.Handler.Delete)
}
