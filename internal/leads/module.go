// Package leads wires lead management and the comment activity log into one
// module, including the comment-driven lead status synchronization.
package leads

import (
	"leadhub_backend/internal/events"
	"leadhub_backend/internal/http"
	"leadhub_backend/internal/leads/handler"
	"leadhub_backend/internal/leads/repository"
	"leadhub_backend/internal/leads/service"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the leads vertical slice.
type Module struct {
	Repository *repository.Repository
	Service    *service.Service
	Handler    *handler.Handler
}

// New constructs the leads module.
func New(pool *pgxpool.Pool, policies *scope.Engine, resolver handler.ActorResolver, bus events.Bus, log *logger.Logger, v *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, repo, policies, bus, log, v)
	return &Module{
		Repository: repo,
		Service:    svc,
		Handler:    handler.New(svc, resolver),
	}
}

func (m *Module) Name() string { return "leads" }

// RegisterRoutes mounts lead and comment routes.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	leads.GET("", m.Handler.List)
	leads.POST("", m.Handler.Create)
	leads.GET("/scheduled-alerts", m.Handler.ScheduledAlerts)
	leads.GET("/:id", m.Handler.Get)
	leads.PATCH("/:id", m.Handler.Update)
	leads.DELETE("/:id", m.Handler.Delete)
	leads.GET("/:id/comments", m.Handler.ListComments)
	leads.POST("/:id/comments", m.Handler.AddComment)

	comments := ctx.Protected.Group("/comments")
	comments.GET("", m.Handler.ListAllComments)
	comments.DELETE("/:id", m.Handler.DeleteComment)
}
