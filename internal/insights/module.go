// Package insights wires the dashboard counters into one module.
package insights

import (
	"leadhub_backend/internal/http"
	"leadhub_backend/internal/insights/handler"
	"leadhub_backend/internal/insights/repository"
	"leadhub_backend/internal/insights/service"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the insights vertical slice.
type Module struct {
	Repository *repository.Repository
	Service    *service.Service
	Handler    *handler.Handler
}

// New constructs the insights module.
func New(pool *pgxpool.Pool, policies *scope.Engine, resolver handler.ActorResolver, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, policies, log)
	return &Module{
		Repository: repo,
		Service:    svc,
		Handler:    handler.New(svc, resolver),
	}
}

func (m *Module) Name() string { return "insights" }

// RegisterRoutes mounts insight routes.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	insights := ctx.Protected.Group("/insights")
	insights.GET("", m.Handler.ContextCounters)
	insights.GET("/overview", m.Handler.Overview)
}
