// Package identity wires authentication, actor resolution, and user
// management into one module.
package identity

import (
	"leadhub_backend/internal/http"
	"leadhub_backend/internal/identity/handler"
	"leadhub_backend/internal/identity/repository"
	"leadhub_backend/internal/identity/service"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/config"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the identity vertical slice.
type Module struct {
	Repository *repository.Repository
	Service    *service.Service
	Handler    *handler.Handler
}

// New constructs the identity module. The returned repository also satisfies
// scope.MemberEmailResolver for the policy engine.
func New(pool *pgxpool.Pool, policies *scope.Engine, cfg config.AuthServiceConfig, log *logger.Logger, v *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, policies, cfg, log, v)
	return &Module{
		Repository: repo,
		Service:    svc,
		Handler:    handler.New(svc),
	}
}

func (m *Module) Name() string { return "identity" }

// RegisterRoutes mounts identity routes.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	auth := ctx.V1.Group("/auth")
	auth.Use(ctx.AuthRateLimiter.RateLimit())
	auth.POST("/login", m.Handler.Login)

	ctx.Protected.GET("/me", m.Handler.Me)
	ctx.Protected.GET("/users", m.Handler.ListUsers)

	ctx.Superadmin.POST("/users", m.Handler.CreateUser)
	ctx.Superadmin.DELETE("/users/:id", m.Handler.DeleteUser)
}
