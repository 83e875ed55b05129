// Package companies wires company management into one module. Reads are open
// to any authenticated caller; mutations go through the superadmin group.
package companies

import (
	"leadhub_backend/internal/companies/handler"
	"leadhub_backend/internal/companies/repository"
	"leadhub_backend/internal/companies/service"
	"leadhub_backend/internal/http"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the companies vertical slice.
type Module struct {
	Repository *repository.Repository
	Service    *service.Service
	Handler    *handler.Handler
}

// New constructs the companies module.
func New(pool *pgxpool.Pool, log *logger.Logger, v *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log, v)
	return &Module{
		Repository: repo,
		Service:    svc,
		Handler:    handler.New(svc),
	}
}

func (m *Module) Name() string { return "companies" }

// RegisterRoutes mounts company routes.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	companies := ctx.Protected.Group("/companies")
	companies.GET("", m.Handler.List)
	companies.GET("/:id", m.Handler.Get)

	admin := ctx.Superadmin.Group("/companies")
	admin.POST("", m.Handler.Create)
	admin.PATCH("/:id", m.Handler.Update)
	admin.DELETE("/:id", m.Handler.Delete)
}
