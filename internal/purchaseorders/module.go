// Package purchaseorders wires purchase order tracking into one module.
package purchaseorders

import (
	"context"

	"leadhub_backend/internal/events"
	"leadhub_backend/internal/http"
	leadsrepo "leadhub_backend/internal/leads/repository"
	"leadhub_backend/internal/purchaseorders/handler"
	"leadhub_backend/internal/purchaseorders/repository"
	"leadhub_backend/internal/purchaseorders/service"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the purchase orders vertical slice.
type Module struct {
	Repository *repository.Repository
	Service    *service.Service
	Handler    *handler.Handler
}

// leadGateway adapts the leads repository to the PO flow's needs.
type leadGateway struct {
	leads *leadsrepo.Repository
}

func (g *leadGateway) EnsureVisible(ctx context.Context, leadID int64, pred scope.Predicate) error {
	_, err := g.leads.Get(ctx, leadID, pred)
	return err
}

func (g *leadGateway) MarkPurchaseOrder(ctx context.Context, leadID int64) error {
	return g.leads.MarkPurchaseOrder(ctx, leadID)
}

// New constructs the purchase orders module.
func New(pool *pgxpool.Pool, leads *leadsrepo.Repository, policies *scope.Engine, resolver handler.ActorResolver, bus events.Bus, log *logger.Logger, v *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, &leadGateway{leads: leads}, policies, bus, log, v)
	return &Module{
		Repository: repo,
		Service:    svc,
		Handler:    handler.New(svc, resolver),
	}
}

func (m *Module) Name() string { return "purchaseorders" }

// RegisterRoutes mounts purchase order routes.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	orders := ctx.Protected.Group("/purchase-orders")
	orders.GET("", m.Handler.List)
	orders.POST("", m.Handler.Create)
}
