package service

import (
	"context"
	"errors"
	"testing"

	"leadhub_backend/internal/events"
	"leadhub_backend/internal/purchaseorders/repository"
	"leadhub_backend/internal/purchaseorders/transport"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/validator"
)

type fakePORepo struct {
	orders  []repository.PurchaseOrder
	listErr error
}

func (f *fakePORepo) List(_ context.Context, params repository.ListParams) ([]repository.PurchaseOrder, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	if params.Predicate.RejectAll {
		return []repository.PurchaseOrder{}, 0, nil
	}
	return f.orders, int64(len(f.orders)), nil
}

func (f *fakePORepo) Create(_ context.Context, po *repository.PurchaseOrder) (*repository.PurchaseOrder, error) {
	created := *po
	created.ID = int64(len(f.orders) + 1)
	f.orders = append(f.orders, created)
	return &created, nil
}

type fakeLeadGateway struct {
	visible map[int64]bool
	marked  []int64
}

func (f *fakeLeadGateway) EnsureVisible(_ context.Context, leadID int64, pred scope.Predicate) error {
	if pred.RejectAll || !f.visible[leadID] {
		return apperr.NotFound("lead not found")
	}
	return nil
}

func (f *fakeLeadGateway) MarkPurchaseOrder(_ context.Context, leadID int64) error {
	f.marked = append(f.marked, leadID)
	return nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, event events.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(string, events.Handler) {}

type staticMembers []string

func (s staticMembers) MemberEmails(context.Context, int64) ([]string, error) {
	return []string(s), nil
}

func newService(repo *fakePORepo, gateway *fakeLeadGateway, bus *fakeBus) *Service {
	engine := scope.NewEngine(staticMembers{"me@c.com"})
	return New(repo, gateway, engine, bus, logger.New("development"), validator.New())
}

func companyActor() scope.Actor {
	companyID := int64(1)
	return scope.Actor{ProfileID: 1, Email: "me@c.com", Role: scope.RoleUser, CompanyID: &companyID}
}

func TestCreateMarksLeadPO(t *testing.T) {
	repo := &fakePORepo{}
	gateway := &fakeLeadGateway{visible: map[int64]bool{7: true}}
	bus := &fakeBus{}
	svc := newService(repo, gateway, bus)

	created, err := svc.Create(context.Background(), companyActor(), transport.CreatePurchaseOrderRequest{
		LeadID:          7,
		AmountReceived:  1000,
		AmountRemaining: 500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.LeadID != 7 {
		t.Fatalf("leadId = %d", created.LeadID)
	}
	if len(gateway.marked) != 1 || gateway.marked[0] != 7 {
		t.Fatalf("lead 7 must be marked PO after insertion, marked=%v", gateway.marked)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.published))
	}
}

func TestCreateInvisibleLeadRejected(t *testing.T) {
	repo := &fakePORepo{}
	gateway := &fakeLeadGateway{visible: map[int64]bool{}}
	svc := newService(repo, gateway, &fakeBus{})

	_, err := svc.Create(context.Background(), companyActor(), transport.CreatePurchaseOrderRequest{
		LeadID:         9,
		AmountReceived: 100,
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("invisible lead must read as not found, got %v", err)
	}
	if len(repo.orders) != 0 {
		t.Fatal("no PO may be written when the lead check fails")
	}
	if len(gateway.marked) != 0 {
		t.Fatal("lead must not be marked PO")
	}
}

func TestListStoreFailureDegradesToEmpty(t *testing.T) {
	repo := &fakePORepo{listErr: errors.New("db down")}
	svc := newService(repo, &fakeLeadGateway{}, &fakeBus{})

	resp, err := svc.List(context.Background(), companyActor(), transport.ListPurchaseOrdersQuery{Page: 1})
	if err != nil {
		t.Fatalf("list reads must not surface store errors: %v", err)
	}
	if len(resp.Items) != 0 || resp.Count != 0 {
		t.Fatalf("expected empty page, got %+v", resp)
	}
}
