package service

import (
	"context"
	"errors"
	"testing"

	"leadhub_backend/internal/insights/repository"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"
	"leadhub_backend/platform/logger"
)

type fakeInsightsRepo struct {
	quad      repository.Quad
	usersPred scope.Predicate
	err       error
}

func (f *fakeInsightsRepo) AllLeadCounters(_ context.Context, pred scope.Predicate) (repository.Quad, error) {
	if pred.RejectAll {
		return repository.Quad{}, nil
	}
	return f.quad, f.err
}

func (f *fakeInsightsRepo) MyLeadCounters(context.Context, string) (repository.Quad, error) {
	return f.quad, f.err
}

func (f *fakeInsightsRepo) ScheduledLeadCounters(_ context.Context, pred scope.Predicate) (repository.Quad, error) {
	if pred.RejectAll {
		return repository.Quad{}, nil
	}
	return f.quad, f.err
}

func (f *fakeInsightsRepo) UserCounters(_ context.Context, pred scope.Predicate) (repository.Quad, error) {
	f.usersPred = pred
	if pred.RejectAll {
		return repository.Quad{}, nil
	}
	return f.quad, f.err
}

func (f *fakeInsightsRepo) OverviewCounters(context.Context, scope.Predicate, string) (repository.Overview, error) {
	if f.err != nil {
		return repository.Overview{}, f.err
	}
	return repository.Overview{AllComments: 4, MyComments: 2, Companies: 1, Notifications: 3}, nil
}

type staticMembers []string

func (s staticMembers) MemberEmails(context.Context, int64) ([]string, error) {
	return []string(s), nil
}

func newService(repo *fakeInsightsRepo) *Service {
	return New(repo, scope.NewEngine(staticMembers{"me@c.com"}), logger.New("development"))
}

func companyActor(role scope.Role) scope.Actor {
	companyID := int64(1)
	return scope.Actor{ProfileID: 1, Email: "me@c.com", Role: role, CompanyID: &companyID}
}

func TestContextCountersUnknownContext(t *testing.T) {
	svc := newService(&fakeInsightsRepo{})
	_, err := svc.ContextCounters(context.Background(), companyActor(scope.RoleAdmin), "bogus")
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("unknown context must be rejected, got %v", err)
	}
}

func TestContextCountersAllLeads(t *testing.T) {
	repo := &fakeInsightsRepo{quad: repository.Quad{Metric1: 10, Metric2: 2, Metric3: 3, Metric4: 1}}
	svc := newService(repo)

	resp, err := svc.ContextCounters(context.Background(), companyActor(scope.RoleAdmin), ContextAllLeads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Counters) != 4 {
		t.Fatalf("expected four counters, got %d", len(resp.Counters))
	}
	if resp.Counters[0].Label != "total" || resp.Counters[0].Value != 10 {
		t.Fatalf("first counter = %+v", resp.Counters[0])
	}
	if resp.Counters[1].Label != "created_today" {
		t.Fatalf("second counter = %+v", resp.Counters[1])
	}
}

func TestContextCountersUsersRejectedForUserRole(t *testing.T) {
	repo := &fakeInsightsRepo{quad: repository.Quad{Metric1: 99}}
	svc := newService(repo)

	resp, err := svc.ContextCounters(context.Background(), companyActor(scope.RoleUser), ContextUsers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, counter := range resp.Counters {
		if counter.Value != 0 {
			t.Fatalf("user role must see zeroed user counters, got %+v", resp.Counters)
		}
	}
	if !repo.usersPred.RejectAll {
		t.Fatal("user role must carry a reject-all predicate into the query")
	}
}

func TestContextCountersStoreFailureZeroes(t *testing.T) {
	repo := &fakeInsightsRepo{quad: repository.Quad{Metric1: 5}, err: errors.New("db down")}
	svc := newService(repo)

	resp, err := svc.ContextCounters(context.Background(), companyActor(scope.RoleAdmin), ContextMyLeads)
	if err != nil {
		t.Fatalf("store failures must degrade to zeroes: %v", err)
	}
	for _, counter := range resp.Counters {
		if counter.Value != 0 {
			t.Fatalf("expected zeroed counters, got %+v", resp.Counters)
		}
	}
}

func TestOverview(t *testing.T) {
	svc := newService(&fakeInsightsRepo{})
	resp, err := svc.Overview(context.Background(), companyActor(scope.RoleAdmin))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AllComments != 4 || resp.MyComments != 2 || resp.Companies != 1 || resp.Notifications != 3 {
		t.Fatalf("overview = %+v", resp)
	}
}
