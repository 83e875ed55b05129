package service

import (
	"context"
	"testing"
	"time"

	"leadhub_backend/internal/events"
	"leadhub_backend/internal/leads/repository"
	"leadhub_backend/internal/leads/transport"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/validator"
)

type fakeLeadRepo struct {
	leads  map[int64]*repository.Lead
	nextID int64
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: map[int64]*repository.Lead{}, nextID: 1}
}

func (f *fakeLeadRepo) Get(_ context.Context, id int64, pred scope.Predicate) (*repository.Lead, error) {
	if pred.RejectAll {
		return nil, apperr.NotFound("lead not found")
	}
	lead, ok := f.leads[id]
	if !ok || lead.IsDeleted {
		return nil, apperr.NotFound("lead not found")
	}
	copied := *lead
	return &copied, nil
}

func (f *fakeLeadRepo) List(_ context.Context, params repository.ListParams) ([]repository.Lead, int64, error) {
	if params.Predicate.RejectAll {
		return []repository.Lead{}, 0, nil
	}
	out := []repository.Lead{}
	for _, lead := range f.leads {
		if !lead.IsDeleted {
			out = append(out, *lead)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeLeadRepo) Create(_ context.Context, l *repository.Lead) (*repository.Lead, error) {
	created := *l
	created.ID = f.nextID
	created.CreatedTime = time.Now()
	created.LastEditedTime = created.CreatedTime
	f.nextID++
	f.leads[created.ID] = &created
	copied := created
	return &copied, nil
}

func (f *fakeLeadRepo) Update(_ context.Context, id int64, fields repository.UpdateFields) (*repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok || lead.IsDeleted {
		return nil, apperr.NotFound("lead not found")
	}
	if fields.LeadName != nil {
		lead.LeadName = *fields.LeadName
	}
	if fields.Status != nil {
		lead.Status = *fields.Status
		lead.ScheduleTime = fields.ScheduleTime
	}
	lead.LastEditedTime = time.Now()
	copied := *lead
	return &copied, nil
}

func (f *fakeLeadRepo) ApplyStatus(_ context.Context, id int64, status string, scheduleTime *time.Time) error {
	lead, ok := f.leads[id]
	if !ok || lead.IsDeleted {
		return apperr.NotFound("lead not found")
	}
	lead.Status = status
	lead.ScheduleTime = scheduleTime
	lead.LastEditedTime = time.Now()
	return nil
}

func (f *fakeLeadRepo) SoftDelete(_ context.Context, id int64) error {
	lead, ok := f.leads[id]
	if !ok || lead.IsDeleted {
		return apperr.NotFound("lead not found")
	}
	lead.IsDeleted = true
	return nil
}

func (f *fakeLeadRepo) ScheduledWindow(_ context.Context, pred scope.Predicate, from, to time.Time) ([]repository.Lead, error) {
	if pred.RejectAll {
		return []repository.Lead{}, nil
	}
	out := []repository.Lead{}
	for _, lead := range f.leads {
		if lead.IsDeleted || lead.Status != repository.StatusScheduled || lead.ScheduleTime == nil {
			continue
		}
		if lead.ScheduleTime.Before(from) || lead.ScheduleTime.After(to) {
			continue
		}
		out = append(out, *lead)
	}
	return out, nil
}

type fakeCommentRepo struct {
	comments map[int64]*repository.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[int64]*repository.Comment{}, nextID: 1}
}

func (f *fakeCommentRepo) GetComment(_ context.Context, id int64) (*repository.Comment, error) {
	comment, ok := f.comments[id]
	if !ok || comment.IsDeleted {
		return nil, apperr.NotFound("comment not found")
	}
	copied := *comment
	return &copied, nil
}

func (f *fakeCommentRepo) ListComments(_ context.Context, leadID int64, _ int) ([]repository.Comment, int64, error) {
	out := []repository.Comment{}
	for _, comment := range f.comments {
		if comment.LeadID == leadID && !comment.IsDeleted {
			out = append(out, *comment)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeCommentRepo) ListAllComments(_ context.Context, pred scope.Predicate, _ int) ([]repository.Comment, int64, error) {
	if pred.RejectAll {
		return []repository.Comment{}, 0, nil
	}
	out := []repository.Comment{}
	for _, comment := range f.comments {
		if !comment.IsDeleted {
			out = append(out, *comment)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeCommentRepo) InsertComment(_ context.Context, c *repository.Comment) (*repository.Comment, error) {
	created := *c
	created.ID = f.nextID
	created.CreatedTime = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	f.nextID++
	f.comments[created.ID] = &created
	copied := created
	return &copied, nil
}

func (f *fakeCommentRepo) SoftDeleteComment(_ context.Context, id int64) error {
	comment, ok := f.comments[id]
	if !ok || comment.IsDeleted {
		return apperr.NotFound("comment not found")
	}
	comment.IsDeleted = true
	return nil
}

func (f *fakeCommentRepo) LatestStatusComment(_ context.Context, leadID int64) (*repository.Comment, error) {
	var latest *repository.Comment
	for _, comment := range f.comments {
		if comment.LeadID != leadID || comment.IsDeleted || comment.Status == nil {
			continue
		}
		if latest == nil || comment.CreatedTime.After(latest.CreatedTime) {
			latest = comment
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
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

type fixture struct {
	service  *Service
	leads    *fakeLeadRepo
	comments *fakeCommentRepo
	bus      *fakeBus
}

func newFixture() *fixture {
	leads := newFakeLeadRepo()
	comments := newFakeCommentRepo()
	bus := &fakeBus{}
	engine := scope.NewEngine(staticMembers{"me@c.com", "peer@c.com"})
	svc := New(leads, comments, engine, bus, logger.New("development"), validator.New())
	return &fixture{service: svc, leads: leads, comments: comments, bus: bus}
}

type staticMembers []string

func (s staticMembers) MemberEmails(context.Context, int64) ([]string, error) {
	return []string(s), nil
}

func companyActor(role scope.Role) scope.Actor {
	companyID := int64(1)
	return scope.Actor{ProfileID: 1, Email: "me@c.com", Role: role, CompanyID: &companyID}
}

func seedLead(f *fixture, status string, scheduleTime *time.Time) *repository.Lead {
	phone := "1234567890"
	lead, _ := f.leads.Create(context.Background(), &repository.Lead{
		LeadName:       "Acme Corp",
		Phone:          &phone,
		Status:         status,
		ScheduleTime:   scheduleTime,
		CreatedByEmail: "me@c.com",
	})
	return lead
}

func TestCreateLeadValidation(t *testing.T) {
	f := newFixture()
	actor := companyActor(scope.RoleUser)

	_, err := f.service.Create(context.Background(), actor, transport.CreateLeadRequest{
		LeadName: "No Contact",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("missing contact method must fail validation, got %v", err)
	}

	_, err = f.service.Create(context.Background(), actor, transport.CreateLeadRequest{
		LeadName: "Short Phone",
		Phone:    "12345",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("5-digit phone must fail validation, got %v", err)
	}
	if len(f.leads.leads) != 0 {
		t.Fatal("no write may happen on validation failure")
	}

	created, err := f.service.Create(context.Background(), actor, transport.CreateLeadRequest{
		LeadName: "Good Phone",
		Phone:    "1234567890",
	})
	if err != nil {
		t.Fatalf("10-digit phone must pass: %v", err)
	}
	if created.Status != repository.StatusNew {
		t.Fatalf("default status must be New, got %s", created.Status)
	}
	if created.AssignedEmail == nil || *created.AssignedEmail != "me@c.com" {
		t.Fatalf("assignment must default to self, got %v", created.AssignedEmail)
	}
}

func TestCreateLeadScheduleInvariant(t *testing.T) {
	f := newFixture()
	actor := companyActor(scope.RoleUser)

	_, err := f.service.Create(context.Background(), actor, transport.CreateLeadRequest{
		LeadName: "Scheduled Lead",
		Phone:    "1234567890",
		Status:   repository.StatusScheduled,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("Scheduled without scheduleTime must fail, got %v", err)
	}

	when := time.Now().Add(2 * time.Hour)
	created, err := f.service.Create(context.Background(), actor, transport.CreateLeadRequest{
		LeadName:     "Scheduled Lead",
		Phone:        "1234567890",
		Status:       repository.StatusScheduled,
		ScheduleTime: &when,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ScheduleTime == nil {
		t.Fatal("scheduleTime must be stored for Scheduled leads")
	}
}

func TestUpdateLeadForcesScheduleNull(t *testing.T) {
	f := newFixture()
	actor := companyActor(scope.RoleAdmin)
	when := time.Now().Add(time.Hour)
	lead := seedLead(f, repository.StatusScheduled, &when)

	status := repository.StatusContacted
	updated, err := f.service.Update(context.Background(), actor, lead.ID, transport.UpdateLeadRequest{
		Status:       &status,
		ScheduleTime: &when, // submitted anyway, must be discarded
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ScheduleTime != nil {
		t.Fatal("non-Scheduled status must force scheduleTime to null")
	}
}

func TestAddCommentSyncsLeadStatus(t *testing.T) {
	f := newFixture()
	actor := companyActor(scope.RoleUser)
	lead := seedLead(f, repository.StatusNew, nil)

	_, err := f.service.AddComment(context.Background(), actor, lead.ID, transport.AddCommentRequest{
		CommentText: "had a long call",
		Status:      repository.StatusInConversation,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.leads.leads[lead.ID]
	if stored.Status != repository.StatusInConversation {
		t.Fatalf("lead status must follow the comment, got %s", stored.Status)
	}
	if stored.ScheduleTime != nil {
		t.Fatal("non-Scheduled status must leave scheduleTime null")
	}
}

func TestAddCommentScheduledAnnotation(t *testing.T) {
	f := newFixture()
	actor := companyActor(scope.RoleUser)
	lead := seedLead(f, repository.StatusNew, nil)
	when := time.Now().Add(3 * time.Hour)

	created, err := f.service.AddComment(context.Background(), actor, lead.ID, transport.AddCommentRequest{
		CommentText:   "callback agreed",
		Status:        repository.StatusScheduled,
		ScheduleTime:  &when,
		ScheduleLabel: "(Scheduled: 3 Mar 2026, 10:00)",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.CommentText != "callback agreed (Scheduled: 3 Mar 2026, 10:00)" {
		t.Fatalf("label must be appended to the text, got %q", created.CommentText)
	}

	stored := f.leads.leads[lead.ID]
	if stored.ScheduleTime == nil || !stored.ScheduleTime.Equal(when) {
		t.Fatal("canonical scheduleTime must come from the request field, not the label")
	}

	// Without a label, a generic marker is appended.
	generic, err := f.service.AddComment(context.Background(), actor, lead.ID, transport.AddCommentRequest{
		CommentText:  "another callback",
		Status:       repository.StatusScheduled,
		ScheduleTime: &when,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created := generic.CommentText; created != "another callback (Scheduled)" {
		t.Fatalf("generic marker expected, got %q", created)
	}
}

func TestDeleteCommentRevertsToNew(t *testing.T) {
	f := newFixture()
	actor := companyActor(scope.RoleUser)
	lead := seedLead(f, repository.StatusNew, nil)

	comment, err := f.service.AddComment(context.Background(), actor, lead.ID, transport.AddCommentRequest{
		CommentText: "moved along",
		Status:      repository.StatusInConversation,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.service.DeleteComment(context.Background(), actor, comment.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.leads.leads[lead.ID]
	if stored.Status != repository.StatusNew {
		t.Fatalf("status must revert to New with no status comments left, got %s", stored.Status)
	}
	if stored.ScheduleTime != nil {
		t.Fatal("scheduleTime must be null after revert")
	}
}

func TestDeleteCommentRevertsToPriorStatus(t *testing.T) {
	f := newFixture()
	actor := companyActor(scope.RoleUser)
	lead := seedLead(f, repository.StatusNew, nil)

	if _, err := f.service.AddComment(context.Background(), actor, lead.ID, transport.AddCommentRequest{
		CommentText: "reached out",
		Status:      repository.StatusContacted,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.service.AddComment(context.Background(), actor, lead.ID, transport.AddCommentRequest{
		CommentText: "deep dive call",
		Status:      repository.StatusInConversation,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.service.DeleteComment(context.Background(), actor, second.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.leads.leads[lead.ID]
	if stored.Status != repository.StatusContacted {
		t.Fatalf("status must revert to the latest remaining status comment, got %s", stored.Status)
	}
}

func TestDeleteCommentScheduledRevertKeepsScheduleTime(t *testing.T) {
	f := newFixture()
	actor := companyActor(scope.RoleUser)
	lead := seedLead(f, repository.StatusNew, nil)
	when := time.Now().Add(4 * time.Hour)

	_, err := f.service.AddComment(context.Background(), actor, lead.ID, transport.AddCommentRequest{
		CommentText:  "callback planned",
		Status:       repository.StatusScheduled,
		ScheduleTime: &when,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	later, err := f.service.AddComment(context.Background(), actor, lead.ID, transport.AddCommentRequest{
		CommentText: "not reachable today",
		Status:      repository.StatusContacted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.service.DeleteComment(context.Background(), actor, later.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The revert target is the Scheduled comment; the current schedule_time
	// column is kept as-is rather than guessed from comment text. The prior
	// Contacted comment already nulled it, so the lead ends up Scheduled with
	// a null schedule time and the delete must still complete cleanly.
	stored := f.leads.leads[lead.ID]
	if stored.Status != repository.StatusScheduled {
		t.Fatalf("expected revert to Scheduled, got %s", stored.Status)
	}
	if stored.ScheduleTime != nil {
		t.Fatal("the original schedule time is not recoverable and stays null")
	}
	if !f.comments.comments[later.ID].IsDeleted {
		t.Fatal("comment must be soft-deleted after a successful revert")
	}
}

func TestDeleteCommentOwnershipGuard(t *testing.T) {
	f := newFixture()
	owner := companyActor(scope.RoleUser)
	lead := seedLead(f, repository.StatusNew, nil)

	comment, err := f.service.AddComment(context.Background(), owner, lead.ID, transport.AddCommentRequest{
		CommentText: "mine",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	companyID := int64(1)
	peer := scope.Actor{ProfileID: 2, Email: "peer@c.com", Role: scope.RoleUser, CompanyID: &companyID}
	err = f.service.DeleteComment(context.Background(), peer, comment.ID)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("user deleting another user's comment must be forbidden, got %v", err)
	}
	if f.comments.comments[comment.ID].IsDeleted {
		t.Fatal("comment must stay undeleted after a refused delete")
	}

	// Admins may delete anyone's comment in their company.
	admin := companyActor(scope.RoleAdmin)
	admin.Email = "peer@c.com"
	if err := f.service.DeleteComment(context.Background(), admin, comment.ID); err != nil {
		t.Fatalf("admin delete must succeed: %v", err)
	}
}

func TestDeleteLeadOwnershipGuard(t *testing.T) {
	f := newFixture()
	lead := seedLead(f, repository.StatusNew, nil)

	companyID := int64(1)
	peer := scope.Actor{ProfileID: 2, Email: "peer@c.com", Role: scope.RoleUser, CompanyID: &companyID}
	err := f.service.Delete(context.Background(), peer, lead.ID)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("user deleting another user's lead must be forbidden, got %v", err)
	}
	if f.leads.leads[lead.ID].IsDeleted {
		t.Fatal("lead must stay undeleted after a refused delete")
	}

	owner := companyActor(scope.RoleUser)
	if err := f.service.Delete(context.Background(), owner, lead.ID); err != nil {
		t.Fatalf("owner delete must succeed: %v", err)
	}
}

func TestScheduledAlertsExcludesSuperadmin(t *testing.T) {
	f := newFixture()
	when := time.Now().Add(time.Hour)
	seedLead(f, repository.StatusScheduled, &when)

	items, err := f.service.ScheduledAlerts(context.Background(), scope.Actor{Email: "root@x.com", Role: scope.RoleSuperadmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatal("superadmins are excluded from alerts")
	}

	items, err = f.service.ScheduledAlerts(context.Background(), companyActor(scope.RoleUser))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one scheduled lead in the window, got %d", len(items))
	}
	if items[0].Phone == nil || *items[0].Phone != "1234567890" {
		t.Fatalf("alert payload must carry the lead's phone, got %v", items[0].Phone)
	}
}
