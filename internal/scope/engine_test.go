package scope

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeMembers struct {
	emails map[int64][]string
	err    error
	calls  int
}

func (f *fakeMembers) MemberEmails(_ context.Context, companyID int64) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.emails[companyID], nil
}

func ptr(v int64) *int64 { return &v }

func TestForRecordsSuperadmin(t *testing.T) {
	members := &fakeMembers{emails: map[int64][]string{7: {"a@x.com", "b@x.com"}}}
	eng := NewEngine(members)
	actor := Actor{ProfileID: 1, Email: "root@x.com", Role: RoleSuperadmin}

	p, err := eng.ForRecords(context.Background(), actor, Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Unrestricted {
		t.Fatalf("expected unrestricted predicate, got %s", p)
	}

	p, err = eng.ForRecords(context.Background(), actor, Filter{CompanyID: ptr(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"a@x.com", "b@x.com"}; !reflect.DeepEqual(p.CreatorEmails, want) {
		t.Fatalf("expected creator emails %v, got %s", want, p)
	}
}

func TestForRecordsSuperadminEmptyCompanyRejectsAll(t *testing.T) {
	eng := NewEngine(&fakeMembers{emails: map[int64][]string{}})
	actor := Actor{Email: "root@x.com", Role: RoleSuperadmin}

	p, err := eng.ForRecords(context.Background(), actor, Filter{CompanyID: ptr(99)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.RejectAll {
		t.Fatalf("empty company must reject all rows, got %s", p)
	}
}

func TestForRecordsAdminCompanyWide(t *testing.T) {
	members := &fakeMembers{emails: map[int64][]string{3: {"admin@c.com", "rep@c.com"}}}
	eng := NewEngine(members)
	actor := Actor{Email: "admin@c.com", Role: RoleAdmin, CompanyID: ptr(3)}

	p, err := eng.ForRecords(context.Background(), actor, Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"admin@c.com", "rep@c.com"}; !reflect.DeepEqual(p.CreatorEmails, want) {
		t.Fatalf("expected company member emails %v, got %s", want, p)
	}
	if members.calls != 1 {
		t.Fatalf("expected one member lookup, got %d", members.calls)
	}
}

func TestForRecordsScopeOverride(t *testing.T) {
	eng := NewEngine(&fakeMembers{emails: map[int64][]string{3: {"admin@c.com"}}})

	for _, role := range []Role{RoleAdmin, RoleUser} {
		actor := Actor{Email: "me@c.com", Role: role, CompanyID: ptr(3)}
		p, err := eng.ForRecords(context.Background(), actor, Filter{Scope: ScopeMineOrAssigned, MineOnly: true})
		if err != nil {
			t.Fatalf("role %s: unexpected error: %v", role, err)
		}
		if p.MineOrAssigned != "me@c.com" {
			t.Fatalf("role %s: scope override must beat other filters, got %s", role, p)
		}
	}

	// Superadmins keep full visibility even when the view passes the override.
	p, err := eng.ForRecords(context.Background(), Actor{Email: "root@x.com", Role: RoleSuperadmin}, Filter{Scope: ScopeMineOrAssigned})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Unrestricted {
		t.Fatalf("superadmin must stay unrestricted, got %s", p)
	}
}

func TestForRecordsUserNarrowing(t *testing.T) {
	eng := NewEngine(&fakeMembers{emails: map[int64][]string{3: {"me@c.com", "peer@c.com"}}})
	actor := Actor{Email: "me@c.com", Role: RoleUser, CompanyID: ptr(3)}

	p, err := eng.ForRecords(context.Background(), actor, Filter{MineOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.CreatorEmail != "me@c.com" {
		t.Fatalf("mineOnly must narrow to creator, got %s", p)
	}

	p, err = eng.ForRecords(context.Background(), actor, Filter{AssignedOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.AssignedEmail != "me@c.com" {
		t.Fatalf("assignedOnly must narrow to assignee, got %s", p)
	}

	// Default is company-wide visibility, same as admins.
	p, err = eng.ForRecords(context.Background(), actor, Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"me@c.com", "peer@c.com"}; !reflect.DeepEqual(p.CreatorEmails, want) {
		t.Fatalf("expected company-wide default %v, got %s", want, p)
	}
}

func TestForRecordsEmptyCompanyShortCircuits(t *testing.T) {
	eng := NewEngine(&fakeMembers{emails: map[int64][]string{}})

	for _, role := range []Role{RoleAdmin, RoleUser} {
		actor := Actor{Email: "ghost@c.com", Role: role, CompanyID: ptr(42)}
		p, err := eng.ForRecords(context.Background(), actor, Filter{})
		if err != nil {
			t.Fatalf("role %s: unexpected error: %v", role, err)
		}
		if !p.RejectAll {
			t.Fatalf("role %s: empty company must reject all rows, got %s", role, p)
		}
	}
}

func TestForRecordsMissingCompanyRejectsAll(t *testing.T) {
	eng := NewEngine(&fakeMembers{})
	p, err := eng.ForRecords(context.Background(), Actor{Email: "a@c.com", Role: RoleAdmin}, Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.RejectAll {
		t.Fatalf("admin without a company must reject all rows, got %s", p)
	}
}

func TestForRecordsResolverError(t *testing.T) {
	eng := NewEngine(&fakeMembers{err: errors.New("db down")})
	_, err := eng.ForRecords(context.Background(), Actor{Email: "a@c.com", Role: RoleAdmin, CompanyID: ptr(1)}, Filter{})
	if err == nil {
		t.Fatal("expected error when member resolution fails")
	}
}

func TestForProfiles(t *testing.T) {
	eng := NewEngine(&fakeMembers{})
	ctx := context.Background()

	p, err := eng.ForProfiles(ctx, Actor{Role: RoleSuperadmin}, Filter{})
	if err != nil || !p.Unrestricted {
		t.Fatalf("superadmin: expected unrestricted, got %s err=%v", p, err)
	}

	p, err = eng.ForProfiles(ctx, Actor{Role: RoleSuperadmin}, Filter{CompanyID: ptr(5)})
	if err != nil || p.CompanyID == nil || *p.CompanyID != 5 {
		t.Fatalf("superadmin with company filter: got %s err=%v", p, err)
	}

	p, err = eng.ForProfiles(ctx, Actor{Role: RoleAdmin, CompanyID: ptr(3)}, Filter{})
	if err != nil || p.CompanyID == nil || *p.CompanyID != 3 {
		t.Fatalf("admin: expected own-company predicate, got %s err=%v", p, err)
	}

	p, err = eng.ForProfiles(ctx, Actor{Role: RoleUser, CompanyID: ptr(3)}, Filter{})
	if err != nil || !p.RejectAll {
		t.Fatalf("user must not list profiles, got %s err=%v", p, err)
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":      RoleAdmin,
		"Superadmin": RoleSuperadmin,
		"user":       RoleUser,
		"":           RoleUser,
		"unknown":    RoleUser,
	}
	for in, want := range cases {
		if got := ParseRole(in); got != want {
			t.Errorf("ParseRole(%q) = %v, want %v", in, got, want)
		}
	}
}
