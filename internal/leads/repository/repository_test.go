package repository

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"leadhub_backend/internal/scope"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestBuildLeadListWhereCompanyScope(t *testing.T) {
	where, args, nextArg, ok := buildLeadListWhere(ListParams{
		Predicate: scope.Predicate{CreatorEmails: []string{"a@c.com", "b@c.com"}},
	})
	if !ok {
		t.Fatal("expected query to proceed")
	}
	if !strings.Contains(where, "is_deleted = FALSE") {
		t.Fatalf("soft-deleted rows must be excluded: %s", where)
	}
	if !strings.Contains(where, "created_by_email_id = ANY($1)") {
		t.Fatalf("expected company email predicate: %s", where)
	}
	if nextArg != 2 || len(args) != 1 {
		t.Fatalf("nextArg=%d args=%v", nextArg, args)
	}
}

func TestBuildLeadListWhereRejectAll(t *testing.T) {
	_, _, _, ok := buildLeadListWhere(ListParams{Predicate: scope.Predicate{RejectAll: true}})
	if ok {
		t.Fatal("reject-all predicate must short-circuit the listing")
	}
}

func TestBuildLeadListWhereStatusAndShortcut(t *testing.T) {
	where, args, _, ok := buildLeadListWhere(ListParams{
		Predicate: scope.Predicate{Unrestricted: true},
		Status:    StatusScheduled,
		Shortcut:  FilterToday,
	})
	if !ok {
		t.Fatal("expected query to proceed")
	}
	if !strings.Contains(where, "status = $1") {
		t.Fatalf("expected status condition: %s", where)
	}
	if !strings.Contains(where, "schedule_time >= CURRENT_DATE") {
		t.Fatalf("expected today shortcut bounds: %s", where)
	}
	if !reflect.DeepEqual(args, []any{StatusScheduled}) {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildLeadListWhereShortcuts(t *testing.T) {
	cases := map[string]string{
		FilterNewToday: "created_time >= CURRENT_DATE",
		FilterOverdue:  "schedule_time < NOW()",
		FilterUpcoming: "schedule_time > NOW()",
	}
	for shortcut, fragment := range cases {
		where, _, _, ok := buildLeadListWhere(ListParams{
			Predicate: scope.Predicate{Unrestricted: true},
			Shortcut:  shortcut,
		})
		if !ok {
			t.Fatalf("%s: expected query to proceed", shortcut)
		}
		if !strings.Contains(where, fragment) {
			t.Errorf("%s: expected %q in %q", shortcut, fragment, where)
		}
	}
}

func TestBuildLeadListWhereNumericSearch(t *testing.T) {
	where, args, _, ok := buildLeadListWhere(ListParams{
		Predicate: scope.Predicate{MineOrAssigned: "me@c.com"},
		Query:     "1234567890",
	})
	if !ok {
		t.Fatal("expected query to proceed")
	}
	// A numeric term matches the id and still searches the text columns, so
	// a full phone number keeps hitting the phone column.
	if !strings.Contains(where, "id = $3") {
		t.Fatalf("numeric search must include id equality: %s", where)
	}
	if !strings.Contains(where, "phone ILIKE $6") {
		t.Fatalf("numeric search must still match the phone column: %s", where)
	}
	want := []any{"me@c.com", "me@c.com", int64(1234567890), "%1234567890%", "%1234567890%", "%1234567890%", "%1234567890%"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildLeadListWhereTextSearch(t *testing.T) {
	where, args, _, ok := buildLeadListWhere(ListParams{
		Predicate: scope.Predicate{CreatorEmail: "me@c.com"},
		Query:     "acme",
	})
	if !ok {
		t.Fatal("expected query to proceed")
	}
	if !strings.Contains(where, "lead_name ILIKE $2") || !strings.Contains(where, "status ILIKE $5") {
		t.Fatalf("expected case-insensitive search over name/email/phone/status: %s", where)
	}
	// search is ANDed with the scope predicate, never replacing it
	if !strings.Contains(where, "created_by_email_id = $1") {
		t.Fatalf("scope predicate missing from search query: %s", where)
	}
	if len(args) != 5 || args[1] != "%acme%" {
		t.Fatalf("args = %v", args)
	}
}

func TestRemapUniqueViolation(t *testing.T) {
	phoneErr := &pgconn.PgError{Code: "23505", ConstraintName: "leads_phone_key"}
	if got := remapUniqueViolation(phoneErr); got == nil || !strings.Contains(got.Message, "phone") {
		t.Fatalf("phone constraint must map to a phone-specific conflict, got %v", got)
	}

	emailErr := &pgconn.PgError{Code: "23505", ConstraintName: "leads_email_key"}
	if got := remapUniqueViolation(emailErr); got == nil || !strings.Contains(got.Message, "email") {
		t.Fatalf("email constraint must map to an email-specific conflict, got %v", got)
	}

	otherErr := &pgconn.PgError{Code: "23503", ConstraintName: "leads_company_fk"}
	if got := remapUniqueViolation(otherErr); got != nil {
		t.Fatalf("non-unique violations must pass through, got %v", got)
	}

	if got := remapUniqueViolation(errors.New("plain failure")); got != nil {
		t.Fatalf("plain errors must pass through, got %v", got)
	}
}
