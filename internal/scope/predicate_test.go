package scope

import (
	"reflect"
	"testing"
)

func TestPredicateApplyCreatorEmails(t *testing.T) {
	p := Predicate{CreatorEmails: []string{"a@x.com", "b@x.com"}}
	conds := []string{"deleted_at IS NULL"}
	args := []any{}

	pos, ok := p.Apply(&conds, &args, 1, "created_by_email_id", "assigned_to_email_id")
	if !ok {
		t.Fatal("expected query to proceed")
	}
	if pos != 2 {
		t.Fatalf("expected next placeholder 2, got %d", pos)
	}
	want := []string{"deleted_at IS NULL", "created_by_email_id = ANY($1)"}
	if !reflect.DeepEqual(conds, want) {
		t.Fatalf("conds = %v, want %v", conds, want)
	}
	if len(args) != 1 {
		t.Fatalf("args = %v, want one email-slice arg", args)
	}
}

func TestPredicateApplyMineOrAssigned(t *testing.T) {
	p := Predicate{MineOrAssigned: "me@c.com"}
	var conds []string
	var args []any

	pos, ok := p.Apply(&conds, &args, 3, "created_by_email_id", "assigned_to_email_id")
	if !ok {
		t.Fatal("expected query to proceed")
	}
	if pos != 5 {
		t.Fatalf("expected next placeholder 5, got %d", pos)
	}
	want := []string{"(created_by_email_id = $3 OR assigned_to_email_id = $4)"}
	if !reflect.DeepEqual(conds, want) {
		t.Fatalf("conds = %v, want %v", conds, want)
	}
	if !reflect.DeepEqual(args, []any{"me@c.com", "me@c.com"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestPredicateApplySingleColumns(t *testing.T) {
	var conds []string
	var args []any

	pos, ok := Predicate{CreatorEmail: "me@c.com"}.Apply(&conds, &args, 1, "created_by_email_id", "assigned_to_email_id")
	if !ok || pos != 2 || conds[0] != "created_by_email_id = $1" {
		t.Fatalf("creator predicate: conds=%v pos=%d ok=%v", conds, pos, ok)
	}

	conds, args = nil, nil
	pos, ok = Predicate{AssignedEmail: "me@c.com"}.Apply(&conds, &args, 1, "created_by_email_id", "assigned_to_email_id")
	if !ok || pos != 2 || conds[0] != "assigned_to_email_id = $1" {
		t.Fatalf("assigned predicate: conds=%v pos=%d ok=%v", conds, pos, ok)
	}
}

func TestPredicateApplyRejectAll(t *testing.T) {
	var conds []string
	var args []any

	pos, ok := Predicate{RejectAll: true}.Apply(&conds, &args, 1, "created_by_email_id", "assigned_to_email_id")
	if ok {
		t.Fatal("reject-all must short-circuit the query")
	}
	if pos != 1 || len(conds) != 0 || len(args) != 0 {
		t.Fatalf("reject-all must leave the query untouched: conds=%v args=%v pos=%d", conds, args, pos)
	}
}

func TestPredicateApplyUnrestricted(t *testing.T) {
	var conds []string
	var args []any

	pos, ok := Predicate{Unrestricted: true}.Apply(&conds, &args, 1, "created_by_email_id", "assigned_to_email_id")
	if !ok || pos != 1 || len(conds) != 0 {
		t.Fatalf("unrestricted must add no conditions: conds=%v pos=%d ok=%v", conds, pos, ok)
	}
}

func TestPredicateApplyCompany(t *testing.T) {
	id := int64(9)
	var conds []string
	var args []any

	pos, ok := Predicate{CompanyID: &id}.ApplyCompany(&conds, &args, 2, "company_id")
	if !ok || pos != 3 {
		t.Fatalf("company predicate: pos=%d ok=%v", pos, ok)
	}
	if conds[0] != "company_id = $2" || args[0] != int64(9) {
		t.Fatalf("conds=%v args=%v", conds, args)
	}

	conds, args = nil, nil
	if _, ok := (Predicate{RejectAll: true}).ApplyCompany(&conds, &args, 1, "company_id"); ok {
		t.Fatal("reject-all must short-circuit profile listings too")
	}
}
