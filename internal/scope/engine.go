package scope

import (
	"context"
	"fmt"

	"leadhub_backend/platform/apperr"
)

// MemberEmailResolver resolves the email addresses of all profiles belonging
// to a company. The identity repository satisfies this; the engine resolves
// the set once per policy call and the query layer reuses the predicate.
type MemberEmailResolver interface {
	MemberEmails(ctx context.Context, companyID int64) ([]string, error)
}

// Engine derives scope predicates from an actor and the requested filters.
type Engine struct {
	members MemberEmailResolver
}

func NewEngine(members MemberEmailResolver) *Engine {
	return &Engine{members: members}
}

// ForRecords produces the predicate for ownership-scoped collections: leads,
// comments, and purchase orders. Precedence: explicit scope override, then
// the role-based default, then MineOnly/AssignedOnly narrowing.
func (e *Engine) ForRecords(ctx context.Context, actor Actor, f Filter) (Predicate, error) {
	const op = "scope.Engine.ForRecords"

	// The override beats role defaults for the non-privileged tiers.
	// Superadmins keep unrestricted visibility regardless.
	if f.Scope == ScopeMineOrAssigned && actor.Role != RoleSuperadmin {
		return Predicate{MineOrAssigned: actor.Email}, nil
	}

	switch actor.Role {
	case RoleSuperadmin:
		if f.CompanyID != nil {
			return e.companyPredicate(ctx, op, *f.CompanyID)
		}
		return Predicate{Unrestricted: true}, nil

	case RoleAdmin:
		if actor.CompanyID == nil {
			return Predicate{RejectAll: true}, nil
		}
		return e.companyPredicate(ctx, op, *actor.CompanyID)

	default: // RoleUser
		if f.MineOnly {
			return Predicate{CreatorEmail: actor.Email}, nil
		}
		if f.AssignedOnly {
			return Predicate{AssignedEmail: actor.Email}, nil
		}
		if actor.CompanyID == nil {
			return Predicate{RejectAll: true}, nil
		}
		return e.companyPredicate(ctx, op, *actor.CompanyID)
	}
}

// ForProfiles produces the predicate for user listings. Ordinary users cannot
// list other users at all.
func (e *Engine) ForProfiles(_ context.Context, actor Actor, f Filter) (Predicate, error) {
	switch actor.Role {
	case RoleSuperadmin:
		if f.CompanyID != nil {
			id := *f.CompanyID
			return Predicate{CompanyID: &id}, nil
		}
		return Predicate{Unrestricted: true}, nil

	case RoleAdmin:
		if actor.CompanyID == nil {
			return Predicate{RejectAll: true}, nil
		}
		id := *actor.CompanyID
		return Predicate{CompanyID: &id}, nil

	default:
		return Predicate{RejectAll: true}, nil
	}
}

// companyPredicate resolves a company's member emails into a creator-email
// predicate. A company with zero members yields RejectAll, never an
// unrestricted fall-through.
func (e *Engine) companyPredicate(ctx context.Context, op string, companyID int64) (Predicate, error) {
	emails, err := e.members.MemberEmails(ctx, companyID)
	if err != nil {
		return Predicate{}, apperr.Wrap(apperr.KindInternal, fmt.Sprintf("resolve company %d member emails", companyID), err).WithOp(op)
	}
	if len(emails) == 0 {
		return Predicate{RejectAll: true}, nil
	}
	return Predicate{CreatorEmails: emails}, nil
}
