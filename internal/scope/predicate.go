package scope

import (
	"fmt"
	"strings"
)

// Predicate is the resolved row restriction for one query. Exactly one of the
// shape fields is set, except Unrestricted/RejectAll which override the rest.
//
// RejectAll is a real outcome, not an error: an admin whose company has no
// member profiles must see zero rows, never fall through to an unscoped query.
type Predicate struct {
	Unrestricted bool
	RejectAll    bool

	// CreatorEmails restricts rows to those created by any of the listed
	// member emails (admin company-wide default).
	CreatorEmails []string

	// MineOrAssigned restricts rows to those the given email created or is
	// assigned to.
	MineOrAssigned string

	// CreatorEmail restricts rows to those created by the given email.
	CreatorEmail string

	// AssignedEmail restricts rows to those assigned to the given email.
	AssignedEmail string

	// CompanyID restricts rows by company column (profile listings).
	CompanyID *int64
}

// Apply appends the predicate's SQL conditions to conds/args using
// pgx-numbered placeholders, starting at argPos. creatorCol and assignedCol
// name the denormalized email columns of the target table. It returns the
// next placeholder position and false when the query must short-circuit to
// an empty result.
func (p Predicate) Apply(conds *[]string, args *[]any, argPos int, creatorCol, assignedCol string) (int, bool) {
	if p.RejectAll {
		return argPos, false
	}
	if p.Unrestricted {
		return argPos, true
	}
	switch {
	case len(p.CreatorEmails) > 0:
		*conds = append(*conds, fmt.Sprintf("%s = ANY($%d)", creatorCol, argPos))
		*args = append(*args, p.CreatorEmails)
		argPos++
	case p.MineOrAssigned != "":
		*conds = append(*conds, fmt.Sprintf("(%s = $%d OR %s = $%d)", creatorCol, argPos, assignedCol, argPos+1))
		*args = append(*args, p.MineOrAssigned, p.MineOrAssigned)
		argPos += 2
	case p.CreatorEmail != "":
		*conds = append(*conds, fmt.Sprintf("%s = $%d", creatorCol, argPos))
		*args = append(*args, p.CreatorEmail)
		argPos++
	case p.AssignedEmail != "":
		*conds = append(*conds, fmt.Sprintf("%s = $%d", assignedCol, argPos))
		*args = append(*args, p.AssignedEmail)
		argPos++
	}
	return argPos, true
}

// ApplyCompany appends the company-column condition for profile listings.
// Same contract as Apply.
func (p Predicate) ApplyCompany(conds *[]string, args *[]any, argPos int, companyCol string) (int, bool) {
	if p.RejectAll {
		return argPos, false
	}
	if p.Unrestricted {
		return argPos, true
	}
	if p.CompanyID != nil {
		*conds = append(*conds, fmt.Sprintf("%s = $%d", companyCol, argPos))
		*args = append(*args, *p.CompanyID)
		argPos++
	}
	return argPos, true
}

// String renders a compact description for debug logging.
func (p Predicate) String() string {
	switch {
	case p.RejectAll:
		return "reject_all"
	case p.Unrestricted:
		return "unrestricted"
	case len(p.CreatorEmails) > 0:
		return fmt.Sprintf("creators[%s]", strings.Join(p.CreatorEmails, ","))
	case p.MineOrAssigned != "":
		return "mine_or_assigned:" + p.MineOrAssigned
	case p.CreatorEmail != "":
		return "creator:" + p.CreatorEmail
	case p.AssignedEmail != "":
		return "assigned:" + p.AssignedEmail
	case p.CompanyID != nil:
		return fmt.Sprintf("company:%d", *p.CompanyID)
	}
	return "none"
}
