// Package scope implements the authorization-scoped query layer. Given the
// acting profile and the filters a caller requested, it produces the row
// predicate every entity query must intersect with. Rules are hard-coded per
// entity family and role; this is deliberately not a general-purpose
// authorization framework.
package scope

import "strings"

// Role is the fixed three-tier role model.
type Role int

const (
	RoleUser       Role = 0
	RoleAdmin      Role = 1
	RoleSuperadmin Role = 2
)

// String returns the role's wire name.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSuperadmin:
		return "superadmin"
	default:
		return "user"
	}
}

// ParseRole maps a wire name to a Role. Unknown names resolve to RoleUser,
// the least-privileged tier.
func ParseRole(name string) Role {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "admin":
		return RoleAdmin
	case "superadmin":
		return RoleSuperadmin
	default:
		return RoleUser
	}
}

// Actor is the authenticated identity performing an operation. It is resolved
// fresh from the profiles table once per request and passed explicitly into
// every policy call; scoping never reads ambient session state.
type Actor struct {
	ProfileID int64
	Email     string
	Role      Role
	CompanyID *int64
}

// ScopeMineOrAssigned is the explicit scope override used by the
// scheduled-leads view: restrict to records the actor created or is
// assigned to, regardless of the role's default company-wide visibility.
const ScopeMineOrAssigned = "mine_or_assigned"

// Filter carries the caller-requested scope adjustments. Precedence when
// several apply: Scope override > role-based default > MineOnly/AssignedOnly
// narrowing. Status/date filters and free-text search are composed by the
// query layer afterwards and always intersect with the scope predicate.
type Filter struct {
	Scope        string
	MineOnly     bool
	AssignedOnly bool
	CompanyID    *int64 // explicit company filter, honored for superadmins only
}
