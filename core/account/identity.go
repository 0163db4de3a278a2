package account

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

// Identity is the resolved caller context: which account is calling, with
// which role, pinned to which school. It is derived once per request from the
// verified session token and is the sole input to every downstream
// authorization decision.
type Identity struct {
	AccountID string
	Role      Role
	SchoolID  null.String
}

func IdentityOf(acct Account) Identity {
	return Identity{
		AccountID: acct.ID,
		Role:      acct.Role,
		SchoolID:  acct.SchoolID,
	}
}

// HasRole reports whether the identity's role is in the allowed set.
func (i Identity) HasRole(allowed ...Role) bool {
	for _, role := range allowed {
		if i.Role == role {
			return true
		}
	}
	return false
}

// OwnsSchool reports whether the identity may act on a resource owned by the
// given school. This is the post-lookup ownership check: callers must have
// resolved the resource (and its 404 case) first.
func (i Identity) OwnsSchool(schoolID string) bool {
	switch i.Role {
	case RoleSuperAdmin:
		return true
	case RoleSchoolAdmin, RoleStudent:
		return i.SchoolID.Valid && i.SchoolID.String == schoolID
	}
	return false
}

// Scope derives the storage-level query restriction applied to list
// operations before they reach storage.
func (i Identity) Scope() core.Scope {
	switch i.Role {
	case RoleSuperAdmin:
		return core.Scope{}
	case RoleSchoolAdmin, RoleStudent:
		return core.Scope{SchoolID: i.SchoolID}
	}
	// unknown role: restrict to an impossible school so nothing is visible
	return core.Scope{SchoolID: null.StringFrom("")}
}
