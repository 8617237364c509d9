package vault

import "github.com/teamstore/keeper/pkg/model"

// Role names carried on access grants. Grants created through the API only
// ever hold one of these, but rows imported from older stores may carry
// arbitrary strings; unknown roles rank below Read.
const (
	RoleOwner = "Owner"
	RoleEdit  = "Edit"
	RoleRead  = "Read"
)

var roleRanks = map[string]int{
	RoleOwner: 3,
	RoleEdit:  2,
	RoleRead:  1,
}

// RoleRank returns the permissiveness rank of a role name. Higher is more
// permissive; unknown roles rank 0.
func RoleRank(role string) int {
	return roleRanks[role]
}

// ValidRole reports whether role is one of the grantable role names.
func ValidRole(role string) bool {
	return roleRanks[role] > 0
}

// MostPermissiveRole returns the highest-ranked role held by identityID
// across grants. An identity may hold several grants on one project, for
// example one direct and one via group import; the most permissive wins.
// Returns "" when the identity holds no grant.
func MostPermissiveRole(grants []model.AccessGrant, identityID uint) string {
	best := ""
	for _, g := range grants {
		if g.IdentityID != identityID {
			continue
		}
		if best == "" || RoleRank(g.Role) > RoleRank(best) {
			best = g.Role
		}
	}
	return best
}
