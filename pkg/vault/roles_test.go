package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teamstore/keeper/pkg/model"
)

func TestRoleRankOrdering(t *testing.T) {
	assert.Greater(t, RoleRank(RoleOwner), RoleRank(RoleEdit))
	assert.Greater(t, RoleRank(RoleEdit), RoleRank(RoleRead))
	assert.Greater(t, RoleRank(RoleRead), RoleRank("Auditor"))
	assert.Equal(t, 0, RoleRank(""))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleOwner))
	assert.True(t, ValidRole(RoleEdit))
	assert.True(t, ValidRole(RoleRead))
	assert.False(t, ValidRole("owner"))
	assert.False(t, ValidRole(""))
}

func TestMostPermissiveRole(t *testing.T) {
	grants := []model.AccessGrant{
		{IdentityID: 1, Role: RoleRead},
		{IdentityID: 1, Role: RoleOwner},
		{IdentityID: 2, Role: RoleEdit},
		{IdentityID: 3, Role: "Legacy"},
	}

	assert.Equal(t, RoleOwner, MostPermissiveRole(grants, 1))
	assert.Equal(t, RoleEdit, MostPermissiveRole(grants, 2))
	assert.Equal(t, "Legacy", MostPermissiveRole(grants, 3))
	assert.Equal(t, "", MostPermissiveRole(grants, 4))
	assert.Equal(t, "", MostPermissiveRole(nil, 1))
}
