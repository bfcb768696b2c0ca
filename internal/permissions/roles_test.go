package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoleFallsBackToAgent(t *testing.T) {
	require.Equal(t, RoleOwner, ParseRole(" Owner "))
	require.Equal(t, RoleManager, ParseRole("manager"))
	require.Equal(t, RoleAgent, ParseRole("intern"))
	require.Equal(t, RoleAgent, ParseRole(""))
}

func TestRoleDefaults(t *testing.T) {
	owner := Defaults("owner")
	for _, key := range Keys() {
		require.True(t, owner.Allows(key), "owner should have %s", key)
	}

	admin := Defaults("admin")
	require.False(t, admin.Allows(ManageBilling))
	require.True(t, admin.Allows(ManageTeam))

	manager := Defaults("manager")
	require.False(t, manager.Allows(ViewBilling))
	require.False(t, manager.Allows(ManageTeam))
	require.True(t, manager.Allows(ViewReports))

	agent := Defaults("agent")
	require.True(t, agent.Allows(SendMessages))
	require.False(t, agent.Allows(ExportContacts))

	require.Equal(t, agent, Defaults("unknown-role"))
	require.Len(t, DefaultsByRole(), len(Roles()))
}

func TestAllowed(t *testing.T) {
	var none Vector
	require.True(t, Allowed(none, true, ManageBilling))
	require.False(t, Allowed(none, false, ManageBilling))
	require.True(t, Allowed(Defaults("owner"), false, ManageBilling))
	require.False(t, Allowed(Defaults("owner"), false, Key(42)))
}

func TestMatchReturnsFirstEqual(t *testing.T) {
	type tmpl struct {
		name string
		v    Vector
	}
	agent := Defaults("agent")
	candidates := []tmpl{
		{"manager", Defaults("manager")},
		{"first", agent},
		{"second", agent},
	}

	got, ok := Match(agent, candidates, func(c tmpl) Vector { return c.v })
	require.True(t, ok)
	require.Equal(t, "first", got.name)

	_, ok = Match(Vector{}, candidates, func(c tmpl) Vector { return c.v })
	require.False(t, ok)
}
