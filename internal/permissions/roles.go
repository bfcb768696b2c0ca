package permissions

import "strings"

// Role is an organization membership classification.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
)

// Roles lists the built-in roles from most to least privileged.
func Roles() []Role {
	return []Role{RoleOwner, RoleAdmin, RoleManager, RoleAgent}
}

// ParseRole normalises a stored role. Unrecognised values resolve as agent.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleOwner:
		return RoleOwner
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	default:
		return RoleAgent
	}
}

var roleDefaults = map[Role]Vector{
	RoleOwner: all(),
	RoleAdmin: all().without(ManageBilling),
	RoleManager: of(
		ViewDashboard,
		ViewCRM,
		ManageContacts,
		ExportContacts,
		ViewConversations,
		SendMessages,
		ViewAllConversations,
		ViewSchedule,
		ManageSchedule,
		ViewTeamChat,
		ViewReports,
	),
	RoleAgent: of(
		ViewDashboard,
		ViewCRM,
		ViewConversations,
		SendMessages,
		ViewSchedule,
		ViewTeamChat,
	),
}

// Defaults returns the built-in vector for a role, falling back to agent.
func Defaults(role string) Vector {
	return roleDefaults[ParseRole(role)]
}

// DefaultsByRole returns every role's built-in vector.
func DefaultsByRole() map[Role]Vector {
	out := make(map[Role]Vector, len(roleDefaults))
	for role, v := range roleDefaults {
		out[role] = v
	}
	return out
}

// Allowed is the flag gate: superadmins pass, everyone else needs the flag.
func Allowed(v Vector, superadmin bool, key Key) bool {
	if superadmin {
		return true
	}
	return v.Allows(key)
}

func all() Vector {
	var v Vector
	for i := range v {
		v[i] = true
	}
	return v
}

func of(keys ...Key) Vector {
	var v Vector
	for _, k := range keys {
		v[k] = true
	}
	return v
}

func (v Vector) without(keys ...Key) Vector {
	for _, k := range keys {
		v[k] = false
	}
	return v
}
