package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/orgdesk/internal/handlers/testutil"
)

type auditPage struct {
	Items []struct {
		Action         string  `json:"action"`
		OrganizationID *string `json:"organization_id"`
		UserID         *string `json:"user_id"`
		Resource       string  `json:"resource"`
	} `json:"items"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

func TestAuditRequiresManageTeam(t *testing.T) {
	env := testutil.NewEnv(t)
	org := env.CreateOrganization("Acme")
	agent := env.CreateMember(org.ID, "agent", "agent")

	w := env.Request(http.MethodGet, "/api/audit", nil, env.Token(agent.ID))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "PERMISSION_FLAG_MISSING", testutil.DecodeError(t, w).Code)
}

func TestAuditListsOwnOrganizationOnly(t *testing.T) {
	env := testutil.NewEnv(t)
	org := env.CreateOrganization("Acme")
	owner := env.CreateMember(org.ID, "owner", "owner")
	agent := env.CreateMember(org.ID, "agent", "agent")
	other := env.CreateOrganization("Other")
	otherOwner := env.CreateMember(other.ID, "other-owner", "owner")
	otherAgent := env.CreateMember(other.ID, "other-agent", "agent")

	body := map[string]any{"permissions": map[string]bool{"can_view_reports": true}}
	require.Equal(t, http.StatusOK, env.Request(http.MethodPut, "/api/permissions/"+agent.ID, body, env.Token(owner.ID)).Code)
	require.Equal(t, http.StatusOK, env.Request(http.MethodPut, "/api/permissions/"+otherAgent.ID, body, env.Token(otherOwner.ID)).Code)

	w := env.Request(http.MethodGet, "/api/audit?organization_id="+other.ID, nil, env.Token(owner.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page auditPage
	testutil.DecodeInto(t, w, &page)
	require.Equal(t, 1, page.Meta.Total)
	require.Len(t, page.Items, 1)
	require.Equal(t, "permissions.override.apply", page.Items[0].Action)
	require.Equal(t, org.ID, *page.Items[0].OrganizationID)
	require.Equal(t, owner.ID, *page.Items[0].UserID)
	require.Equal(t, agent.ID, page.Items[0].Resource)

	root := env.CreateUser("root", true)
	w = env.Request(http.MethodGet, "/api/audit?organization_id="+other.ID, nil, env.Token(root.ID))
	require.Equal(t, http.StatusOK, w.Code)
	testutil.DecodeInto(t, w, &page)
	require.Equal(t, 1, page.Meta.Total)
	require.Equal(t, other.ID, *page.Items[0].OrganizationID)

	w = env.Request(http.MethodGet, "/api/audit/export", nil, env.Token(root.ID))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuditQueryValidation(t *testing.T) {
	env := testutil.NewEnv(t)
	org := env.CreateOrganization("Acme")
	owner := env.CreateMember(org.ID, "owner", "owner")

	w := env.Request(http.MethodGet, "/api/audit?since=yesterday", nil, env.Token(owner.ID))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "VALIDATION_FAILED", testutil.DecodeError(t, w).Code)

	w = env.Request(http.MethodGet, "/api/audit?per_page=5000&page=-3", nil, env.Token(owner.ID))
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Meta struct {
			Page    int `json:"page"`
			PerPage int `json:"per_page"`
		} `json:"meta"`
	}
	testutil.DecodeInto(t, w, &page)
	require.Equal(t, 1, page.Meta.Page)
	require.Equal(t, 50, page.Meta.PerPage)
}
