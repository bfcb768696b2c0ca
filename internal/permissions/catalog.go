package permissions

import (
	"fmt"
	"strings"
)

// Key identifies one gated capability. Keys are only ever appended: the stored
// name backs a database column and must never change.
type Key int

const (
	ViewDashboard Key = iota
	ViewCRM
	ManageContacts
	ExportContacts
	ViewConversations
	SendMessages
	ViewAllConversations
	ViewSchedule
	ManageSchedule
	ViewTeamChat
	ViewReports
	ViewBilling
	ManageBilling
	ManageIntegrations
	ManageTeam
	ViewSettings

	// NumKeys is the size of the catalog.
	NumKeys
)

// Group partitions the catalog for display.
type Group string

const (
	GroupGeneral    Group = "general"
	GroupCRM        Group = "crm"
	GroupMessaging  Group = "messaging"
	GroupScheduling Group = "scheduling"
	GroupTeamChat   Group = "team_chat"
	GroupBilling    Group = "billing"
	GroupAdmin      Group = "administration"
)

// Definition describes a catalog entry.
type Definition struct {
	Key   Key    `json:"-"`
	Name  string `json:"key"`
	Group Group  `json:"group"`
	Label string `json:"label"`
}

// GroupDefinition lists the keys shown under one display group.
type GroupDefinition struct {
	ID    Group        `json:"id"`
	Label string       `json:"label"`
	Keys  []Definition `json:"permissions"`
}

var catalog = [NumKeys]Definition{
	ViewDashboard:        {Name: "can_view_dashboard", Group: GroupGeneral, Label: "Ver painel"},
	ViewCRM:              {Name: "can_view_crm", Group: GroupCRM, Label: "Ver CRM"},
	ManageContacts:       {Name: "can_manage_contacts", Group: GroupCRM, Label: "Gerenciar contatos"},
	ExportContacts:       {Name: "can_export_contacts", Group: GroupCRM, Label: "Exportar contatos"},
	ViewConversations:    {Name: "can_view_conversations", Group: GroupMessaging, Label: "Ver conversas"},
	SendMessages:         {Name: "can_send_messages", Group: GroupMessaging, Label: "Enviar mensagens"},
	ViewAllConversations: {Name: "can_view_all_conversations", Group: GroupMessaging, Label: "Ver conversas de toda a equipe"},
	ViewSchedule:         {Name: "can_view_schedule", Group: GroupScheduling, Label: "Ver agenda"},
	ManageSchedule:       {Name: "can_manage_schedule", Group: GroupScheduling, Label: "Gerenciar agenda"},
	ViewTeamChat:         {Name: "can_view_team_chat", Group: GroupTeamChat, Label: "Ver chat interno"},
	ViewReports:          {Name: "can_view_reports", Group: GroupAdmin, Label: "Ver relatórios"},
	ViewBilling:          {Name: "can_view_billing", Group: GroupBilling, Label: "Ver faturamento"},
	ManageBilling:        {Name: "can_manage_billing", Group: GroupBilling, Label: "Gerenciar faturamento"},
	ManageIntegrations:   {Name: "can_manage_integrations", Group: GroupAdmin, Label: "Gerenciar integrações"},
	ManageTeam:           {Name: "can_manage_team", Group: GroupAdmin, Label: "Gerenciar equipe"},
	ViewSettings:         {Name: "can_view_settings", Group: GroupAdmin, Label: "Ver configurações"},
}

var groupOrder = []struct {
	id    Group
	label string
}{
	{GroupGeneral, "Geral"},
	{GroupCRM, "CRM"},
	{GroupMessaging, "Mensagens"},
	{GroupScheduling, "Agenda"},
	{GroupTeamChat, "Chat interno"},
	{GroupBilling, "Faturamento"},
	{GroupAdmin, "Administração"},
}

var byName map[string]Key

func init() {
	byName = make(map[string]Key, NumKeys)
	for i := range catalog {
		def := &catalog[i]
		def.Key = Key(i)
		if def.Name == "" {
			panic(fmt.Sprintf("permissions: key %d has no catalog entry", i))
		}
		if _, dup := byName[def.Name]; dup {
			panic(fmt.Sprintf("permissions: duplicate key name %q", def.Name))
		}
		byName[def.Name] = def.Key
	}
}

// String returns the stable storage name of the key.
func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return catalog[k].Name
}

// Valid reports whether k is part of the catalog.
func (k Key) Valid() bool {
	return k >= 0 && k < NumKeys
}

// Definition returns the catalog entry for k.
func (k Key) Definition() Definition {
	if !k.Valid() {
		return Definition{Key: k}
	}
	return catalog[k]
}

// Lookup resolves a stored key name.
func Lookup(name string) (Key, bool) {
	k, ok := byName[strings.TrimSpace(name)]
	return k, ok
}

// Keys returns every catalog key in declaration order.
func Keys() []Key {
	out := make([]Key, NumKeys)
	for i := range out {
		out[i] = Key(i)
	}
	return out
}

// Definitions returns a copy of the catalog.
func Definitions() []Definition {
	out := make([]Definition, NumKeys)
	copy(out, catalog[:])
	return out
}

// Groups returns the catalog partitioned by display group, in display order.
func Groups() []GroupDefinition {
	out := make([]GroupDefinition, 0, len(groupOrder))
	for _, g := range groupOrder {
		group := GroupDefinition{ID: g.id, Label: g.label}
		for _, def := range catalog {
			if def.Group == g.id {
				group.Keys = append(group.Keys, def)
			}
		}
		out = append(out, group)
	}
	return out
}
