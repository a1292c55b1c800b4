package router

import (
	"github.com/kart-io/campusgpt/internal/model"
	"github.com/kart-io/campusgpt/pkg/security/authz/casbin"
)

// Resources and actions checked by the authorization middleware.
const (
	ResourceChat      = "chat"
	ResourcePosts     = "posts"
	ResourceTickets   = "tickets"
	ResourceKnowledge = "knowledge"

	ActionSend    = "send"
	ActionRead    = "read"
	ActionCreate  = "create"
	ActionResolve = "resolve"
	ActionSearch  = "search"
)

// Policies are the role permissions. Members inherit guest permissions and
// admins inherit member permissions.
func Policies() []casbin.Policy {
	guest, member := model.RoleGuest.String(), model.RoleMember.String()
	return []casbin.Policy{
		{Subject: guest, Resource: ResourceChat, Action: ActionSend},
		{Subject: guest, Resource: ResourcePosts, Action: ActionRead},
		{Subject: guest, Resource: ResourceTickets, Action: ActionRead},
		{Subject: guest, Resource: ResourceTickets, Action: ActionCreate},
		{Subject: guest, Resource: ResourceKnowledge, Action: ActionSearch},
		{Subject: member, Resource: ResourcePosts, Action: ActionCreate},
		{Subject: member, Resource: ResourceTickets, Action: ActionResolve},
	}
}

// Groupings are the role inheritance rules.
func Groupings() []casbin.Grouping {
	return []casbin.Grouping{
		{Member: model.RoleMember.String(), Role: model.RoleGuest.String()},
		{Member: model.RoleAdmin.String(), Role: model.RoleMember.String()},
	}
}
