// Package casbin backs authz.Authorizer with a casbin RBAC enforcer whose
// policies live in memory or in the casbin_rule table.
package casbin

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/kart-io/logger"
	"gorm.io/gorm"

	"github.com/kart-io/campusgpt/pkg/security/authz"
)

// RBACModel matches the request subject, directly or through g role
// inheritance, against exact object and action pairs.
const RBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Policy allows Subject to perform Action on Resource.
type Policy struct {
	Subject  string
	Resource string
	Action   string
}

// Grouping 表示 Member 继承 Role 的全部权限。
type Grouping struct {
	Member string
	Role   string
}

type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

var (
	_ authz.Authorizer = (*Authorizer)(nil)
	_ persist.Adapter  = (*gormadapter.Adapter)(nil)
)

// NewEnforcer builds an RBACModel enforcer. With a nil adapter the policies
// are kept in memory.
func NewEnforcer(adapter persist.Adapter) (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(RBACModel)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}
	params := []any{m}
	if adapter != nil {
		params = append(params, adapter)
	}
	e, err := casbin.NewSyncedEnforcer(params...)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	return e, nil
}

// NewGormEnforcer stores policies in db, creating casbin_rule if needed,
// and loads what is already there.
func NewGormEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("create casbin gorm adapter: %w", err)
	}
	e, err := NewEnforcer(adapter)
	if err != nil {
		return nil, err
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load casbin policies: %w", err)
	}
	return e, nil
}

// New seeds e with groupings and policies and wraps it. Existing rules are
// skipped, so seeding a persisted enforcer on every start is harmless.
func New(e *casbin.SyncedEnforcer, policies []Policy, groupings []Grouping) (*Authorizer, error) {
	var added int
	add := func(ok bool, err error) error {
		if ok {
			added++
		}
		return err
	}

	for _, g := range groupings {
		if err := add(e.AddGroupingPolicy(g.Member, g.Role)); err != nil {
			return nil, fmt.Errorf("add grouping %s -> %s: %w", g.Member, g.Role, err)
		}
	}
	for _, p := range policies {
		if err := add(e.AddPolicy(p.Subject, p.Resource, p.Action)); err != nil {
			return nil, fmt.Errorf("add policy %s %s %s: %w", p.Subject, p.Resource, p.Action, err)
		}
	}
	if added > 0 {
		logger.Infow("casbin policies seeded", "added", added)
	}
	return &Authorizer{enforcer: e}, nil
}

func (a *Authorizer) Authorize(_ context.Context, subject, resource, action string) (bool, error) {
	return a.enforcer.Enforce(subject, resource, action)
}
