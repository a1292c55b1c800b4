// Package identity derives a campus user from a login email.
package identity

import (
	"context"
	"strings"

	"github.com/kart-io/campusgpt/internal/model"
	identityopts "github.com/kart-io/campusgpt/pkg/options/identity"
	"github.com/kart-io/campusgpt/pkg/utils/errors"
)

// Verifier resolves the user behind a login email.
type Verifier interface {
	Verify(ctx context.Context, email string) (*model.User, error)
}

// DomainVerifier assigns roles from the email address alone:
// member domains grant member, an admin local-part prefix grants admin,
// anyone else is a guest.
type DomainVerifier struct {
	memberDomains []string
	adminPrefix   string
}

var _ Verifier = (*DomainVerifier)(nil)

// NewDomainVerifier creates a DomainVerifier from options.
func NewDomainVerifier(opts *identityopts.Options) *DomainVerifier {
	if opts == nil {
		opts = identityopts.NewOptions()
	}
	domains := make([]string, 0, len(opts.MemberDomains))
	for _, d := range opts.MemberDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			domains = append(domains, d)
		}
	}
	return &DomainVerifier{
		memberDomains: domains,
		adminPrefix:   strings.ToLower(opts.AdminPrefix),
	}
}

// Verify implements Verifier.
func (v *DomainVerifier) Verify(_ context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 {
		return nil, errors.ErrCampusInvalidEmail
	}

	local := email[:at]
	domain := strings.ToLower(email[at+1:])

	role := model.RoleGuest
	if v.isMemberDomain(domain) {
		role = model.RoleMember
	}
	// 管理员前缀优先于域名判定
	if v.adminPrefix != "" && strings.HasPrefix(strings.ToLower(local), v.adminPrefix) {
		role = model.RoleAdmin
	}

	return &model.User{Email: email, Name: local, Role: role}, nil
}

func (v *DomainVerifier) isMemberDomain(domain string) bool {
	for _, d := range v.memberDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}
