// Package identity provides login identity options.
package identity

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kart-io/campusgpt/pkg/options"
)

var _ options.Group = (*Options)(nil)

// Options 登录身份判定配置。
type Options struct {
	// MemberDomains 视为机构成员的邮箱域名。
	MemberDomains []string `json:"member-domains" mapstructure:"member-domains"`
	// AdminPrefix 邮箱本地部分以此开头即为管理员。
	AdminPrefix string `json:"admin-prefix" mapstructure:"admin-prefix"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		MemberDomains: []string{"nits.ac.in", "institute.edu"},
		AdminPrefix:   "admin",
	}
}

// AddFlags adds flags for identity options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "identity."
	fs.StringSliceVar(&o.MemberDomains, p+"member-domains", o.MemberDomains, "Email domains whose users are members.")
	fs.StringVar(&o.AdminPrefix, p+"admin-prefix", o.AdminPrefix, "Email local-part prefix that grants admin.")
}

// Validate validates the identity options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	for _, d := range o.MemberDomains {
		if strings.Contains(d, "@") {
			errs = append(errs, fmt.Errorf("identity.member-domains entry %q must not contain '@'", d))
		}
	}
	return errs
}

// Complete lowercases the configured domains.
func (o *Options) Complete() error {
	for i, d := range o.MemberDomains {
		o.MemberDomains[i] = strings.ToLower(strings.TrimSpace(d))
	}
	o.AdminPrefix = strings.ToLower(o.AdminPrefix)
	return nil
}
