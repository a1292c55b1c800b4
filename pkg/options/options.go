// Package options holds what every option group shares.
package options

import (
	"strings"

	"github.com/spf13/pflag"
)

// Group is one section of the service configuration. It registers its own
// flags and reports every invalid value at once.
type Group interface {
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
	Validate() []error
}

// Join builds the flag name prefix for a nested group, so Join("chat", "llm")
// is "chat.llm.". Empty segments are skipped and no segments yield "".
func Join(prefixes ...string) string {
	var b strings.Builder
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteByte('.')
	}
	return b.String()
}
