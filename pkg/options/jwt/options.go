// Package jwt configures token signing.
//
//	jwt:
//	  key: "at-least-32-characters-of-secret"
//	  signing-method: HS256
//	  expired: 24h
//	  issuer: campusgpt
package jwt

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/campusgpt/pkg/options"
)

var _ options.Group = (*Options)(nil)

// KeyEnv is consulted by Complete when no key is configured.
const KeyEnv = "JWT_KEY"

const minKeyLen = 32

var methods = []string{"HS256", "HS384", "HS512"}

// Options holds the HMAC signing settings. An empty Key makes Complete
// generate a random one, and tokens then die with the process.
type Options struct {
	Key           string        `json:"-" mapstructure:"key"`
	SigningMethod string        `json:"signing-method" mapstructure:"signing-method"`
	Expired       time.Duration `json:"expired" mapstructure:"expired"`
	Issuer        string        `json:"issuer" mapstructure:"issuer"`

	generated bool
}

func NewOptions() *Options {
	o := &Options{}
	o.fill()
	return o
}

func (o *Options) fill() {
	if o.SigningMethod == "" {
		o.SigningMethod = "HS256"
	}
	if o.Expired == 0 {
		o.Expired = 24 * time.Hour
	}
	if o.Issuer == "" {
		o.Issuer = "campusgpt"
	}
}

func (o *Options) Complete() error {
	o.fill()
	if o.Key == "" {
		o.Key = os.Getenv(KeyEnv)
	}
	if o.Key != "" {
		return nil
	}

	// 未配置密钥时随机生成
	buf := make([]byte, minKeyLen)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generate jwt key: %w", err)
	}
	o.Key, o.generated = hex.EncodeToString(buf), true
	return nil
}

// KeyGenerated reports whether Complete made up the signing key.
func (o *Options) KeyGenerated() bool { return o.generated }

func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	if !slices.Contains(methods, o.SigningMethod) {
		errs = append(errs, fmt.Errorf("jwt.signing-method %q is not supported, want one of %v", o.SigningMethod, methods))
	}
	if o.Key != "" && len(o.Key) < minKeyLen {
		errs = append(errs, fmt.Errorf("jwt.key must be at least %d characters, got %d", minKeyLen, len(o.Key)))
	}
	if o.Expired <= 0 {
		errs = append(errs, fmt.Errorf("jwt.expired must be positive, got %v", o.Expired))
	}
	return errs
}

func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "jwt."
	fs.StringVar(&o.Key, p+"key", o.Key, "HMAC signing key, at least 32 characters. Falls back to "+KeyEnv+", then to a random key.")
	fs.StringVar(&o.SigningMethod, p+"signing-method", o.SigningMethod, "Signing algorithm (HS256|HS384|HS512).")
	fs.DurationVar(&o.Expired, p+"expired", o.Expired, "Token lifetime.")
	fs.StringVar(&o.Issuer, p+"issuer", o.Issuer, "Token issuer (iss claim).")
}
