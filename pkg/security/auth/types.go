// Package auth defines the token and claims types shared by authenticators.
package auth

import "fmt"

// Claims 已验证令牌中的声明。
type Claims struct {
	Subject   string         `json:"sub"`
	Issuer    string         `json:"iss,omitempty"`
	IssuedAt  int64          `json:"iat"`
	ExpiresAt int64          `json:"exp"`
	ID        string         `json:"jti,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// GetExtraString returns Extra[key] rendered as a string, or "" if absent.
func (c *Claims) GetExtraString(key string) string {
	if c == nil || c.Extra == nil {
		return ""
	}
	switch v := c.Extra[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Token 签发结果。
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
	ExpiresIn   int64  `json:"expires_in"`
}

// SignOptions 签发选项。
type SignOptions struct {
	Extra   map[string]any
	TokenID string
}

// SignOption configures SignOptions.
type SignOption func(*SignOptions)

// WithExtra merges extra claims into the token.
func WithExtra(extra map[string]any) SignOption {
	return func(o *SignOptions) {
		if o.Extra == nil {
			o.Extra = make(map[string]any, len(extra))
		}
		for k, v := range extra {
			o.Extra[k] = v
		}
	}
}

// WithTokenID sets the jti claim.
func WithTokenID(id string) SignOption {
	return func(o *SignOptions) {
		o.TokenID = id
	}
}
