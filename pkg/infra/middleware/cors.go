package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig lists what browser clients on other origins may do. Zero
// fields fall back to DefaultCORSConfig; "*" in AllowOrigins matches any
// origin.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	// MaxAge 预检结果的缓存秒数
	MaxAge int
}

// DefaultCORSConfig admits any origin for the JSON API.
var DefaultCORSConfig = CORSConfig{
	AllowOrigins:  []string{"*"},
	AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", HeaderXRequestID},
	ExposeHeaders: []string{HeaderXRequestID},
	MaxAge:        86400,
}

// corsPolicy is a CORSConfig with its header values rendered once.
type corsPolicy struct {
	origins     []string
	credentials bool
	methods     string
	headers     string
	expose      string
	maxAge      string
}

func newCORSPolicy(cfg CORSConfig) corsPolicy {
	pick := func(v, def []string) []string {
		if len(v) == 0 {
			return def
		}
		return v
	}
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = DefaultCORSConfig.MaxAge
	}
	return corsPolicy{
		origins:     pick(cfg.AllowOrigins, DefaultCORSConfig.AllowOrigins),
		credentials: cfg.AllowCredentials,
		methods:     strings.Join(pick(cfg.AllowMethods, DefaultCORSConfig.AllowMethods), ", "),
		headers:     strings.Join(pick(cfg.AllowHeaders, DefaultCORSConfig.AllowHeaders), ", "),
		expose:      strings.Join(cfg.ExposeHeaders, ", "),
		maxAge:      strconv.Itoa(maxAge),
	}
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or
// "" when the origin is not admitted.
func (p corsPolicy) allowOrigin(origin string) string {
	if slices.Contains(p.origins, origin) {
		return origin
	}
	if !slices.Contains(p.origins, "*") {
		return ""
	}
	// 携带凭证时浏览器不接受通配符
	if p.credentials {
		return origin
	}
	return "*"
}

// CORSWithConfig answers cross origin requests according to cfg. Requests
// without an Origin header, or from an origin that is not admitted, pass
// through untouched. Preflight requests end here with 204.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	p := newCORSPolicy(cfg)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allow := ""
		if origin != "" {
			allow = p.allowOrigin(origin)
		}
		if allow == "" {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allow)
		if allow != "*" {
			h.Add("Vary", "Origin")
		}
		if p.credentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		if p.expose != "" {
			h.Set("Access-Control-Expose-Headers", p.expose)
		}

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}
		h.Set("Access-Control-Allow-Methods", p.methods)
		h.Set("Access-Control-Allow-Headers", p.headers)
		h.Set("Access-Control-Max-Age", p.maxAge)
		c.AbortWithStatus(http.StatusNoContent)
	}
}
