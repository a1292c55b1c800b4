// Package router registers the campus HTTP routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/campusgpt/internal/campus/handler"
	"github.com/kart-io/campusgpt/internal/pkg/httputils"
	"github.com/kart-io/campusgpt/pkg/security/auth/middleware"
	"github.com/kart-io/campusgpt/pkg/security/authz"
)

// Handlers groups the handlers served by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Chat      *handler.ChatHandler
	Post      *handler.PostHandler
	Ticket    *handler.TicketHandler
	Knowledge *handler.KnowledgeHandler
	System    *handler.SystemHandler
}

// Register registers the campus routes on engine. Every /v1 route except
// login requires a bearer token. Guarded routes are checked against the
// role policies.
func Register(engine *gin.Engine, verifier middleware.Verifier, authorizer authz.Authorizer, h *Handlers) {
	logger.Info("Registering campus routes...")

	onError := middleware.WithErrorHandler(httputils.AbortWithError)
	authn := middleware.Authn(verifier, onError)
	guard := middleware.NewAuthorizer(authorizer, onError)

	engine.GET("/healthz", h.System.Health)
	engine.GET("/version", h.System.Version)

	v1 := engine.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		authGroup.POST("/login", h.Auth.Login)
		authGroup.GET("/me", authn, h.Auth.Me)
		authGroup.POST("/logout", authn, h.Auth.Logout)

		protected := v1.Group("", authn)
		protected.POST("/chat", guard.Require(ResourceChat, ActionSend), h.Chat.Send)

		protected.GET("/posts", guard.Require(ResourcePosts, ActionRead), h.Post.List)
		protected.POST("/posts", guard.Require(ResourcePosts, ActionCreate), h.Post.Create)

		protected.GET("/tickets", guard.Require(ResourceTickets, ActionRead), h.Ticket.List)
		protected.POST("/tickets", guard.Require(ResourceTickets, ActionCreate), h.Ticket.Raise)
		protected.POST("/tickets/:id/answers", guard.Require(ResourceTickets, ActionResolve), h.Ticket.Answer)

		protected.GET("/knowledge/search", guard.Require(ResourceKnowledge, ActionSearch), h.Knowledge.Search)
	}

	routes := engine.Routes()
	logger.Infow("Campus routes registered", "count", len(routes))
	for _, r := range routes {
		if r.Method != http.MethodHead {
			logger.Debugw("route", "method", r.Method, "path", r.Path)
		}
	}
}
