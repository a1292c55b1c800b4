// Package handler implements the campus HTTP handlers.
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/campusgpt/internal/campus/biz/session"
	"github.com/kart-io/campusgpt/internal/pkg/httputils"
	"github.com/kart-io/campusgpt/pkg/security/auth"
	"github.com/kart-io/campusgpt/pkg/utils/errors"
)

// AuthHandler handles login and session requests.
type AuthHandler struct {
	svc *session.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *session.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	// Email must contain '@' with a non-empty local part
	Email string `json:"email" validate:"required,loginemail"`
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := httputils.BindJSON(c, &req); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Email)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, res)
}

// Me handles GET /v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user := session.UserFromContext(c.Request.Context())
	if user == nil {
		httputils.WriteResponse(c, errors.ErrUnauthorized, nil)
		return
	}
	httputils.WriteResponse(c, nil, user)
}

// Logout handles POST /v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := auth.TokenFromContext(c.Request.Context())
	if token == "" {
		httputils.WriteResponse(c, errors.ErrUnauthorized, nil)
		return
	}
	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, gin.H{"logged_out": true})
}
