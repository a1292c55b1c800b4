package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/campusgpt/internal/campus/biz/post"
	"github.com/kart-io/campusgpt/internal/campus/biz/session"
	"github.com/kart-io/campusgpt/internal/model"
	"github.com/kart-io/campusgpt/internal/pkg/httputils"
)

// PostHandler handles bulletin requests.
type PostHandler struct {
	svc *post.Service
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc *post.Service) *PostHandler {
	return &PostHandler{svc: svc}
}

// CreatePostRequest is the request body for a new post.
type CreatePostRequest struct {
	Content string `json:"content" validate:"notblank"`
	// Tags is a comma separated list
	Tags       string `json:"tags"`
	Visibility string `json:"visibility" validate:"omitempty,visibility"`
}

// List handles GET /v1/posts.
func (h *PostHandler) List(c *gin.Context) {
	role := model.RoleGuest
	if user := session.UserFromContext(c.Request.Context()); user != nil {
		role = user.Role
	}

	posts, err := h.svc.List(c.Request.Context(), role)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, posts)
}

// Create handles POST /v1/posts.
func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostRequest
	if err := httputils.BindJSON(c, &req); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), session.UserFromContext(c.Request.Context()), post.CreateRequest{
		Content:    req.Content,
		Tags:       req.Tags,
		Visibility: req.Visibility,
	})
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, p)
}
