package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/campusgpt/internal/campus/biz/knowledge"
	"github.com/kart-io/campusgpt/internal/campus/biz/session"
	"github.com/kart-io/campusgpt/internal/model"
	"github.com/kart-io/campusgpt/internal/pkg/httputils"
)

// KnowledgeHandler exposes retrieval for inspection.
type KnowledgeHandler struct {
	svc *knowledge.Service
}

// NewKnowledgeHandler creates a new KnowledgeHandler.
func NewKnowledgeHandler(svc *knowledge.Service) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc}
}

// SearchQuery is the query of a knowledge search.
type SearchQuery struct {
	Q string `form:"q" json:"q" validate:"max=4000"`
}

// SearchResult shows what the assistant would receive as context.
type SearchResult struct {
	Query   string                 `json:"query"`
	Role    model.Role             `json:"role"`
	Terms   []string               `json:"terms"`
	Context string                 `json:"context"`
	Items   []*model.KnowledgeItem `json:"items"`
}

// Search handles GET /v1/knowledge/search.
func (h *KnowledgeHandler) Search(c *gin.Context) {
	var q SearchQuery
	if err := httputils.BindQuery(c, &q); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	role := model.RoleGuest
	if user := session.UserFromContext(c.Request.Context()); user != nil {
		role = user.Role
	}
	items, err := h.svc.Matches(c.Request.Context(), q.Q, role)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	terms := knowledge.Terms(q.Q)
	if terms == nil {
		terms = []string{}
	}
	if items == nil {
		items = []*model.KnowledgeItem{}
	}
	httputils.WriteResponse(c, nil, &SearchResult{
		Query:   q.Q,
		Role:    role,
		Terms:   terms,
		Context: knowledge.Format(items),
		Items:   items,
	})
}
