package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/campusgpt/internal/campus/biz/session"
	"github.com/kart-io/campusgpt/internal/campus/biz/ticket"
	"github.com/kart-io/campusgpt/internal/model"
	"github.com/kart-io/campusgpt/internal/pkg/httputils"
)

// TicketHandler handles help-ticket requests.
type TicketHandler struct {
	svc *ticket.Service
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(svc *ticket.Service) *TicketHandler {
	return &TicketHandler{svc: svc}
}

// ListTicketsQuery filters the ticket list.
type ListTicketsQuery struct {
	Status string `form:"status" json:"status" validate:"omitempty,ticketstat"`
}

// RaiseTicketRequest is the request body for a new ticket.
type RaiseTicketRequest struct {
	// Question may be empty, it then defaults to "Help needed"
	Question string `json:"question" validate:"max=4000"`
}

// AnswerTicketRequest is the request body for answering a ticket.
type AnswerTicketRequest struct {
	Answer string `json:"answer" validate:"notblank"`
}

// List handles GET /v1/tickets.
func (h *TicketHandler) List(c *gin.Context) {
	var q ListTicketsQuery
	if err := httputils.BindQuery(c, &q); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	tickets, err := h.svc.List(c.Request.Context(), model.TicketStatus(q.Status))
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, tickets)
}

// Raise handles POST /v1/tickets.
func (h *TicketHandler) Raise(c *gin.Context) {
	var req RaiseTicketRequest
	if err := httputils.BindJSON(c, &req); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	t, err := h.svc.Raise(c.Request.Context(), session.UserFromContext(c.Request.Context()), req.Question)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, t)
}

// Answer handles POST /v1/tickets/:id/answers. An unknown id answers 200
// with null data.
func (h *TicketHandler) Answer(c *gin.Context) {
	var req AnswerTicketRequest
	if err := httputils.BindJSON(c, &req); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	t, err := h.svc.Resolve(c.Request.Context(), session.UserFromContext(c.Request.Context()), c.Param("id"), req.Answer)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	if t == nil {
		httputils.WriteResponse(c, nil, nil)
		return
	}
	httputils.WriteResponse(c, nil, t)
}
