package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/campusgpt/internal/campus/biz/assistant"
	"github.com/kart-io/campusgpt/internal/campus/biz/session"
	"github.com/kart-io/campusgpt/internal/pkg/httputils"
	"github.com/kart-io/campusgpt/pkg/llm"
)

// ChatHandler handles assistant requests.
type ChatHandler struct {
	svc *assistant.Service
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(svc *assistant.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// ChatTurn is one prior message of the conversation.
type ChatTurn struct {
	Role string `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text"`
}

// ChatRequest is the request body for a chat message.
type ChatRequest struct {
	Message string     `json:"message" validate:"notblank,max=4000"`
	History []ChatTurn `json:"history" validate:"max=100,dive"`
}

// Send handles POST /v1/chat.
func (h *ChatHandler) Send(c *gin.Context) {
	var req ChatRequest
	if err := httputils.BindJSON(c, &req); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	history := make([]llm.Message, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, llm.Message{Role: llm.Role(turn.Role), Content: turn.Text})
	}

	reply, err := h.svc.Ask(c.Request.Context(), session.UserFromContext(c.Request.Context()), req.Message, history)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, reply)
}
