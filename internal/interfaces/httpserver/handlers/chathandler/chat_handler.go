// Package chathandler exposes the chat endpoint.
package chathandler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/relaybase/chat-api/internal/domain"
	"github.com/relaybase/chat-api/internal/domain/chat"
	"github.com/relaybase/chat-api/internal/domain/user"
	"github.com/relaybase/chat-api/internal/infrastructure/metrics"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/middlewares"
	chatrequests "github.com/relaybase/chat-api/internal/interfaces/httpserver/requests/chat"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/responses"
	chatresponses "github.com/relaybase/chat-api/internal/interfaces/httpserver/responses/chat"
)

type ChatHandler struct {
	orchestrator *chat.Orchestrator
	logger       zerolog.Logger
}

func NewChatHandler(orchestrator *chat.Orchestrator, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Send handles POST /v1/chat. Requests without a resolvable identity run on
// the guest branch and never persist anything.
func (h *ChatHandler) Send(c *gin.Context) {
	var req chatrequests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	input := chat.SendInput{
		Message:         req.Message,
		ModelPublicID:   req.ModelID,
		SessionPublicID: req.SessionID,
		GuestFlag:       req.IsGuest,
	}

	if principal, ok := middlewares.PrincipalFromContext(c); ok && principal.Resolved() {
		input.Identity = identityFromPrincipal(principal)
	}
	isGuest := req.IsGuest || input.Identity == nil

	result, err := h.orchestrator.Send(c.Request.Context(), input)
	if err != nil {
		metrics.RecordChatRequest(isGuest, "error")
		responses.HandleError(c, err, "chat request failed")
		return
	}

	metrics.RecordChatRequest(isGuest, strconv.Itoa(http.StatusOK))
	c.JSON(http.StatusOK, chatresponses.ChatResponse{
		Content:    result.Content,
		SessionID:  result.SessionPublicID,
		TokenCount: result.TokenCount,
	})
}

func identityFromPrincipal(principal domain.Principal) *user.Identity {
	identity := &user.Identity{
		Issuer:  principal.Issuer,
		Subject: principal.Subject,
	}
	if principal.Email != "" {
		email := principal.Email
		identity.Email = &email
	}
	if principal.Name != "" {
		name := principal.Name
		identity.Name = &name
	}
	return identity
}
