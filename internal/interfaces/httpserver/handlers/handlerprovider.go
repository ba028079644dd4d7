package handlers

import (
	"github.com/google/wire"

	"github.com/relaybase/chat-api/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/handlers/modelhandler"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/handlers/sessionhandler"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/handlers/usagehandler"
)

// Handlers aggregates every HTTP handler for route registration.
type Handlers struct {
	Chat    *chathandler.ChatHandler
	Session *sessionhandler.SessionHandler
	Model   *modelhandler.ModelHandler
	Usage   *usagehandler.UsageHandler
}

func NewHandlers(
	chat *chathandler.ChatHandler,
	session *sessionhandler.SessionHandler,
	model *modelhandler.ModelHandler,
	usage *usagehandler.UsageHandler,
) *Handlers {
	return &Handlers{
		Chat:    chat,
		Session: session,
		Model:   model,
		Usage:   usage,
	}
}

// HandlerProvider provides all HTTP handlers
var HandlerProvider = wire.NewSet(
	chathandler.NewChatHandler,
	sessionhandler.NewSessionHandler,
	modelhandler.NewModelHandler,
	usagehandler.NewUsageHandler,
	NewHandlers,
)
