package routes

import (
	v1 "github.com/relaybase/chat-api/internal/interfaces/httpserver/routes/v1"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/routes/v1/chat"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/routes/v1/model"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/routes/v1/sessions"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/routes/v1/usageroute"

	"github.com/google/wire"
)

var RouteProvider = wire.NewSet(
	v1.NewV1Route,
	chat.NewChatRoute,
	sessions.NewSessionRoute,
	model.NewModelRoute,
	usageroute.NewUsageRoute,
)
