package sessions

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/relaybase/chat-api/internal/interfaces/httpserver/handlers/sessionhandler"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/middlewares"
)

type SessionRoute struct {
	sessionHandler *sessionhandler.SessionHandler
	logger         zerolog.Logger
}

func NewSessionRoute(sessionHandler *sessionhandler.SessionHandler, logger zerolog.Logger) *SessionRoute {
	return &SessionRoute{
		sessionHandler: sessionHandler,
		logger:         logger,
	}
}

// RegisterRouter attaches the session endpoints. All of them require an
// authenticated principal.
func (route *SessionRoute) RegisterRouter(router *gin.RouterGroup) {
	sessionsRoute := router.Group("/sessions", middlewares.RequireAuth(route.logger))
	sessionsRoute.GET("", route.sessionHandler.List)
	sessionsRoute.GET("/:id", route.sessionHandler.Get)
	sessionsRoute.DELETE("/:id", route.sessionHandler.Delete)
}
