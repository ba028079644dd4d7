package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/relaybase/chat-api/internal/config"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/middlewares"
)

type ChatRoute struct {
	chatHandler *chathandler.ChatHandler
	config      *config.Config
}

func NewChatRoute(chatHandler *chathandler.ChatHandler, cfg *config.Config) *ChatRoute {
	return &ChatRoute{chatHandler: chatHandler, config: cfg}
}

// RegisterRouter attaches the chat endpoint. Authentication is optional
// here: unauthenticated callers run as guests. The rate limit keys on the
// principal subject when resolved, else the client IP.
//
// @Summary Send a chat message
// @Tags Chat API
// @Router /v1/chat [post]
func (route *ChatRoute) RegisterRouter(router *gin.RouterGroup) {
	handlers := []gin.HandlerFunc{}
	if route.config.ChatRateLimitPerMinute > 0 {
		handlers = append(handlers, middlewares.RateLimitMiddleware(route.config.ChatRateLimitPerMinute))
	}
	handlers = append(handlers, route.chatHandler.Send)
	router.POST("/chat", handlers...)
}
