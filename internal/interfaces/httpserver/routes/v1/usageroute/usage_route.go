package usageroute

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/relaybase/chat-api/internal/interfaces/httpserver/handlers/usagehandler"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/middlewares"
)

type UsageRoute struct {
	usageHandler *usagehandler.UsageHandler
	logger       zerolog.Logger
}

func NewUsageRoute(usageHandler *usagehandler.UsageHandler, logger zerolog.Logger) *UsageRoute {
	return &UsageRoute{
		usageHandler: usageHandler,
		logger:       logger,
	}
}

// RegisterRouter attaches the usage report endpoint.
func (route *UsageRoute) RegisterRouter(router *gin.RouterGroup) {
	usageRouter := router.Group("/usage", middlewares.RequireAuth(route.logger))
	usageRouter.GET("", route.usageHandler.Get)
}
