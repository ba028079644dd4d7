package model

import (
	"github.com/gin-gonic/gin"

	"github.com/relaybase/chat-api/internal/interfaces/httpserver/handlers/modelhandler"
)

type ModelRoute struct {
	modelHandler *modelhandler.ModelHandler
}

func NewModelRoute(modelHandler *modelhandler.ModelHandler) *ModelRoute {
	return &ModelRoute{modelHandler: modelHandler}
}

// RegisterRouter attaches the public model catalog listing.
//
// @Summary List available models
// @Tags Model API
// @Router /v1/models [get]
func (route *ModelRoute) RegisterRouter(router *gin.RouterGroup) {
	modelsRoute := router.Group("/models")
	modelsRoute.GET("", route.modelHandler.List)
}
