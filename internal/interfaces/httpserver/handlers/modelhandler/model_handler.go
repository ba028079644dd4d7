// Package modelhandler exposes the public model catalog listing.
package modelhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/relaybase/chat-api/internal/domain/model"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/responses"
	modelresponses "github.com/relaybase/chat-api/internal/interfaces/httpserver/responses/model"
)

type ModelHandler struct {
	resolver *model.Resolver
	logger   zerolog.Logger
}

func NewModelHandler(resolver *model.Resolver, logger zerolog.Logger) *ModelHandler {
	return &ModelHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// List handles GET /v1/models. Only active catalog entries are listed;
// inactive ones stay resolvable on the chat path but are not advertised.
func (h *ModelHandler) List(c *gin.Context) {
	models, err := h.resolver.ListActive(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list models")
		return
	}

	c.JSON(http.StatusOK, modelresponses.NewModelListResponse(models))
}
