package modelresponses

import (
	"github.com/relaybase/chat-api/internal/domain/model"
	"github.com/relaybase/chat-api/internal/utils/functional"
)

// ModelResponse is one catalog entry as exposed to clients. Provider routing
// details stay server-side.
type ModelResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// ModelListResponse wraps the catalog listing.
type ModelListResponse struct {
	Data []ModelResponse `json:"data"`
}

// NewModelListResponse converts catalog entries to the client representation.
func NewModelListResponse(models []*model.Model) ModelListResponse {
	return ModelListResponse{
		Data: functional.Map(models, func(m *model.Model) ModelResponse {
			return ModelResponse{
				ID:          m.PublicID,
				DisplayName: m.DisplayName,
			}
		}),
	}
}
