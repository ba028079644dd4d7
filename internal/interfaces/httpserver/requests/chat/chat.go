package chatrequests

// ChatRequest is one inbound chat turn.
type ChatRequest struct {
	Message   string  `json:"message" binding:"required"`
	ModelID   string  `json:"model_id" binding:"required"`
	SessionID *string `json:"session_id,omitempty"`
	// IsGuest forces the stateless branch even when a valid bearer token is
	// attached.
	IsGuest bool `json:"is_guest,omitempty"`
}
