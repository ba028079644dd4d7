package chatresponses

// ChatResponse is the reply to one chat turn. SessionID is null on the guest
// branch.
type ChatResponse struct {
	Content    string  `json:"content"`
	SessionID  *string `json:"session_id"`
	TokenCount int     `json:"token_count"`
}
