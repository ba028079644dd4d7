// Package sessionhandler exposes the session listing, detail and delete
// endpoints. Every route requires an authenticated principal.
package sessionhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/relaybase/chat-api/internal/application/audit"
	"github.com/relaybase/chat-api/internal/domain"
	"github.com/relaybase/chat-api/internal/domain/session"
	"github.com/relaybase/chat-api/internal/domain/user"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/middlewares"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/responses"
	sessionresponses "github.com/relaybase/chat-api/internal/interfaces/httpserver/responses/session"
)

type SessionHandler struct {
	users    *user.Service
	sessions *session.Service
	audit    *audit.Logger
	logger   zerolog.Logger
}

func NewSessionHandler(users *user.Service, sessions *session.Service, auditLogger *audit.Logger, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		users:    users,
		sessions: sessions,
		audit:    auditLogger,
		logger:   logger,
	}
}

// List handles GET /v1/sessions, most recently updated first.
func (h *SessionHandler) List(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	sessions, err := h.sessions.ListByOwner(c.Request.Context(), owner.ID)
	if err != nil {
		responses.HandleError(c, err, "failed to list sessions")
		return
	}

	out := make([]sessionresponses.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionresponses.NewSessionSummary(sess))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// Get handles GET /v1/sessions/:id including the full message history.
func (h *SessionHandler) Get(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	sess, err := h.sessions.GetOwnedSession(c.Request.Context(), owner.ID, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to load session")
		return
	}

	messages, err := h.sessions.History(c.Request.Context(), sess.ID)
	if err != nil {
		responses.HandleError(c, err, "failed to load session messages")
		return
	}

	c.JSON(http.StatusOK, sessionresponses.NewSessionDetail(sess, messages))
}

// Delete handles DELETE /v1/sessions/:id. Messages go with the session.
func (h *SessionHandler) Delete(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	err := h.sessions.DeleteOwnedSession(c.Request.Context(), owner.ID, c.Param("id"))

	entry := audit.Entry{
		Subject:    owner.Subject,
		Action:     audit.ActionSessionDelete,
		Resource:   "session",
		ResourceID: c.Param("id"),
		RequestID:  middlewares.RequestIDFromContext(c),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		StatusCode: http.StatusNoContent,
		Error:      err,
	}
	if owner.Email != nil {
		entry.Email = *owner.Email
	}

	if err != nil {
		entry.StatusCode = http.StatusInternalServerError
		h.audit.Log(c.Request.Context(), entry)
		responses.HandleError(c, err, "failed to delete session")
		return
	}

	h.audit.Log(c.Request.Context(), entry)
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) resolveOwner(c *gin.Context) (*user.User, bool) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok || !principal.Resolved() {
		responses.HandleErrorWithStatus(c, http.StatusUnauthorized, nil, "authentication required")
		return nil, false
	}

	owner, err := h.users.EnsureUser(c.Request.Context(), identityFromPrincipal(principal))
	if err != nil {
		responses.HandleError(c, err, "failed to resolve user")
		return nil, false
	}
	return owner, true
}

func identityFromPrincipal(principal domain.Principal) user.Identity {
	identity := user.Identity{
		Issuer:  principal.Issuer,
		Subject: principal.Subject,
	}
	if principal.Email != "" {
		email := principal.Email
		identity.Email = &email
	}
	if principal.Name != "" {
		name := principal.Name
		identity.Name = &name
	}
	return identity
}
