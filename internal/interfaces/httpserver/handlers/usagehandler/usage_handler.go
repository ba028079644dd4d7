// Package usagehandler exposes the authenticated token usage report.
package usagehandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/relaybase/chat-api/internal/domain"
	"github.com/relaybase/chat-api/internal/domain/usage"
	"github.com/relaybase/chat-api/internal/domain/user"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/middlewares"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/responses"
	usageresponses "github.com/relaybase/chat-api/internal/interfaces/httpserver/responses/usage"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 365
)

type UsageHandler struct {
	users  *user.Service
	usage  *usage.Service
	logger zerolog.Logger
}

func NewUsageHandler(users *user.Service, usageService *usage.Service, logger zerolog.Logger) *UsageHandler {
	return &UsageHandler{
		users:  users,
		usage:  usageService,
		logger: logger,
	}
}

// Get handles GET /v1/usage?days=30, aggregated per model.
func (h *UsageHandler) Get(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok || !principal.Resolved() {
		responses.HandleErrorWithStatus(c, http.StatusUnauthorized, nil, "authentication required")
		return
	}

	owner, err := h.users.EnsureUser(c.Request.Context(), identityFromPrincipal(principal))
	if err != nil {
		responses.HandleError(c, err, "failed to resolve user")
		return
	}

	days := defaultWindowDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxWindowDays {
			responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "days must be between 1 and 365")
			return
		}
		days = parsed
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)

	summaries, err := h.usage.SummarizeByUser(c.Request.Context(), owner.ID, from, to)
	if err != nil {
		responses.HandleError(c, err, "failed to summarize usage")
		return
	}

	c.JSON(http.StatusOK, usageresponses.NewUsageResponse(from, to, summaries))
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
