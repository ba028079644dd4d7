package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/relaybase/chat-api/internal/config"
	"github.com/relaybase/chat-api/internal/infrastructure/auth"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/routes/v1/chat"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/routes/v1/model"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/routes/v1/sessions"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/routes/v1/usageroute"
)

type V1Route struct {
	chat     *chat.ChatRoute
	sessions *sessions.SessionRoute
	model    *model.ModelRoute
	usage    *usageroute.UsageRoute
	verifier *auth.TokenVerifier
}

func NewV1Route(
	chatRoute *chat.ChatRoute,
	sessionRoute *sessions.SessionRoute,
	modelRoute *model.ModelRoute,
	usageRoute *usageroute.UsageRoute,
	verifier *auth.TokenVerifier,
) *V1Route {
	return &V1Route{
		chat:     chatRoute,
		sessions: sessionRoute,
		model:    modelRoute,
		usage:    usageRoute,
		verifier: verifier,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Router.GET("/healthz", GetHealthz)
	v1Router.GET("/readyz", v1Route.GetReadyz)

	v1Route.chat.RegisterRouter(v1Router)
	v1Route.sessions.RegisterRouter(v1Router)
	v1Route.model.RegisterRouter(v1Router)
	v1Route.usage.RegisterRouter(v1Router)
}

// GetVersion returns the current build version of the API server.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": config.Version})
}

// GetHealthz reports process liveness.
func GetHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadyz reports readiness. The service is not ready until the JWKS key
// set has been fetched.
func (v1Route *V1Route) GetReadyz(c *gin.Context) {
	if v1Route.verifier != nil && !v1Route.verifier.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "jwks not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
