package httpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/relaybase/chat-api/internal/config"
	"github.com/relaybase/chat-api/internal/infrastructure"
	middleware "github.com/relaybase/chat-api/internal/interfaces/httpserver/middlewares"
	v1 "github.com/relaybase/chat-api/internal/interfaces/httpserver/routes/v1"
	"github.com/relaybase/chat-api/swagger"
)

type HTTPServer struct {
	engine  *gin.Engine
	infra   *infrastructure.Infrastructure
	v1Route *v1.V1Route
	config  *config.Config
}

func NewHttpServer(
	v1Route *v1.V1Route,
	infra *infrastructure.Infrastructure,
	cfg *config.Config,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := HTTPServer{
		gin.New(),
		infra,
		v1Route,
		cfg,
	}
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(infra.Logger))
	server.engine.Use(middleware.CORSMiddleware())
	server.engine.Use(middleware.MetricsMiddleware())

	// Root health check (for load balancers that do not know the v1 prefix)
	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	swagger.Register(server.engine)

	return &server
}

// Run registers the route tree and serves until the context is cancelled.
func (httpServer *HTTPServer) Run(ctx context.Context) error {
	root := httpServer.engine.Group("/")

	// Token resolution is optional at this layer: the chat endpoint accepts
	// guest traffic, every session route enforces RequireAuth itself.
	root.Use(middleware.OptionalAuth(httpServer.infra.TokenVerifier, httpServer.infra.Logger))

	httpServer.v1Route.RegisterRouter(root)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", httpServer.config.HTTPPort),
		Handler: httpServer.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}
