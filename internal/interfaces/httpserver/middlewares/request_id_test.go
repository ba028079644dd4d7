package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

func TestRequestIDThreadsIntoRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())

	var errRequestID string
	router.GET("/boom", func(c *gin.Context) {
		err := platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler,
			platformerrors.ErrorTypeInternal, "boom", nil, "")
		errRequestID = err.RequestID
		c.Status(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-Id", "req-abc")
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-abc", errRequestID)
	assert.Equal(t, "req-abc", rec.Header().Get("X-Request-Id"))
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())

	router.GET("/ok", func(c *gin.Context) {
		assert.Equal(t, RequestIDFromContext(c), c.Writer.Header().Get("X-Request-Id"))
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
