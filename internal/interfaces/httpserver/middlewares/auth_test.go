package middlewares

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authverifier "github.com/relaybase/chat-api/internal/infrastructure/auth"
)

const (
	testIssuer   = "https://idp.test"
	testAudience = "chat-api"
	testKeyID    = "test-key"
)

type authFixture struct {
	key      *rsa.PrivateKey
	verifier *authverifier.TokenVerifier
	router   *gin.Engine
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": testKeyID,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(jwks))
	}))
	t.Cleanup(server.Close)

	verifier, err := authverifier.NewTokenVerifier(
		context.Background(), server.URL, testIssuer, testAudience,
		time.Minute, 30*time.Second, zerolog.Nop(),
	)
	require.NoError(t, err)

	router := gin.New()
	router.Use(OptionalAuth(verifier, zerolog.Nop()))
	router.GET("/open", func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok && principal.Resolved(), "subject": principal.Subject})
	})
	protected := router.Group("/protected", RequireAuth(zerolog.Nop()))
	protected.GET("", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return &authFixture{key: key, verifier: verifier, router: router}
}

func (f *authFixture) signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	signed, err := token.SignedString(f.key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":   testIssuer,
		"aud":   testAudience,
		"sub":   "user-123",
		"email": "ada@example.com",
		"name":  "Ada",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
}

func (f *authFixture) do(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestOptionalAuthResolvesValidToken(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.do("/open", f.signToken(t, validClaims()))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "user-123", body["subject"])
}

func TestOptionalAuthExpiredTokenDegradesToGuest(t *testing.T) {
	f := newAuthFixture(t)

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	rec := f.do("/open", f.signToken(t, claims))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["authenticated"])
}

func TestOptionalAuthWrongIssuerDegradesToGuest(t *testing.T) {
	f := newAuthFixture(t)

	claims := validClaims()
	claims["iss"] = "https://sketchy.example.com"
	rec := f.do("/open", f.signToken(t, claims))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["authenticated"])
}

func TestOptionalAuthForeignKeyDegradesToGuest(t *testing.T) {
	f := newAuthFixture(t)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims())
	token.Header["kid"] = testKeyID
	signed, err := token.SignedString(otherKey)
	require.NoError(t, err)

	rec := f.do("/open", signed)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["authenticated"])
}

func TestOptionalAuthMissingTokenIsGuest(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.do("/open", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["authenticated"])
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.do("/protected", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsInvalidToken(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.do("/protected", "not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.do("/protected", f.signToken(t, validClaims()))

	assert.Equal(t, http.StatusOK, rec.Code)
}
