package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nipitpongpan/Jenzabar/internal/models"
)

const testSecret = "test_secret"

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := &models.JWTClaims{
		Role: "reporting",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "svc-reporting",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runProtected(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	r := gin.New()
	r.Use(BearerAuth(testSecret))
	r.GET("/probe", func(c *gin.Context) {
		claims, exists := c.Get(ContextUserKey)
		require.True(t, exists)
		require.IsType(t, &models.JWTClaims{}, claims)
		c.Status(http.StatusOK)
	})

	req, err := http.NewRequest(http.MethodGet, "/probe", nil)
	require.NoError(t, err)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestBearerAuthValidToken(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(time.Hour))
	w := runProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerAuthMissingHeader(t *testing.T) {
	w := runProtected(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerAuthMalformedHeader(t *testing.T) {
	w := runProtected(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerAuthWrongSecret(t *testing.T) {
	token := signToken(t, "other_secret", time.Now().Add(time.Hour))
	w := runProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerAuthExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(-time.Hour))
	w := runProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
