package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"reviewhub/pkg/models"
)

func testTokens() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "reviewhub-test",
		Duration: time.Hour,
	}
}

func TestSignParseRoundtrip(t *testing.T) {
	ts := testTokens()
	u := &models.User{ID: "u1", Username: "alice"}

	raw, exp, err := ts.Sign(u)
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	claims, err := ts.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, ScopeAccess, claims.Scope)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	ts := testTokens()
	raw, _, err := ts.Sign(&models.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	other := TokenService{Secret: []byte("other"), Issuer: ts.Issuer, Duration: ts.Duration}
	_, err = other.Parse(raw)
	require.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	ts := testTokens()
	ts.Duration = -time.Minute

	raw, _, err := ts.Sign(&models.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	_, err = ts.Parse(raw)
	require.Error(t, err)
}

func setupMiddlewareRouter(ts TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/required", Middleware(ts, nil), RequireScope(ScopeAccess), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": MustGetClaims(c).UserID})
	})
	r.GET("/optional", OptionalMiddleware(ts, nil), func(c *gin.Context) {
		claims := MustGetClaims(c)
		if claims == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	return r
}

func TestMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	r := setupMiddlewareRouter(testTokens())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/required", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/required", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	ts := testTokens()
	r := setupMiddlewareRouter(ts)

	raw, _, err := ts.Sign(&models.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/required", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalMiddlewarePassesAnonymous(t *testing.T) {
	ts := testTokens()
	r := setupMiddlewareRouter(ts)

	// no token: anonymous, not rejected
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/optional", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "anonymous")

	// garbage token: also anonymous
	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "anonymous")

	// valid token: claims attached
	raw, _, err := ts.Sign(&models.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "u1")
}
