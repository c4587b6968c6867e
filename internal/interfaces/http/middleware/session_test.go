package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pokemart/storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Session.CookieName = "cart_session"
	cfg.Session.TTL = 24 * time.Hour

	r := gin.New()
	r.GET("/", Session(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"token": c.GetString(ContextSessionToken)})
	})
	return r
}

func TestSessionMintsCookie(t *testing.T) {
	r := sessionRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var minted *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "cart_session" {
			minted = cookie
		}
	}
	require.NotNil(t, minted)
	assert.NotEmpty(t, minted.Value)
	assert.True(t, minted.HttpOnly)
}

func TestSessionReusesCookie(t *testing.T) {
	r := sessionRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "existing-token"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "existing-token")
	assert.Empty(t, w.Result().Cookies())
}
